package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/interview"
	"github.com/edvenity/recruiter/internal/models"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Administer interview access tokens",
}

var interviewScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Issue a fresh interview link and mail it to the candidate",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		withInterviews(cmd, func(ctx context.Context, m *interview.Manager, candidateID int64) (any, error) {
			return m.Schedule(ctx, models.CandidateJobRequest{CandidateID: candidateID})
		})
	},
}

var interviewEndCmd = &cobra.Command{
	Use:   "end",
	Short: "Close the candidate's interview access without recording an interview",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		withInterviews(cmd, func(ctx context.Context, m *interview.Manager, candidateID int64) (any, error) {
			return m.End(ctx, candidateID)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{interviewScheduleCmd, interviewEndCmd} {
		c.Flags().Int64("candidate", 0, "candidate id")
		c.MarkFlagRequired("candidate")
		interviewCmd.AddCommand(c)
	}
	rootCmd.AddCommand(interviewCmd)
}

func withInterviews(cmd *cobra.Command, action func(context.Context, *interview.Manager, int64) (any, error)) {
	ctx := context.Background()
	logger, cfg := setup()

	candidateID, _ := cmd.Flags().GetInt64("candidate")

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	defer store.Close()

	manager, err := newInterviewManager(cfg, store, logger)
	if err != nil {
		logger.Fatal("creating interview manager", zap.Error(err))
	}

	result, err := action(ctx, manager, candidateID)
	if err != nil {
		logger.Fatal("interview command failed", zap.String("command", cmd.Name()), zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}
