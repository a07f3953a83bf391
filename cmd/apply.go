package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/models"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a candidate to a job and print the decision",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		applyForJob(cmd)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().Int64("job", 0, "job id")
	applyCmd.Flags().Int64("candidate", 0, "candidate id")
	applyCmd.MarkFlagRequired("job")
	applyCmd.MarkFlagRequired("candidate")
}

func applyForJob(cmd *cobra.Command) {
	ctx := context.Background()
	logger, cfg := setup()

	jobID, _ := cmd.Flags().GetInt64("job")
	candidateID, _ := cmd.Flags().GetInt64("candidate")

	application, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("wiring services", zap.Error(err))
	}
	defer application.Close()

	result, err := application.pipeline.ApplyForJob(ctx, models.CandidateJobRequest{CandidateID: candidateID, JobID: jobID})
	if err != nil {
		logger.Fatal("applying for job", zap.Error(err))
	}

	// do not bother error since the result is a plain struct
	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}
