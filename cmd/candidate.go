package cmd

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/logger"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var candidateCmd = &cobra.Command{
	Use:   "candidate",
	Short: "Administer stored candidates",
}

var candidateDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a candidate with every related record",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		deleteCandidate(cmd)
	},
}

func init() {
	candidateDeleteCmd.Flags().Int64("candidate", 0, "candidate id")
	candidateDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	candidateDeleteCmd.MarkFlagRequired("candidate")

	candidateCmd.AddCommand(candidateDeleteCmd)
	rootCmd.AddCommand(candidateCmd)
}

func deleteCandidate(cmd *cobra.Command) {
	ctx := context.Background()
	log, cfg := setup()

	candidateID, _ := cmd.Flags().GetInt64("candidate")
	yes, _ := cmd.Flags().GetBool("yes")

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("opening storage", zap.Error(err))
	}
	defer store.Close()

	candidate, err := store.GetCandidate(ctx, candidateID)
	if err != nil {
		log.Fatal("loading candidate", logger.Candidate(candidateID), zap.Error(err))
	}

	if !yes {
		confirm := promptui.Select{
			Label: fmt.Sprintf("Delete candidate %d (%s) with contact, skills, interviews and applications?", candidate.ID, candidate.Name),
			Items: []string{PromptNo, PromptYes},
		}
		_, answer, err := confirm.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		if answer != PromptYes {
			log.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	if err := store.DeleteCandidate(ctx, candidateID); err != nil {
		log.Fatal("deleting candidate", logger.Candidate(candidateID), zap.Error(err))
	}

	log.Info("candidate deleted", logger.Candidate(candidateID))
}
