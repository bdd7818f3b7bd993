package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wrongbook/internal/prompts"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice stored mistakes",
}

var practiceNewCmd = &cobra.Command{
	Use:   "new <item-id>",
	Short: "Generate a similar question for a stored item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetString("difficulty")
		showAnswer, _ := cmd.Flags().GetBool("answer")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := a.modelContext(cmd.Context())
		defer cancel()

		nb, err := a.notebook(ctx, true)
		if err != nil {
			return err
		}
		q, err := nb.GeneratePractice(ctx, a.cfg.UserID, args[0], prompts.Difficulty(strings.ToLower(difficulty)))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, q.QuestionText)
		if showAnswer {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Answer: %s\n", q.Answer)
			if q.Analysis != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, q.Analysis)
			}
		}
		return nil
	},
}

var practiceRecordCmd = &cobra.Command{
	Use:   "record <item-id> <correct|wrong>",
	Short: "Record the result of a practice attempt",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var correct bool
		switch strings.ToLower(args[1]) {
		case "correct", "right", "y", "yes", "1":
			correct = true
		case "wrong", "incorrect", "n", "no", "0":
		default:
			return fmt.Errorf("result must be correct or wrong, got %q", args[1])
		}

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		nb, err := a.notebook(cmd.Context(), false)
		if err != nil {
			return err
		}
		state, err := nb.RecordPractice(cmd.Context(), a.cfg.UserID, args[0], correct)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Attempts:  %d (%d correct)\n", state.Attempts, state.CorrectAttempts)
		fmt.Fprintf(out, "Streak:    %d\n", state.ConsecutiveHits)
		fmt.Fprintf(out, "Next:      %s\n", state.NextReviewDate.Local().Format("2006-01-02"))
		switch {
		case state.Graduated:
			fmt.Fprintln(out, "Graduated. This item now comes back only occasionally.")
		case state.Mastered():
			fmt.Fprintln(out, "Mastered.")
		}
		return nil
	},
}

var practiceReanswerCmd = &cobra.Command{
	Use:   "reanswer <item-id> [corrected question]",
	Short: "Solve a stored item again, optionally with a corrected transcription",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var corrected string
		if len(args) == 2 {
			corrected = args[1]
		}

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := a.modelContext(cmd.Context())
		defer cancel()

		nb, err := a.notebook(ctx, true)
		if err != nil {
			return err
		}
		item, err := nb.Reanswer(ctx, a.cfg.UserID, args[0], corrected)
		if err != nil {
			return err
		}
		printItem(cmd.OutOrStdout(), item)
		return nil
	},
}

func init() {
	practiceNewCmd.Flags().StringP("difficulty", "d", "medium", "easy, medium, hard or harder")
	practiceNewCmd.Flags().Bool("answer", false, "Also print the answer and solution")

	practiceCmd.AddCommand(practiceNewCmd)
	practiceCmd.AddCommand(practiceRecordCmd)
	practiceCmd.AddCommand(practiceReanswerCmd)
}
