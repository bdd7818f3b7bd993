package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wrongbook/internal/prompts"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Render the prompts sent to the model without calling it",
}

func (a *app) promptOptions(custom string, tags map[prompts.Subject][]string) *prompts.Options {
	return &prompts.Options{
		ProviderHints:  a.cfg.Prompts.ProviderHints,
		CustomTemplate: custom,
		PrefetchedTags: tags,
	}
}

func (a *app) language(cmd *cobra.Command) prompts.Language {
	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		return prompts.ParseLanguage(l)
	}
	return prompts.ParseLanguage(a.cfg.Prompts.Language)
}

var promptAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Render the single-question analysis prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetString("grade")
		subject, _ := cmd.Flags().GetString("subject")
		mode, _ := cmd.Flags().GetString("mode")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		nb, err := a.notebook(cmd.Context(), false)
		if err != nil {
			return err
		}
		tags, year, err := nb.PrefetchTags(cmd.Context(), a.cfg.UserID, grade, subject)
		if err != nil {
			return err
		}
		opts := a.promptOptions(a.cfg.Prompts.Templates.Analyze, tags)
		fmt.Fprintln(cmd.OutOrStdout(), prompts.GenerateAnalyzePrompt(a.language(cmd), year, subject, prompts.ParseMode(mode), opts))
		return nil
	},
}

var promptBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render the multi-question extraction prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		opts := a.promptOptions(a.cfg.Prompts.Templates.Batch, nil)
		fmt.Fprintln(cmd.OutOrStdout(), prompts.GenerateBatchAnalyzePrompt(a.language(cmd), opts))
		return nil
	},
}

var promptSimilarCmd = &cobra.Command{
	Use:   "similar <question>",
	Short: "Render the practice-question prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, _ := cmd.Flags().GetStringSlice("points")
		difficulty, _ := cmd.Flags().GetString("difficulty")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		d := prompts.Difficulty(strings.ToLower(difficulty))
		if d != "" && !d.Valid() {
			a.log.Warn("unknown difficulty, rendering without instruction", "difficulty", difficulty)
		}
		opts := a.promptOptions(a.cfg.Prompts.Templates.Similar, nil)
		fmt.Fprintln(cmd.OutOrStdout(), prompts.GenerateSimilarQuestionPrompt(a.language(cmd), args[0], points, d, opts))
		return nil
	},
}

var promptReanswerCmd = &cobra.Command{
	Use:   "reanswer <question>",
	Short: "Render the reanswer prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		opts := a.promptOptions(a.cfg.Prompts.Templates.Reanswer, nil)
		fmt.Fprintln(cmd.OutOrStdout(), prompts.GenerateReanswerPrompt(a.language(cmd), args[0], subject, opts))
		return nil
	},
}

func init() {
	promptCmd.PersistentFlags().String("lang", "", "Output language: zh or en (default from config)")

	promptAnalyzeCmd.Flags().StringP("grade", "g", "", "Grade and semester, e.g. 初二下")
	promptAnalyzeCmd.Flags().StringP("subject", "s", "", "Subject hint")
	promptAnalyzeCmd.Flags().StringP("mode", "m", "academic", "Analysis mode: academic or heritage")
	promptSimilarCmd.Flags().StringSlice("points", nil, "Knowledge points of the original question")
	promptSimilarCmd.Flags().StringP("difficulty", "d", "medium", "easy, medium, hard or harder")
	promptReanswerCmd.Flags().StringP("subject", "s", "", "Subject of the question")

	promptCmd.AddCommand(promptAnalyzeCmd)
	promptCmd.AddCommand(promptBatchCmd)
	promptCmd.AddCommand(promptSimilarCmd)
	promptCmd.AddCommand(promptReanswerCmd)
}
