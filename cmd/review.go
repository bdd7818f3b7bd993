package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wrongbook/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show the review schedule and notebook statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		nb, err := a.notebook(cmd.Context(), false)
		if err != nil {
			return err
		}
		sched, err := nb.Review(cmd.Context(), a.cfg.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		stats := sched.Stats(now)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Notebook")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		fmt.Fprintf(out, "%-12s %d\n", "Items", stats.Total)
		fmt.Fprintf(out, "%-12s %d\n", "Mastered", stats.Mastered)
		fmt.Fprintf(out, "%-12s %d\n", "Graduated", stats.Graduated)
		fmt.Fprintf(out, "%-12s %d (%d overdue)\n", "Due", stats.Due, stats.Overdue)
		fmt.Fprintf(out, "%-12s %d (%.0f%% correct)\n", "Attempts", stats.Attempts, stats.Accuracy()*100)

		due := sched.Due(now)
		if len(due) == 0 {
			fmt.Fprintln(out, "\nNothing to review today.")
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-36s  %-9s  %-8s  %s\n", "ID", "Status", "Overdue", "Question")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, id := range due {
			item, err := nb.Item(cmd.Context(), a.cfg.UserID, id)
			if err != nil {
				return err
			}
			st := sched.State(id)
			fmt.Fprintf(out, "%-36s  %-9s  %-8.1f  %s\n",
				id, st.Status(now), st.OverdueDays(now), truncate(oneLine(item.QuestionText), 40))
		}
		return nil
	},
}

var reviewItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List stored error items",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		nb, err := a.notebook(cmd.Context(), false)
		if err != nil {
			return err
		}
		items, err := nb.Items(cmd.Context(), a.cfg.UserID, subject, limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "No error items yet.")
			return nil
		}
		fmt.Fprintf(out, "%-36s  %-10s  %-10s  %-3s  %s\n", "ID", "Added", "Subject", "M", "Question")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, it := range items {
			fmt.Fprintf(out, "%-36s  %-10s  %-10s  %-3s  %s\n",
				it.ID, it.CreatedAt.Local().Format("2006-01-02"), it.Subject, masteryMark(it), truncate(oneLine(it.QuestionText), 40))
		}
		return nil
	},
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <item-id>",
	Short: "Show one stored error item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		nb, err := a.notebook(cmd.Context(), false)
		if err != nil {
			return err
		}
		item, err := nb.Item(cmd.Context(), a.cfg.UserID, args[0])
		if err != nil {
			return err
		}
		printItem(cmd.OutOrStdout(), item)
		return nil
	},
}

func masteryMark(it store.ErrorItem) string {
	if it.Mastery > 0 {
		return "✓"
	}
	return ""
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func init() {
	reviewItemsCmd.Flags().StringP("subject", "s", "", "Only items of this subject")
	reviewItemsCmd.Flags().IntP("limit", "n", 20, "Number of items to show")

	reviewCmd.AddCommand(reviewItemsCmd)
	reviewCmd.AddCommand(reviewShowCmd)
}
