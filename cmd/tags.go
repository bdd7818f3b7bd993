package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wrongbook/internal/curriculum"
	"github.com/abhisek/wrongbook/internal/notebook"
	"github.com/abhisek/wrongbook/internal/prompts"
	"github.com/abhisek/wrongbook/internal/store"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage the knowledge-tag tree",
}

var tagsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the system curriculum into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		c, err := loadCurriculum(cmd)
		if err != nil {
			return err
		}
		res, err := curriculum.Seed(cmd.Context(), a.store, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded curriculum: %d created, %d already present.\n", res.Created, res.Existing)
		return nil
	},
}

func loadCurriculum(cmd *cobra.Command) (*curriculum.Curriculum, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return curriculum.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	return curriculum.Parse(data)
}

var tagsResolveCmd = &cobra.Command{
	Use:   "resolve <grade-semester>",
	Short: "Show which system root tag a grade string resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		nb, err := a.notebook(cmd.Context(), false)
		if err != nil {
			return err
		}
		id, err := nb.ResolveGrade(cmd.Context(), args[0], subject)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if id == nil {
			fmt.Fprintf(out, "%q does not match any %s root tag.\n", args[0], subject)
			return nil
		}
		tag, err := a.store.TagRepo().Get(cmd.Context(), *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%q -> #%d %s\n", args[0], tag.ID, tag.Name)
		return nil
	},
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the knowledge points available at a grade",
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetString("grade")
		subject, _ := cmd.Flags().GetString("subject")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		if grade == "" {
			return listTagTree(cmd, a, subject)
		}

		nb, err := a.notebook(cmd.Context(), false)
		if err != nil {
			return err
		}
		tags, year, err := nb.PrefetchTags(cmd.Context(), a.cfg.UserID, grade, subject)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Fprintf(out, "No root tag matches %q. Run `wrongbook tags seed` first?\n", grade)
			return nil
		}
		if year != nil {
			fmt.Fprintf(out, "School year: %d\n", *year)
		}
		for _, sub := range prompts.Subjects {
			names, ok := tags[sub]
			if !ok {
				continue
			}
			fmt.Fprintf(out, "\n%s (%d)\n", sub.DisplayName(), len(names))
			fmt.Fprintln(out, strings.Repeat("─", 40))
			for _, n := range names {
				fmt.Fprintf(out, "  %s\n", n)
			}
		}
		return nil
	},
}

// listTagTree prints every tag of a subject visible to the user, indented by
// depth.
func listTagTree(cmd *cobra.Command, a *app, subject string) error {
	key := string(prompts.SubjectMath)
	if s, ok := prompts.ParseSubject(subject); ok {
		key = string(s)
	}
	rows, err := a.store.TagRepo().Visible(cmd.Context(), key, a.cfg.UserID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No tags found. Run `wrongbook tags seed` first.")
		return nil
	}

	children := make(map[int][]store.KnowledgeTag)
	var roots []store.KnowledgeTag
	for _, r := range rows {
		if r.ParentID == nil {
			roots = append(roots, r)
			continue
		}
		children[*r.ParentID] = append(children[*r.ParentID], r)
	}
	var walk func(t store.KnowledgeTag, depth int)
	walk = func(t store.KnowledgeTag, depth int) {
		mark := ""
		if !t.IsSystem {
			mark = " (custom)"
		}
		fmt.Fprintf(out, "%s#%d %s%s\n", strings.Repeat("  ", depth), t.ID, t.Name, mark)
		for _, c := range children[t.ID] {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return nil
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a custom knowledge point under the grade's root tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetString("grade")
		subject, _ := cmd.Flags().GetString("subject")

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		nb, err := a.notebook(cmd.Context(), false)
		if err != nil {
			return err
		}
		tag, err := nb.CreateCustomTag(cmd.Context(), notebook.CustomTagInput{
			UserID:        a.cfg.UserID,
			Subject:       subject,
			Name:          args[0],
			GradeSemester: grade,
		})
		if err != nil {
			return err
		}
		parent := "none"
		if tag.ParentID != nil {
			parent = "#" + strconv.Itoa(*tag.ParentID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tag #%d %s (parent %s)\n", tag.ID, tag.Name, parent)
		return nil
	},
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a custom knowledge point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
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
		if err := nb.DeleteCustomTag(cmd.Context(), a.cfg.UserID, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag #%d.\n", id)
		return nil
	},
}

func init() {
	tagsSeedCmd.Flags().StringP("file", "f", "", "Curriculum YAML to load instead of the built-in one")
	tagsResolveCmd.Flags().StringP("subject", "s", "math", "Subject whose roots are searched")
	tagsListCmd.Flags().StringP("grade", "g", "", "Grade and semester, e.g. 初二下 or \"Grade 8\"")
	tagsListCmd.Flags().StringP("subject", "s", "", "Subject (default: all when --grade is set, math otherwise)")
	tagsAddCmd.Flags().StringP("grade", "g", "", "Grade and semester the tag belongs to")
	tagsAddCmd.Flags().StringP("subject", "s", "math", "Subject of the tag")

	tagsCmd.AddCommand(tagsSeedCmd)
	tagsCmd.AddCommand(tagsResolveCmd)
	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsAddCmd)
	tagsCmd.AddCommand(tagsDeleteCmd)
}
