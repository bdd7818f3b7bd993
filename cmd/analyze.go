package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wrongbook/internal/llm"
	"github.com/abhisek/wrongbook/internal/notebook"
	"github.com/abhisek/wrongbook/internal/prompts"
	"github.com/abhisek/wrongbook/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyze a photo of a wrong question and add it to the notebook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetString("grade")
		subject, _ := cmd.Flags().GetString("subject")
		mode, _ := cmd.Flags().GetString("mode")
		batch, _ := cmd.Flags().GetBool("batch")

		img, err := readImage(args[0])
		if err != nil {
			return err
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
		in := notebook.AddInput{
			UserID:        a.cfg.UserID,
			GradeSemester: grade,
			Subject:       subject,
			Mode:          prompts.ParseMode(mode),
			Image:         img,
		}

		out := cmd.OutOrStdout()
		if batch {
			items, err := nb.AddBatchFromImage(ctx, in)
			for i := range items {
				printItem(out, &items[i])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Added %d questions.\n", len(items))
			return nil
		}

		item, err := nb.AddFromImage(ctx, in)
		if err != nil {
			return err
		}
		printItem(out, item)
		return nil
	},
}

// readImage loads a photo and sniffs its media type.
func readImage(path string) (llm.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return llm.Image{}, fmt.Errorf("read image: %w", err)
	}
	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return llm.Image{}, fmt.Errorf("%s is not an image (%s)", path, mediaType)
	}
	return llm.Image{MediaType: mediaType, Data: data}, nil
}

func printItem(w io.Writer, it *store.ErrorItem) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "ID:        %s\n", it.ID)
	fmt.Fprintf(w, "Subject:   %s\n", it.Subject)
	if it.Grade != "" {
		fmt.Fprintf(w, "Grade:     %s\n", it.Grade)
	}
	if len(it.KnowledgePoints) > 0 {
		fmt.Fprintf(w, "Points:    %s\n", strings.Join(it.KnowledgePoints, ", "))
	}
	if it.RequiresImage {
		fmt.Fprintln(w, "Figure:    the question depends on a diagram")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, it.QuestionText)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Answer: %s\n", it.Answer)
	if it.Analysis != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, it.Analysis)
	}
}

func init() {
	analyzeCmd.Flags().StringP("grade", "g", "", "Grade and semester, e.g. 初二下 or \"Grade 8 2nd\"")
	analyzeCmd.Flags().StringP("subject", "s", "", "Subject hint")
	analyzeCmd.Flags().StringP("mode", "m", "academic", "Analysis mode: academic or heritage")
	analyzeCmd.Flags().BoolP("batch", "b", false, "Extract every question on the page")
}
