package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/sahayak/internal/assistant"
	"github.com/abhisek/sahayak/internal/roster"
	"github.com/abhisek/sahayak/internal/store"
	"github.com/spf13/cobra"
)

var studentCmd = &cobra.Command{
	Use:   "student <instruction>",
	Short: "Manage the student roster in plain language",
	Long: `Manage the student roster with natural-language instructions, e.g.:

  sahayak student "add Asha to grade 7, she struggles with fractions"
  sahayak student "record a 4.2 GPA in science for Asha"
  sahayak student "remove Ravi from the roster"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		language, _ := cmd.Flags().GetString("language")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		chat, svc, err := buildAssistantDeps(ctx, s)
		if err != nil {
			return err
		}

		router, err := assistant.NewStudentManager(chat, svc, assistant.DefaultConfig(), cliLogger())
		if err != nil {
			return err
		}

		turn := router.Ask(ctx, assistant.Query{
			Text:     strings.Join(args, " "),
			Language: language,
		})

		for chunk := range turn.Text() {
			fmt.Print(chunk)
		}
		fmt.Println()

		resp, err := turn.Wait(ctx)
		if err != nil {
			return err
		}

		for _, intent := range resp.Intents {
			raw, err := json.Marshal(intent)
			if err != nil {
				return fmt.Errorf("encode intent: %w", err)
			}
			fmt.Println(string(raw))
		}

		if err := applyIntents(ctx, s.StudentRepo(), resp.Intents); err != nil {
			return err
		}
		return renderResponse(resp, "")
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the student roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		students, err := s.StudentRepo().ListStudents(cmd.Context())
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}

		if len(students) == 0 {
			fmt.Println("No students on the roster yet.")
			return nil
		}

		fmt.Printf("%-20s  %-6s  %s\n", "Name", "Grade", "Subjects")
		fmt.Println(strings.Repeat("─", 72))
		for _, st := range students {
			fmt.Printf("%-20s  %-6s  %s\n", st.Name, st.Grade, formatSubjects(st.Subjects))
			if st.Notes != "" {
				fmt.Printf("%-20s  %-6s  %s\n", "", "", st.Notes)
			}
		}
		return nil
	},
}

// applyIntents executes the validated roster mutations the assistant
// requested. Each intent is applied independently so one bad entry
// does not block the rest.
func applyIntents(ctx context.Context, repo store.StudentRepo, intents []roster.Intent) error {
	var firstErr error
	for _, intent := range intents {
		var err error
		switch intent.Kind {
		case roster.IntentAddStudent:
			err = repo.AddStudent(ctx, intent.Name, intent.Grade, intent.Notes)
		case roster.IntentAddSubject:
			err = repo.SetSubject(ctx, intent.StudentName, intent.Subject, intent.GPA)
		case roster.IntentRemoveStudent:
			err = repo.RemoveStudent(ctx, intent.Name)
		default:
			err = fmt.Errorf("unknown roster intent %q", intent.Kind)
		}
		if err != nil {
			fmt.Println("Could not apply change:", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func formatSubjects(subjects map[string]float64) string {
	if len(subjects) == 0 {
		return "-"
	}
	names := make([]string, 0, len(subjects))
	for subject := range subjects {
		names = append(names, subject)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, subject := range names {
		parts = append(parts, fmt.Sprintf("%s %.1f", subject, subjects[subject]))
	}
	return strings.Join(parts, ", ")
}

func init() {
	studentCmd.Flags().StringP("language", "l", "", "Language for the reply")
	studentCmd.AddCommand(studentListCmd)
}
