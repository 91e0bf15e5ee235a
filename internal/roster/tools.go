package roster

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/sahayak/internal/tools"
)

// The roster tools are pure: they validate, acknowledge, and echo. The
// actual roster write happens in the caller, keyed off the returned
// Intent. That keeps the routing core free of shared mutable state.

type addStudentInput struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
	Notes string `json:"notes,omitempty"`
}

type addSubjectInput struct {
	StudentName string  `json:"studentName"`
	Subject     string  `json:"subject"`
	GPA         float64 `json:"gpa"`
}

type removeStudentInput struct {
	Name string `json:"name"`
}

var confirmationOutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"confirmationText": map[string]any{
			"type":        "string",
			"description": "Human-readable acknowledgement of the requested change",
		},
		"intent": map[string]any{
			"type":        "object",
			"description": "The validated mutation for the caller to apply",
		},
	},
	"required":             []any{"confirmationText", "intent"},
	"additionalProperties": false,
}

// AddStudentTool acknowledges a new student and echoes the add intent.
func AddStudentTool() tools.Definition {
	return tools.Definition{
		Name:        "addStudent",
		Description: "Add a new student to the class roster. Use when the teacher asks to add, enroll, or register a student, giving a name and grade.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Full name of the student",
				},
				"grade": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Grade or class, e.g. 4",
				},
				"notes": map[string]any{
					"type":        "string",
					"description": "Optional notes about the student",
				},
			},
			"required":             []any{"name", "grade"},
			"additionalProperties": false,
		},
		OutputSchema: confirmationOutputSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var in addStudentInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, fmt.Errorf("decode addStudent input: %w", err)
			}
			return json.Marshal(Confirmation{
				ConfirmationText: fmt.Sprintf("Added %s to grade %s.", in.Name, in.Grade),
				Intent: Intent{
					Kind:  IntentAddStudent,
					Name:  in.Name,
					Grade: in.Grade,
					Notes: in.Notes,
				},
			})
		},
	}
}

// AddSubjectTool acknowledges a subject-with-gpa addition for an
// existing student. The 0.0 to 5.0 gpa bound lives in the schema, so
// out-of-range values fail validation before the handler runs.
func AddSubjectTool() tools.Definition {
	return tools.Definition{
		Name:        "addSubjectToStudent",
		Description: "Record a subject and its gpa for an existing student. Use when the teacher gives a student's score or grade point in a subject.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"studentName": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Name of the existing student",
				},
				"subject": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Subject name, e.g. Mathematics",
				},
				"gpa": map[string]any{
					"type":        "number",
					"minimum":     0.0,
					"maximum":     5.0,
					"description": "Grade point average on a 0.0 to 5.0 scale",
				},
			},
			"required":             []any{"studentName", "subject", "gpa"},
			"additionalProperties": false,
		},
		OutputSchema: confirmationOutputSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var in addSubjectInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, fmt.Errorf("decode addSubjectToStudent input: %w", err)
			}
			return json.Marshal(Confirmation{
				ConfirmationText: fmt.Sprintf("Recorded %s with gpa %.1f for %s.", in.Subject, in.GPA, in.StudentName),
				Intent: Intent{
					Kind:        IntentAddSubject,
					StudentName: in.StudentName,
					Subject:     in.Subject,
					GPA:         in.GPA,
				},
			})
		},
	}
}

// RemoveStudentTool acknowledges a removal and echoes the remove intent.
func RemoveStudentTool() tools.Definition {
	return tools.Definition{
		Name:        "removeStudent",
		Description: "Remove a student from the class roster. Use when the teacher asks to remove, delete, or unenroll a student by name.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Full name of the student to remove",
				},
			},
			"required":             []any{"name"},
			"additionalProperties": false,
		},
		OutputSchema: confirmationOutputSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var in removeStudentInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, fmt.Errorf("decode removeStudent input: %w", err)
			}
			return json.Marshal(Confirmation{
				ConfirmationText: fmt.Sprintf("Removed %s from the roster.", in.Name),
				Intent: Intent{
					Kind: IntentRemoveStudent,
					Name: in.Name,
				},
			})
		},
	}
}
