package roster

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/sahayak/internal/tools"
)

func rosterRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	reg := tools.NewRegistry()
	for _, def := range []tools.Definition{AddStudentTool(), AddSubjectTool(), RemoveStudentTool()} {
		if err := reg.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Name, err)
		}
	}
	return reg
}

func TestAddStudent_EchoesIntent(t *testing.T) {
	reg := rosterRegistry(t)

	result, err := reg.Invoke(context.Background(), "addStudent",
		json.RawMessage(`{"name":"Priya Singh","grade":"4"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out Confirmation
	if err := json.Unmarshal(result.Output, &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if !strings.Contains(out.ConfirmationText, "Priya Singh") {
		t.Errorf("expected name in confirmation, got %q", out.ConfirmationText)
	}
	if out.Intent.Kind != IntentAddStudent {
		t.Errorf("expected add_student intent, got %q", out.Intent.Kind)
	}
	if out.Intent.Name != "Priya Singh" || out.Intent.Grade != "4" {
		t.Errorf("expected echoed fields, got %+v", out.Intent)
	}
}

func TestAddStudent_NotesOptional(t *testing.T) {
	reg := rosterRegistry(t)

	result, err := reg.Invoke(context.Background(), "addStudent",
		json.RawMessage(`{"name":"Arjun","grade":"5","notes":"needs reading support"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out Confirmation
	if err := json.Unmarshal(result.Output, &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Intent.Notes != "needs reading support" {
		t.Errorf("expected notes echoed, got %q", out.Intent.Notes)
	}
}

func TestAddSubject_ValidGPA(t *testing.T) {
	reg := rosterRegistry(t)

	result, err := reg.Invoke(context.Background(), "addSubjectToStudent",
		json.RawMessage(`{"studentName":"Priya Singh","subject":"Mathematics","gpa":4.2}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out Confirmation
	if err := json.Unmarshal(result.Output, &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Intent.Kind != IntentAddSubject {
		t.Errorf("expected add_subject intent, got %q", out.Intent.Kind)
	}
	if out.Intent.GPA != 4.2 {
		t.Errorf("expected gpa 4.2, got %v", out.Intent.GPA)
	}
}

func TestAddSubject_GPAOutOfRange(t *testing.T) {
	reg := rosterRegistry(t)

	_, err := reg.Invoke(context.Background(), "addSubjectToStudent",
		json.RawMessage(`{"studentName":"Priya Singh","subject":"Mathematics","gpa":7.0}`))

	var verr *tools.SchemaValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SchemaValidationError, got: %v", err)
	}
	found := false
	for _, f := range verr.Fields {
		if strings.Contains(f, "gpa") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected gpa named in violating fields, got %v", verr.Fields)
	}
}

func TestAddStudent_MissingGrade(t *testing.T) {
	reg := rosterRegistry(t)

	_, err := reg.Invoke(context.Background(), "addStudent",
		json.RawMessage(`{"name":"Priya Singh"}`))

	var verr *tools.SchemaValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SchemaValidationError, got: %v", err)
	}
}

func TestRemoveStudent_EchoesIntent(t *testing.T) {
	reg := rosterRegistry(t)

	result, err := reg.Invoke(context.Background(), "removeStudent",
		json.RawMessage(`{"name":"Arjun"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out Confirmation
	if err := json.Unmarshal(result.Output, &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Intent.Kind != IntentRemoveStudent {
		t.Errorf("expected remove_student intent, got %q", out.Intent.Kind)
	}
	if out.Intent.Name != "Arjun" {
		t.Errorf("expected echoed name, got %q", out.Intent.Name)
	}
}
