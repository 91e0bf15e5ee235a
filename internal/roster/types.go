package roster

// IntentKind discriminates roster mutation intents.
type IntentKind string

const (
	IntentAddStudent    IntentKind = "add_student"
	IntentAddSubject    IntentKind = "add_subject"
	IntentRemoveStudent IntentKind = "remove_student"
)

// Intent is a validated roster mutation request. The tools here never
// touch the roster themselves; they echo the validated fields back so
// the owning application can apply the change.
type Intent struct {
	Kind IntentKind `json:"kind"`

	// Name is the student name, set for add_student and remove_student.
	Name string `json:"name,omitempty"`

	// Grade is set for add_student.
	Grade string `json:"grade,omitempty"`

	// Notes is optional free text, set for add_student.
	Notes string `json:"notes,omitempty"`

	// StudentName is set for add_subject.
	StudentName string `json:"studentName,omitempty"`

	// Subject is set for add_subject.
	Subject string `json:"subject,omitempty"`

	// GPA is set for add_subject. Range 0.0 to 5.0, enforced by schema.
	GPA float64 `json:"gpa,omitempty"`
}

// Confirmation is the output shape shared by all roster tools: a
// human-readable acknowledgement plus the intent for the caller to apply.
type Confirmation struct {
	ConfirmationText string `json:"confirmationText"`
	Intent           Intent `json:"intent"`
}
