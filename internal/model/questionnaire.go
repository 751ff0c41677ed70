package model

import "time"

// FieldType selects the input control used for a questionnaire field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
)

// FieldOption is a choice of a select field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// QuestionnaireField describes one input of the readiness questionnaire.
type QuestionnaireField struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Placeholder string        `json:"placeholder,omitempty"`
	Type        FieldType     `json:"type"`
	Options     []FieldOption `json:"options,omitempty"`
	Required    bool          `json:"required"`
}

// QuestionnaireSection groups related fields.
type QuestionnaireSection struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Fields      []QuestionnaireField `json:"fields"`
}

// QuestionnaireSubmission is the document handed back to the browser as a download.
type QuestionnaireSubmission struct {
	SubmittedAt time.Time         `json:"submittedAt"`
	SubmittedBy string            `json:"submittedBy,omitempty"`
	Answers     map[string]string `json:"answers"`
}
