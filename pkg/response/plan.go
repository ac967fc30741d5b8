package response

import (
	"encoding/json"
	"fmt"
)

// PlanType identifies what the model decided to do with a command.
type PlanType string

const (
	TypeAnalysis     PlanType = "code_analysis"
	TypeModification PlanType = "code_modification"
	TypeInvalid      PlanType = "invalid"
)

// Plan is the JSON object the model is asked to reply with.
type Plan struct {
	Type        PlanType    `json:"type"`
	Action      Action      `json:"action"`
	Analysis    Analysis    `json:"analysis"`
	CodeChanges CodeChanges `json:"codeChanges"`
	CheckedData CheckedData `json:"checkedData"`
	Guidance    string      `json:"guidance,omitempty"`
}

type Action struct {
	Operation  string    `json:"operation"`
	TargetFile string    `json:"targetFile"`
	LineRange  LineRange `json:"lineRange"`
}

// LineRange is the model's echo of the requested range; either bound may be
// null.
type LineRange struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

// Valid reports whether both bounds were supplied.
func (r LineRange) Valid() bool {
	return r.Start != nil && r.End != nil
}

type Analysis struct {
	SecurityIssues []SecurityIssue `json:"securityIssues"`
}

type SecurityIssue struct {
	Severity       string `json:"severity"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
}

type CodeChanges struct {
	Original    string `json:"original"`
	Modified    string `json:"modified"`
	Explanation string `json:"explanation"`
}

// CheckedData holds one tri-state flag per security area; nil means the
// model did not report on it.
type CheckedData struct {
	InputValidation           *bool `json:"InputValidation"`
	AuthenticationIssues      *bool `json:"AuthenticationIssues"`
	DataExposure              *bool `json:"DataExposure"`
	DependencyVulnerabilities *bool `json:"DependencyVulnerabilities"`
	CodeInjectionRisks        *bool `json:"CodeInjectionRisks"`
	FileSystemSecurity        *bool `json:"FileSystemSecurity"`
}

// Check is a labelled entry of CheckedData.
type Check struct {
	Label  string
	Result *bool
}

// Checks lists the flags in display order.
func (c CheckedData) Checks() []Check {
	return []Check{
		{"Input Validation", c.InputValidation},
		{"Authentication Issues", c.AuthenticationIssues},
		{"Data Exposure", c.DataExposure},
		{"Dependency Vulnerabilities", c.DependencyVulnerabilities},
		{"Code Injection Risks", c.CodeInjectionRisks},
		{"File System Security", c.FileSystemSecurity},
	}
}

// ParseError is returned when the cleaned response still is not valid JSON.
type ParseError struct {
	Err     error
	Cleaned string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("JSON Parse Error: %v\nCleaned JSON: %s", e.Err, e.Cleaned)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse cleans raw and decodes it into a Plan.
func Parse(raw string) (*Plan, error) {
	cleaned := Clean(raw)
	var plan Plan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, &ParseError{Err: err, Cleaned: cleaned}
	}
	return &plan, nil
}
