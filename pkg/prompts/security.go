package prompts

import (
	"strings"
	"text/template"

	"github.com/alantheprice/shield/pkg/configuration"
)

// Request carries everything the security prompt is rendered from.
type Request struct {
	Command     string
	Action      string
	Instruction string
	TargetFile  string
	Start       int
	End         int
	HasRange    bool
	Code        string
	ScanLevel   string
	Rules       []string
	AutoFix     bool
}

// NewRequest fills the configuration-derived fields of a Request.
func NewRequest(cfg configuration.Config) Request {
	return Request{
		ScanLevel: cfg.ScanLevel,
		Rules:     cfg.EnabledRules(),
		AutoFix:   cfg.AutoFix,
	}
}

var scanDepth = map[string]string{
	configuration.ScanBasic:    "Report only clear, high-confidence issues. Keep the review brief.",
	configuration.ScanStandard: "Review the code carefully and report issues of every severity.",
	configuration.ScanThorough: "Review the code exhaustively, including subtle data-flow and configuration issues, and explain each finding.",
}

var ruleDescriptions = map[string]string{
	"inputValidation": "Input validation",
	"authentication":  "Authentication issues",
	"dataExposure":    "Data exposure",
	"dependencies":    "Dependency vulnerabilities",
	"injection":       "Code injection risks",
	"filesystem":      "File system security",
}

var securityTemplate = template.Must(template.New("security").Funcs(template.FuncMap{
	"rule":  func(name string) string { return ruleDescriptions[name] },
	"depth": func(level string) string { return scanDepth[level] },
}).Parse(`As a secure AI programming assistant, analyze this command: "{{.Command}}"
Action: {{.Action}}
{{- if .Instruction}}
Instruction: {{.Instruction}}
{{- end}}
Code:
{{.Code}}

Provide a detailed JSON response in the following format:

{
    "type": "code_analysis" | "code_modification" | "invalid",
    "action": {
        "operation": "security_check" | "code_change",
        "targetFile": "{{.TargetFile}}",
        "lineRange": {
            "start": {{if .HasRange}}{{.Start}}{{else}}null{{end}},
            "end": {{if .HasRange}}{{.End}}{{else}}null{{end}}
        }
    },
    "analysis": {
        "securityIssues": [
            {
                "severity": "high" | "medium" | "low",
                "issue": "description",
                "recommendation": "fix suggestion"
            }
        ]
    },
    "codeChanges": {
        "original": "original code snippet",
        "modified": "suggested modified code",
        "explanation": "explanation of changes"
    },
    "checkedData": {
        "InputValidation": boolean,
        "AuthenticationIssues": boolean,
        "DataExposure": boolean,
        "DependencyVulnerabilities": boolean,
        "CodeInjectionRisks": boolean,
        "FileSystemSecurity": boolean
    },
    "guidance": "only for invalid commands: how to phrase the command"
}

Rules to follow:
1. Scan level is {{.ScanLevel}}. {{depth .ScanLevel}}
2. For security checks, analyze for:
{{- range .Rules}}
   - {{rule .}}
{{- end}}
   Omit a checkedData entry when its area was not analyzed.
3. For code modifications:
   - Preserve existing functionality
   - Follow secure coding practices
   - Explain all suggested changes
   - "modified" must contain the complete replacement for the given lines only, without line numbers or markdown fences
4. If the command is unclear, set type as "invalid" and provide guidance

IMPORTANT: reply with the JSON object only, no other explanation.
`))

// SecurityPrompt renders the analysis / fix prompt for r.
func SecurityPrompt(r Request) string {
	var sb strings.Builder
	if err := securityTemplate.Execute(&sb, r); err != nil {
		// the template is static; a failure here is a programming error
		panic(err)
	}
	return sb.String()
}
