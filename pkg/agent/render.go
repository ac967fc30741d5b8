package agent

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alantheprice/shield/pkg/response"
	"github.com/alantheprice/shield/pkg/security"
)

const (
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
	colorReset  = "\x1b[0m"
)

var upper = cases.Upper(language.Und)

func (a *Agent) paint(color, s string) string {
	if !a.color {
		return s
	}
	return color + s + colorReset
}

func (a *Agent) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *Agent) renderFindings(findings []security.Finding, redacted int) {
	if len(findings) == 0 {
		return
	}
	a.printf("%s\n", a.paint(colorBlue, "\nLocal Secret Scan:"))
	for _, f := range findings {
		a.printf("%s line %d: %s\n", a.paint(colorYellow, "["+f.Kind+"]"), f.Line, f.Snippet)
	}
	if redacted > 0 {
		a.printf("%s\n", a.paint(colorGray, fmt.Sprintf("%d secret(s) redacted before sending code to the model", redacted)))
	}
}

func (a *Agent) renderAnalysis(plan *response.Plan) {
	a.printf("%s\n", a.paint(colorBlue, "\nSecurity Analysis Results:"))
	if len(plan.Analysis.SecurityIssues) == 0 {
		a.printf("%s\n", a.paint(colorGreen, "\n✔ No security issues found"))
	}
	for _, issue := range plan.Analysis.SecurityIssues {
		severity := strings.TrimSpace(issue.Severity)
		if severity == "" {
			severity = "unknown"
		}
		a.printf("%s\n", a.paint(severityColor(severity), fmt.Sprintf("\n[%s] %s", upper.String(severity), issue.Issue)))
		if issue.Recommendation != "" {
			a.printf("%s\n", a.paint(colorGreen, "Recommendation: "+issue.Recommendation))
		}
	}

	a.printf("%s\n", a.paint(colorBlue, "\nSecurity Checks Summary:"))
	for i, check := range plan.CheckedData.Checks() {
		label := check.Label + ":"
		if i == 0 {
			label = "\n" + label
		}
		a.printf("%s %s\n", a.paint(colorYellow, label), a.checkSymbol(check.Result))
	}

	a.printf("%s\n", a.paint(colorBlue, "\nScan Details:"))
	a.printf("%s\n", a.paint(colorGray, "Scan Level: "+a.cfg.ScanLevel))
	autoFix := "Disabled"
	if a.cfg.AutoFix {
		autoFix = "Enabled"
	}
	a.printf("%s\n", a.paint(colorGray, "Auto-Fix: "+autoFix))
}

func (a *Agent) checkSymbol(result *bool) string {
	switch {
	case result == nil:
		return a.paint(colorGray, "not checked")
	case *result:
		return a.paint(colorGreen, "✓")
	default:
		return a.paint(colorRed, "✗")
	}
}

func severityColor(severity string) string {
	switch strings.ToLower(severity) {
	case "high", "critical":
		return colorRed
	case "medium":
		return colorYellow
	default:
		return colorCyan
	}
}

func (a *Agent) renderProposal(changes response.CodeChanges) {
	a.printf("%s\n", a.paint(colorBlue, "\nProposed Code Changes:"))
	a.printf("%s\n%s\n", a.paint(colorYellow, "Original Code:"), changes.Original)
	a.printf("%s\n%s\n", a.paint(colorGreen, "\nModified Code:"), changes.Modified)
	a.printf("%s\n%s\n", a.paint(colorCyan, "\nExplanation:"), changes.Explanation)
}
