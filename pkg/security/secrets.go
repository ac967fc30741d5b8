// Package security runs a local, offline pass for hard-coded credentials
// before code is sent to the model.
package security

import (
	"regexp"
	"sort"
	"strings"
)

type pattern struct {
	kind  string
	regex *regexp.Regexp
}

var patterns = []pattern{
	{"API Key Exposure", regexp.MustCompile(`(?i)(api_key|apikey|api-key|access_key|secret_key|auth_token|client_secret|private_key|api_secret)\s*(=|:)\s*['"]?[a-zA-Z0-9_.\-=/+]{16,128}['"]?`)},
	{"Password Exposure", regexp.MustCompile(`(?i)(password|passwd|pwd|passphrase)\s*(=|:)\s*['"][^'"\s]{8,64}['"]`)},
	{"Database/Service Creds Exposure", regexp.MustCompile(`(?i)(mongodb|mysql|postgres|postgresql|redis|amqp|sftp|ftp|ldap)(\+srv)?://[^\s:/'"]+:[^\s@'"]+@[^\s'"]+`)},
	{"Private Key Exposure", regexp.MustCompile(`BEGIN (RSA |DSA |EC |OPENSSH )?PRIVATE KEY`)},
	{"AWS Access Key ID Exposure", regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{"AWS Secret Access Key Exposure", regexp.MustCompile(`(?i)aws_secret_access_key\s*=\s*['"]?[a-zA-Z0-9/+=]{40}['"]?`)},
	{"Bearer Token Exposure", regexp.MustCompile(`(?i)Bearer\s+[a-zA-Z0-9\-_=.]{30,}`)},
	{"JWT Exposure", regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_.+/=-]*`)},
	{"GitHub Token Exposure", regexp.MustCompile(`(ghp_[a-zA-Z0-9]{36}|github_pat_[a-zA-Z0-9_]{82})`)},
	{"GitLab Token Exposure", regexp.MustCompile(`glpat-[a-zA-Z0-9\-_]{20,}`)},
	{"Stripe Key Exposure", regexp.MustCompile(`(sk|rk)_(test|live)_[a-zA-Z0-9]{24,}`)},
	{"Slack Token Exposure", regexp.MustCompile(`xox[baprs]-[0-9A-Za-z-]{10,}`)},
	{"Google API Key Exposure", regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`)},
}

// Finding is one matched credential.
type Finding struct {
	Kind    string
	Line    int
	Snippet string
}

// DetectSecurityConcerns scans content line by line. firstLine is the file
// line number of the first line of content, so findings inside an extracted
// range are reported at their real position.
func DetectSecurityConcerns(content string, firstLine int) []Finding {
	var findings []Finding
	for i, line := range strings.Split(content, "\n") {
		for _, p := range patterns {
			if m := p.regex.FindString(line); m != "" {
				findings = append(findings, Finding{Kind: p.kind, Line: firstLine + i, Snippet: mask(m)})
			}
		}
	}
	sort.SliceStable(findings, func(a, b int) bool {
		return findings[a].Line < findings[b].Line
	})
	return findings
}

// Kinds returns the distinct finding kinds, sorted.
func Kinds(findings []Finding) []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, f := range findings {
		if !seen[f.Kind] {
			seen[f.Kind] = true
			kinds = append(kinds, f.Kind)
		}
	}
	sort.Strings(kinds)
	return kinds
}

// Redact replaces every match with a placeholder and reports how many were
// replaced. Line structure is preserved.
func Redact(content string) (string, int) {
	count := 0
	for _, p := range patterns {
		content = p.regex.ReplaceAllStringFunc(content, func(string) string {
			count++
			return "[REDACTED]"
		})
	}
	return content, count
}

// mask keeps a short prefix of a secret so the user can recognise it.
func mask(s string) string {
	const keep = 8
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + strings.Repeat("*", len(s)-keep)
}
