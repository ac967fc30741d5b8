package agent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alantheprice/shield/pkg/editor"
)

// Command is one parsed line of user input:
// <action> [target] [range] [instruction...] [--flags].
type Command struct {
	Raw         string
	Action      string
	Target      string
	Range       *editor.LineRange
	Instruction string
	AutoFix     bool
	Flags       map[string]string
}

// rangeToken matches "start-end" with either bound possibly missing, or a
// lone line number.
var rangeToken = regexp.MustCompile(`^(\d*)-(\d*)$|^\d+$`)

// ParseCommand splits a command line. Flags are "--name" or "--name=value".
// The field after the target is a line range when it looks like one; a range
// with a bound omitted ("3", "3-", "-7") selects the whole file. Any other
// text after the target is kept as a free-form instruction for the model.
func ParseCommand(line string) (Command, error) {
	cmd := Command{Raw: strings.TrimSpace(line), Flags: map[string]string{}}
	var positional []string
	for _, field := range strings.Fields(line) {
		if name, ok := strings.CutPrefix(field, "--"); ok && name != "" {
			name, value, _ := strings.Cut(name, "=")
			cmd.Flags[strings.ToLower(name)] = value
			continue
		}
		positional = append(positional, field)
	}
	if len(positional) == 0 {
		return cmd, fmt.Errorf("empty command")
	}

	cmd.Action = strings.ToLower(positional[0])
	if len(positional) > 1 {
		cmd.Target = positional[1]
	}
	rest := positional[min(len(positional), 2):]
	if len(rest) > 0 && rangeToken.MatchString(rest[0]) && rest[0] != "-" {
		rng, err := ParseRange(rest[0])
		if err != nil {
			return cmd, err
		}
		cmd.Range = rng
		rest = rest[1:]
	}
	cmd.Instruction = strings.Join(rest, " ")
	_, cmd.AutoFix = cmd.Flags["autofix"]
	return cmd, nil
}

// ParseRange parses "10-50". A missing bound ("10", "10-", "-50") yields a
// nil range, meaning the whole file.
func ParseRange(s string) (*editor.LineRange, error) {
	startStr, endStr, isPair := strings.Cut(strings.TrimSpace(s), "-")
	if !isPair || startStr == "" || endStr == "" {
		if strings.Trim(s, "-0123456789") != "" {
			return nil, fmt.Errorf("%w: %q is not a line range (expected start-end)", editor.ErrInvalidRange, s)
		}
		return nil, nil
	}
	start, err1 := strconv.Atoi(startStr)
	end, err2 := strconv.Atoi(endStr)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("%w: %q is not a line range (expected start-end)", editor.ErrInvalidRange, s)
	}
	rng := editor.LineRange{Start: start, End: end}
	if start < 1 || end < start {
		return nil, fmt.Errorf("%w: %s", editor.ErrInvalidRange, rng)
	}
	return &rng, nil
}
