// Package report aggregates rule findings for a validated skill directory
// and renders them for the console or as JSON.
package report

import (
	"strings"

	"github.com/pkg/errors"
)

// Level is the severity of a finding. Levels are ordered: PASS < WARN < FAIL.
type Level int

const (
	// LevelPass means the rule is satisfied or did not apply.
	LevelPass Level = iota
	// LevelWarn is a style deviation that does not make the skill invalid.
	LevelWarn
	// LevelFail is a structural problem.
	LevelFail
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelPass:
		return "PASS"
	case LevelWarn:
		return "WARN"
	case LevelFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS":
		return LevelPass, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "FAIL":
		return LevelFail, nil
	default:
		return LevelPass, errors.Errorf("unknown level %q", s)
	}
}

// Finding is the result of evaluating one rule.
type Finding struct {
	RuleID  string `json:"rule_id"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Pass returns a passing finding.
func Pass(ruleID, message string) Finding {
	return Finding{RuleID: ruleID, Level: LevelPass, Message: message}
}

// Warn returns a warning finding.
func Warn(ruleID, message string) Finding {
	return Finding{RuleID: ruleID, Level: LevelWarn, Message: message}
}

// Fail returns a failing finding.
func Fail(ruleID, message string) Finding {
	return Finding{RuleID: ruleID, Level: LevelFail, Message: message}
}

// Skip returns a passing finding for a rule that could not apply.
func Skip(ruleID, reason string) Finding {
	return Finding{RuleID: ruleID, Level: LevelPass, Message: "skipped: " + reason, Skipped: true}
}

// Counts tallies findings by level.
type Counts struct {
	Pass int `json:"pass"`
	Warn int `json:"warn"`
	Fail int `json:"fail"`
}

// Report is the ordered list of findings for one skill directory.
type Report struct {
	Skill    string    `json:"skill"`
	Path     string    `json:"path"`
	Findings []Finding `json:"findings"`
}

// New creates a report. Findings keep the order they are given in.
func New(skill, path string, findings []Finding) *Report {
	return &Report{Skill: skill, Path: path, Findings: findings}
}

// Overall returns the highest level across all findings. An empty report passes.
func (r *Report) Overall() Level {
	overall := LevelPass
	for _, f := range r.Findings {
		if f.Level > overall {
			overall = f.Level
		}
	}
	return overall
}

// Counts tallies the findings by level.
func (r *Report) Counts() Counts {
	var c Counts
	for _, f := range r.Findings {
		switch f.Level {
		case LevelPass:
			c.Pass++
		case LevelWarn:
			c.Warn++
		case LevelFail:
			c.Fail++
		}
	}
	return c
}

// ByLevel returns the findings of one level, in report order.
func (r *Report) ByLevel(level Level) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Level == level {
			out = append(out, f)
		}
	}
	return out
}

// Find returns the finding for a rule.
func (r *Report) Find(ruleID string) (Finding, bool) {
	for _, f := range r.Findings {
		if f.RuleID == ruleID {
			return f, true
		}
	}
	return Finding{}, false
}

// ExitCode is 1 when the report has a FAIL finding, or a WARN finding in
// strict mode, and 0 otherwise.
func (r *Report) ExitCode(strict bool) int {
	return exitCodeFor(r.Overall(), strict)
}

// ExitCode combines several reports: the worst one decides.
func ExitCode(reports []*Report, strict bool) int {
	worst := LevelPass
	for _, r := range reports {
		if o := r.Overall(); o > worst {
			worst = o
		}
	}
	return exitCodeFor(worst, strict)
}

func exitCodeFor(level Level, strict bool) int {
	if level == LevelFail || (strict && level == LevelWarn) {
		return 1
	}
	return 0
}
