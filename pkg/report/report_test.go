package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return New("demo-skill", "/skills/demo-skill", []Finding{
		Pass("skill-md-exists", "SKILL.md found"),
		Fail("frontmatter-version", "required field 'version' missing from frontmatter"),
		Warn("description-third-person", "description starts with 'You'"),
		Skip("name-matches-dir", "name field missing"),
		Warn("tests-present", "no test scenarios"),
	})
}

func TestLevel(t *testing.T) {
	assert.True(t, LevelPass < LevelWarn)
	assert.True(t, LevelWarn < LevelFail)
	assert.Equal(t, "PASS", LevelPass.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "FAIL", LevelFail.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())

	for _, s := range []string{"fail", "FAIL", " Fail "} {
		level, err := ParseLevel(s)
		require.NoError(t, err)
		assert.Equal(t, LevelFail, level)
	}
	level, err := ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, level)

	_, err = ParseLevel("fatal")
	assert.Error(t, err)
}

func TestLevelJSON(t *testing.T) {
	data, err := json.Marshal(Fail("rule", "msg"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"rule_id":"rule","level":"FAIL","message":"msg"}`, string(data))

	var f Finding
	require.NoError(t, json.Unmarshal([]byte(`{"rule_id":"r","level":"WARN","message":"m","skipped":true}`), &f))
	assert.Equal(t, LevelWarn, f.Level)
	assert.True(t, f.Skipped)
}

func TestSkip(t *testing.T) {
	f := Skip("rule", "frontmatter invalid")
	assert.Equal(t, LevelPass, f.Level)
	assert.True(t, f.Skipped)
	assert.Equal(t, "skipped: frontmatter invalid", f.Message)
}

func TestOverallAndCounts(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, LevelFail, r.Overall())
	assert.Equal(t, Counts{Pass: 2, Warn: 2, Fail: 1}, r.Counts())

	assert.Equal(t, LevelPass, New("empty", "/", nil).Overall())
	assert.Equal(t, LevelWarn, New("w", "/", []Finding{Pass("a", ""), Warn("b", "")}).Overall())
}

func TestFindAndByLevel(t *testing.T) {
	r := sampleReport()

	f, ok := r.Find("frontmatter-version")
	require.True(t, ok)
	assert.Equal(t, LevelFail, f.Level)

	_, ok = r.Find("missing-rule")
	assert.False(t, ok)

	warns := r.ByLevel(LevelWarn)
	require.Len(t, warns, 2)
	assert.Equal(t, "description-third-person", warns[0].RuleID)
	assert.Equal(t, "tests-present", warns[1].RuleID)
}

func TestExitCode(t *testing.T) {
	pass := New("p", "/p", []Finding{Pass("a", "")})
	warn := New("w", "/w", []Finding{Warn("a", "")})
	fail := New("f", "/f", []Finding{Fail("a", "")})

	tests := []struct {
		name    string
		reports []*Report
		strict  bool
		want    int
	}{
		{"pass", []*Report{pass}, false, 0},
		{"warn only", []*Report{warn}, false, 0},
		{"warn strict", []*Report{warn}, true, 1},
		{"fail", []*Report{fail}, false, 1},
		{"mixed", []*Report{pass, warn, fail}, false, 1},
		{"none", nil, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.reports, tt.strict))
			if len(tt.reports) == 1 {
				assert.Equal(t, tt.want, tt.reports[0].ExitCode(tt.strict))
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReport(), TextOptions{}))
	out := buf.String()

	assert.Contains(t, out, "Validating skill: demo-skill\n")
	assert.Contains(t, out, "  Path: /skills/demo-skill\n")
	assert.Contains(t, out, "  [!] FAIL  frontmatter-version: required field 'version' missing from frontmatter\n")
	assert.Contains(t, out, "  [+] PASS  name-matches-dir: skipped: name field missing\n")
	assert.Contains(t, out, "Summary: 2 passed, 2 warnings, 1 failures")
	assert.Contains(t, out, "Result: FAIL")
	assert.NotContains(t, out, "\x1b[", "no escape codes without color")

	// FAIL group, then WARN group in report order, then PASS group.
	fail := strings.Index(out, "frontmatter-version")
	warn1 := strings.Index(out, "description-third-person")
	warn2 := strings.Index(out, "tests-present")
	pass := strings.Index(out, "skill-md-exists")
	assert.True(t, fail < warn1 && warn1 < warn2 && warn2 < pass, out)
}

func TestRenderTextIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, RenderText(&a, sampleReport(), TextOptions{}))
	require.NoError(t, RenderText(&b, sampleReport(), TextOptions{}))
	assert.Equal(t, a.String(), b.String())
}

func TestRenderTextHidePassed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReport(), TextOptions{HidePassed: true}))

	assert.NotContains(t, buf.String(), "[+] PASS")
	assert.Contains(t, buf.String(), "Summary: 2 passed")
}

func TestRenderTextColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReport(), TextOptions{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRenderSummary(t *testing.T) {
	reports := []*Report{
		New("alpha", "/s/alpha", []Finding{Pass("a", "")}),
		sampleReport(),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, reports, TextOptions{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SKILL")
	assert.Contains(t, lines[1], "alpha")
	assert.Contains(t, lines[1], "PASS")
	assert.Contains(t, lines[2], "demo-skill")
	assert.Contains(t, lines[2], "FAIL")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, []*Report{sampleReport()}))

	var decoded struct {
		Overall string `json:"overall"`
		Reports []struct {
			Skill    string    `json:"skill"`
			Overall  string    `json:"overall"`
			Counts   Counts    `json:"counts"`
			Findings []Finding `json:"findings"`
		} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "FAIL", decoded.Overall)
	require.Len(t, decoded.Reports, 1)
	assert.Equal(t, "demo-skill", decoded.Reports[0].Skill)
	assert.Equal(t, "FAIL", decoded.Reports[0].Overall)
	assert.Equal(t, Counts{Pass: 2, Warn: 2, Fail: 1}, decoded.Reports[0].Counts)
	assert.Len(t, decoded.Reports[0].Findings, 5)
}

func TestRenderJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, nil))
	assert.JSONEq(t, `{"overall":"PASS","reports":[]}`, buf.String())
}
