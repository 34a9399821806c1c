package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New()
	assert.Equal(t, os.Stdout, p.output)
	assert.Equal(t, os.Stderr, p.errorOutput)
	assert.False(t, p.IsQuiet())
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		skillEnv string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "always", ColorNever},
		{"always", "", "always", ColorAlways},
		{"force", "", "force", ColorAlways},
		{"never", "", "never", ColorNever},
		{"off", "", "off", ColorNever},
		{"auto", "", "auto", ColorAuto},
		{"unset", "", "", ColorAuto},
		{"unknown value", "", "sometimes", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLCHECK_COLOR", tt.skillEnv)
			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestColorEnabled(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, NewWithOptions(&out, &out, ColorAlways).ColorEnabled())
	assert.False(t, NewWithOptions(&out, &out, ColorNever).ColorEnabled())
	assert.False(t, NewWithOptions(&out, &out, ColorAuto).ColorEnabled(), "buffers are never terminals")
}

func TestColorAlwaysEmitsEscapes(t *testing.T) {
	var out bytes.Buffer
	NewWithOptions(&out, nil, ColorAlways).Success("skill created")
	assert.Contains(t, out.String(), "\x1b[")

	out.Reset()
	NewWithOptions(&out, nil, ColorNever).Success("skill created")
	assert.Equal(t, "✓ skill created\n", out.String())
}

func TestError(t *testing.T) {
	var errOut bytes.Buffer
	p := NewWithOptions(nil, &errOut, ColorNever)

	p.Error(errors.New("directory exists"), "cannot create skill")
	assert.Equal(t, "[ERROR] cannot create skill: directory exists\n", errOut.String())

	errOut.Reset()
	p.Error(errors.New("directory exists"), "")
	assert.Equal(t, "[ERROR] directory exists\n", errOut.String())

	errOut.Reset()
	p.Error(nil, "context")
	assert.Empty(t, errOut.String())
}

func TestMessages(t *testing.T) {
	var out bytes.Buffer
	p := NewWithOptions(&out, nil, ColorNever)

	p.Success("created demo-skill")
	p.Warning("no skills found")
	p.Info("next: edit SKILL.md")
	p.Section("Skills")
	p.Separator()

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "✓ created demo-skill", lines[0])
	assert.Equal(t, "⚠ no skills found", lines[1])
	assert.Equal(t, "next: edit SKILL.md", lines[2])
	assert.Equal(t, "Skills", lines[3])
	assert.Equal(t, "------", lines[4])
	assert.Equal(t, strings.Repeat("-", 60), lines[5])
}

func TestQuietMode(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewWithOptions(&out, &errOut, ColorNever)
	p.SetQuiet(true)
	require.True(t, p.IsQuiet())

	p.Success("a")
	p.Warning("b")
	p.Info("c")
	p.Section("d")
	p.Separator()
	assert.Empty(t, out.String())

	p.Error(errors.New("still shown"), "")
	assert.Contains(t, errOut.String(), "still shown")

	p.SetQuiet(false)
	assert.False(t, p.IsQuiet())
}

func TestGlobalFunctions(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var out, errOut bytes.Buffer
	SetDefault(NewWithOptions(&out, &errOut, ColorNever))

	Error(errors.New("boom"), "validate")
	assert.Equal(t, "[ERROR] validate: boom\n", errOut.String())

	Success("ok")
	Warning("careful")
	Info("plain")
	Section("Title")
	Separator()
	assert.Contains(t, out.String(), "✓ ok")
	assert.Contains(t, out.String(), "⚠ careful")
	assert.Contains(t, out.String(), "plain")
	assert.Contains(t, out.String(), "Title\n-----")
	assert.False(t, ColorEnabled())

	SetQuiet(true)
	assert.True(t, IsQuiet())
	out.Reset()
	Info("hidden")
	assert.Empty(t, out.String())
	SetQuiet(false)
}
