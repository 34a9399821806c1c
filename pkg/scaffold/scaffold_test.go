package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillcheck/pkg/report"
	"github.com/jingkaihe/skillcheck/pkg/skills"
	"github.com/jingkaihe/skillcheck/pkg/validator"
)

func TestKebabCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pdf-tools", "pdf-tools"},
		{"PDF Tools", "pdf-tools"},
		{"pdf_tools_v2", "pdf-tools-v2"},
		{"  My   Skill!! ", "my-skill"},
		{"a - b", "a-b"},
		{"--lead-and-trail--", "lead-and-trail"},
		{"Café Menu", "caf-menu"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := KebabCase(tt.in)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.Regexp(t, validator.NamePattern, got)
			}
		})
	}
}

func TestInit(t *testing.T) {
	parent := t.TempDir()

	res, err := Init(parent, "Demo Skill")
	require.NoError(t, err)

	assert.Equal(t, "demo-skill", res.Name)
	assert.Equal(t, filepath.Join(parent, "demo-skill"), res.Dir)
	assert.Equal(t, []string{"SKILL.md", "tests/test_scenarios.yaml"}, res.Files)

	for _, sub := range skills.SupportDirs {
		info, err := os.Stat(filepath.Join(res.Dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir(), sub)
	}

	doc := skills.Load(res.Dir)
	require.True(t, doc.Parsed(), "%v", doc.ParseErr)
	assert.Equal(t, "demo-skill", doc.Frontmatter.NameValue())
	assert.Equal(t, "Provides demo-skill functionality.", doc.Frontmatter.DescriptionValue())
	assert.Equal(t, []string{"Demo Skill", "use demo-skill"}, doc.Frontmatter.Triggers())
	assert.True(t, doc.Frontmatter.Has("version"))
}

func TestInitProducesAValidSkill(t *testing.T) {
	res, err := Init(t.TempDir(), "release_notes")
	require.NoError(t, err)

	v, err := validator.New()
	require.NoError(t, err)

	r := v.Validate(context.Background(), res.Dir)
	assert.Equal(t, report.LevelPass, r.Overall(), "%+v", r.Findings)
	assert.Equal(t, 0, r.ExitCode(true))
}

func TestInitRefusesExistingDirectory(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(parent, "taken"), 0o755))

	_, err := Init(parent, "Taken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory already exists")

	entries, err := os.ReadDir(filepath.Join(parent, "taken"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInitRejectsUnusableName(t *testing.T) {
	_, err := Init(t.TempDir(), "???")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable characters")

	_, err = Init(t.TempDir(), "2fast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with a letter")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Pdf Tools V2", title("pdf-tools-v2"))
	assert.Equal(t, "X", title("x"))
}
