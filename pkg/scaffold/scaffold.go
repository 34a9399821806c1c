// Package scaffold creates new skill directories that pass validation out of
// the box.
package scaffold

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillcheck/pkg/skills"
	"github.com/jingkaihe/skillcheck/pkg/validator"
)

//go:embed templates/*
var templateFS embed.FS

var (
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9\s_-]`)
	separators = regexp.MustCompile(`[\s_-]+`)
)

// templateData is passed to every template.
type templateData struct {
	Name        string
	Title       string
	Description string
}

// outputs maps a template to the file it renders, relative to the skill.
var outputs = []struct {
	template string
	path     string
}{
	{"templates/SKILL.md.tmpl", skills.FileName},
	{"templates/test_scenarios.yaml.tmpl", filepath.Join("tests", "test_scenarios.yaml")},
}

// KebabCase converts a free-form name such as "PDF Tools_v2" to "pdf-tools-v2".
// Characters other than letters, digits, spaces, underscores and hyphens are
// dropped.
func KebabCase(name string) string {
	s := disallowed.ReplaceAllString(name, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.ToLower(strings.Trim(s, "-"))
}

// Result describes a created skill.
type Result struct {
	Name  string
	Dir   string
	Files []string
}

// Init creates parentDir/<kebab-name> with the standard support directories,
// a SKILL.md and a starter test scenario file. It refuses to touch an
// existing directory.
func Init(parentDir, name string) (*Result, error) {
	kebab := KebabCase(name)
	if kebab == "" {
		return nil, errors.Errorf("skill name %q has no usable characters", name)
	}
	if !validator.NamePattern.MatchString(kebab) {
		return nil, errors.Errorf("skill name %q must start with a letter", kebab)
	}

	dir := filepath.Join(parentDir, kebab)
	if _, err := os.Lstat(dir); err == nil {
		return nil, errors.Errorf("directory already exists: %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to check %s", dir)
	}

	for _, sub := range skills.SupportDirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", sub)
		}
	}

	data := templateData{
		Name:        kebab,
		Title:       title(kebab),
		Description: "Provides " + kebab + " functionality.",
	}

	res := &Result{Name: kebab, Dir: dir}
	for _, out := range outputs {
		content, err := render(out.template, data)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, out.path), content, 0o644); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", out.path)
		}
		res.Files = append(res.Files, filepath.ToSlash(out.path))
	}
	return res, nil
}

func render(name string, data templateData) ([]byte, error) {
	tmplContent, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read template file")
	}

	tmpl, err := template.New(filepath.Base(name)).Parse(string(tmplContent))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}
	return buf.Bytes(), nil
}

// title turns "pdf-tools" into "Pdf Tools".
func title(kebab string) string {
	words := strings.Split(kebab, "-")
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
