// Package skills loads skill packages from disk. A skill is a directory
// containing a SKILL.md file with YAML frontmatter describing the skill,
// followed by markdown instructions, plus optional references, templates,
// examples, scripts and tests subdirectories.
package skills

import (
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the instruction file every skill directory must contain.
const FileName = "SKILL.md"

// SupportDirs are the conventional subdirectories of a skill.
var SupportDirs = []string{"references", "templates", "examples", "scripts", "tests"}

// Frontmatter is the typed view of the SKILL.md YAML header.
// Optional scalar fields are pointers so that an absent key can be told
// apart from an empty value.
type Frontmatter struct {
	Name           *string     `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"required,pattern=^[a-z][a-z0-9]*(-[a-z0-9]+)*$"`
	Description    *string     `yaml:"description,omitempty" json:"description,omitempty" jsonschema:"required"`
	Version        *string     `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"required"`
	Author         *string     `yaml:"author,omitempty" json:"author,omitempty"`
	TriggerList    StringList  `yaml:"triggers,omitempty" json:"triggers,omitempty"`
	TriggerPhrases StringList  `yaml:"trigger_phrases,omitempty" json:"trigger_phrases,omitempty"`
	Tags           StringList  `yaml:"tags,omitempty" json:"tags,omitempty"`
	Requires       StringList  `yaml:"requires,omitempty" json:"requires,omitempty"`
	Invocation     *Invocation `yaml:"invocation,omitempty" json:"invocation,omitempty"`

	// Extra keeps keys this package does not know about.
	Extra map[string]any `yaml:",inline" json:"-"`

	present map[string]bool
}

// Invocation controls how a skill may be invoked.
type Invocation struct {
	UserInvocable *bool `yaml:"user_invocable,omitempty" json:"user_invocable,omitempty"`
	AutoInvoke    *bool `yaml:"auto_invoke,omitempty" json:"auto_invoke,omitempty"`
}

// Has reports whether key was present in the YAML mapping, even with a null value.
func (f *Frontmatter) Has(key string) bool {
	if f == nil {
		return false
	}
	return f.present[key]
}

// Triggers returns the trigger phrases, falling back to trigger_phrases.
func (f *Frontmatter) Triggers() []string {
	if f == nil {
		return nil
	}
	if len(f.TriggerList) > 0 {
		return f.TriggerList
	}
	return f.TriggerPhrases
}

// NameValue returns the name or an empty string.
func (f *Frontmatter) NameValue() string {
	if f == nil || f.Name == nil {
		return ""
	}
	return *f.Name
}

// DescriptionValue returns the description or an empty string.
func (f *Frontmatter) DescriptionValue() string {
	if f == nil || f.Description == nil {
		return ""
	}
	return *f.Description
}

// StringList is a YAML sequence of strings that also accepts a single scalar.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return errors.Errorf("line %d: list items must be strings", item.Line)
			}
			items = append(items, item.Value)
		}
		*l = items
		return nil
	default:
		return errors.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// JSONSchema describes a StringList as a string or an array of strings.
func (StringList) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// Document is one parsed SKILL.md. It is built once by Load and not
// modified afterwards.
type Document struct {
	Dir  string // skill directory
	Path string // full path of SKILL.md

	Exists  bool  // SKILL.md is present
	ReadErr error // SKILL.md exists but could not be read

	Source        string       // normalized file text
	Frontmatter   *Frontmatter // nil unless the frontmatter parsed
	ParseErr      error        // why Frontmatter is nil
	Body          string       // text after the closing delimiter
	BodyStartLine int          // 1-based line of Source where Body begins
	Outline       *Outline
}

// Parsed reports whether the frontmatter was parsed successfully.
func (d *Document) Parsed() bool {
	return d.Exists && d.ReadErr == nil && d.ParseErr == nil && d.Frontmatter != nil
}

// BodyLines splits the body into lines. Leading and trailing blank lines
// are ignored; an empty body has no lines.
func (d *Document) BodyLines() []string {
	return splitTrimmedLines(d.Body)
}
