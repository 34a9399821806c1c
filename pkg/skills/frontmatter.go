package skills

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var (
	// ErrNoFrontmatter is returned when the file does not open with a delimiter line.
	ErrNoFrontmatter = errors.New("no frontmatter found")
	// ErrUnclosedFrontmatter is returned when the closing delimiter line is missing.
	ErrUnclosedFrontmatter = errors.New("frontmatter closing delimiter not found")
)

// Normalize strips a UTF-8 byte order mark and converts CRLF line endings to LF.
func Normalize(content []byte) string {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	return strings.ReplaceAll(string(content), "\r\n", "\n")
}

// ParseFrontmatter splits SKILL.md content into its YAML header and body.
//
// The header is the block between a first line consisting of "---" and the
// next line consisting of "---". On error the returned frontmatter is nil,
// the body is the whole text and bodyStart is 1.
func ParseFrontmatter(content []byte) (fm *Frontmatter, body string, bodyStart int, err error) {
	text := Normalize(content)
	lines := strings.Split(text, "\n")

	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return nil, text, 1, ErrNoFrontmatter
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			closing = i
			break
		}
	}
	if closing == -1 {
		return nil, text, 1, ErrUnclosedFrontmatter
	}

	header := strings.Join(lines[1:closing], "\n")
	fm, err = decodeFrontmatter(header)
	if err != nil {
		return nil, text, 1, err
	}

	return fm, strings.Join(lines[closing+1:], "\n"), closing + 2, nil
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == delimiter
}

func decodeFrontmatter(header string) (*Frontmatter, error) {
	if strings.TrimSpace(header) == "" {
		return nil, errors.New("frontmatter is empty")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, errors.Wrap(err, "invalid YAML in frontmatter")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("frontmatter is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Errorf("frontmatter must be a mapping, got %s", kindName(root.Kind))
	}

	fm := &Frontmatter{present: make(map[string]bool, len(root.Content)/2)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		fm.present[root.Content[i].Value] = true
	}

	if err := root.Decode(fm); err != nil {
		return nil, errors.Wrap(err, "invalid frontmatter field")
	}

	return fm, nil
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an unknown node"
	}
}

func splitTrimmedLines(text string) []string {
	text = strings.Trim(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
