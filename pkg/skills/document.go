package skills

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Load reads and parses the SKILL.md in dir. Load never fails: a missing
// file, a read error or a frontmatter error is recorded on the Document.
func Load(dir string) *Document {
	doc := &Document{
		Dir:           dir,
		Path:          filepath.Join(dir, FileName),
		BodyStartLine: 1,
	}

	info, err := os.Stat(doc.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			doc.Exists = true
			doc.ReadErr = errors.Wrap(err, "failed to stat skill file")
		}
		return doc
	}
	if info.IsDir() {
		return doc
	}
	doc.Exists = true

	content, err := os.ReadFile(doc.Path)
	if err != nil {
		doc.ReadErr = errors.Wrap(err, "failed to read skill file")
		return doc
	}

	return Parse(dir, content)
}

// Parse builds a Document from SKILL.md content belonging to dir.
func Parse(dir string, content []byte) *Document {
	doc := &Document{
		Dir:    dir,
		Path:   filepath.Join(dir, FileName),
		Exists: true,
		Source: Normalize(content),
	}

	fm, body, start, err := ParseFrontmatter(content)
	doc.Frontmatter = fm
	doc.ParseErr = err
	doc.Body = body
	doc.BodyStartLine = start
	doc.Outline = BuildOutline(doc.Source, err == nil)

	return doc
}
