package validator

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jingkaihe/skillcheck/pkg/skills"
)

// ReferencePattern matches bare path-like tokens under the conventional
// skill subdirectories, e.g. "references/api.md" or "./scripts/tools/run.py".
// The token itself, without any leading "./", is the first submatch. Tokens
// inside a longer path or URL do not match. Detection is a best-effort lint,
// not a parse.
var ReferencePattern = regexp.MustCompile(
	`(?m)(?:^|[^\w./-])(?:\./)?((?:references|templates|examples|scripts)/(?:[A-Za-z0-9_.-]+/)*[A-Za-z0-9_-][A-Za-z0-9_.-]*\.[A-Za-z0-9]+)`)

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// ResolveReferences extracts file references from the body of doc and
// returns all of them plus those that do not exist on disk. Both lists are
// sorted and free of duplicates.
func ResolveReferences(doc *skills.Document) (refs, missing []string) {
	seen := make(map[string]bool)
	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	for _, m := range ReferencePattern.FindAllStringSubmatch(doc.Body, -1) {
		add(path.Clean(m[1]))
	}

	if doc.Outline != nil {
		for _, link := range doc.Outline.Links {
			if link.Line < doc.BodyStartLine {
				continue
			}
			add(localLinkTarget(link.Destination))
		}
	}

	sort.Strings(refs)
	for _, ref := range refs {
		if _, err := os.Stat(filepath.Join(doc.Dir, filepath.FromSlash(ref))); err != nil {
			missing = append(missing, ref)
		}
	}

	return refs, missing
}

// localLinkTarget returns the relative file path a link points at, or an
// empty string for URLs, anchors and absolute paths.
func localLinkTarget(dest string) string {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		return ""
	}
	if schemePattern.MatchString(dest) {
		return ""
	}

	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	if dest == "" {
		return ""
	}

	return path.Clean(dest)
}
