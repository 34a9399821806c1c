package skills

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Link is a markdown link or image destination found in SKILL.md.
type Link struct {
	Destination string
	Line        int // 1-based line in the source
}

// Outline is the result of a single markdown pass over SKILL.md. Line
// numbers refer to the whole file, frontmatter included.
type Outline struct {
	excluded map[int]bool
	Links    []Link
}

// BuildOutline parses source as markdown. When hasFrontmatter is set the
// leading YAML block is consumed as metadata rather than rendered content.
func BuildOutline(source string, hasFrontmatter bool) *Outline {
	src := []byte(source)
	o := &Outline{excluded: make(map[int]bool)}

	var opts []goldmark.Option
	if hasFrontmatter {
		opts = append(opts, goldmark.WithExtensions(meta.Meta))
	}
	md := goldmark.New(opts...)

	pctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(src), parser.WithContext(pctx))

	starts := lineStarts(src)
	lineOf := func(offset int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.Heading:
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				o.excluded[lineOf(segs.At(i).Start)] = true
			}
		case *ast.Link:
			o.Links = append(o.Links, Link{Destination: string(node.Destination), Line: nodeLine(n, lineOf)})
		case *ast.Image:
			o.Links = append(o.Links, Link{Destination: string(node.Destination), Line: nodeLine(n, lineOf)})
		}
		return ast.WalkContinue, nil
	})

	for i, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") || strings.HasPrefix(trimmed, "<!--") {
			o.excluded[i+1] = true
		}
	}

	return o
}

// Excluded reports whether a 1-based line belongs to code, a heading or an
// HTML block, where prose checks do not apply.
func (o *Outline) Excluded(line int) bool {
	return o.excluded[line]
}

// lineStarts returns the byte offset of every line start.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// nodeLine finds the source line of an inline node through its first text
// descendant, falling back to the enclosing block.
func nodeLine(n ast.Node, lineOf func(int) int) int {
	var line int
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			line = lineOf(t.Segment.Start)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if line > 0 {
		return line
	}

	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == ast.TypeBlock && p.Lines().Len() > 0 {
			return lineOf(p.Lines().At(0).Start)
		}
	}
	return 0
}
