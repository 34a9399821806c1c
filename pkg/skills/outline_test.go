package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outlineSource = `---
name: outline
description: See [docs](references/ignored.md).
---

# Heading for you

Read the [guide](references/guide.md) first.

` + "```bash" + `
echo "you are here"
` + "```" + `

    indented code for you

<!-- note for you -->

![diagram](examples/diagram.png "Diagram")
`

func TestBuildOutline(t *testing.T) {
	o := BuildOutline(outlineSource, true)

	t.Run("excluded lines", func(t *testing.T) {
		assert.True(t, o.Excluded(6), "heading")
		assert.False(t, o.Excluded(8), "paragraph")
		assert.True(t, o.Excluded(10), "opening fence")
		assert.True(t, o.Excluded(11), "fenced content")
		assert.True(t, o.Excluded(12), "closing fence")
		assert.True(t, o.Excluded(14), "indented code")
		assert.True(t, o.Excluded(16), "html comment")
		assert.False(t, o.Excluded(18), "image paragraph")
	})

	t.Run("links", func(t *testing.T) {
		require.Len(t, o.Links, 2)
		assert.Equal(t, Link{Destination: "references/guide.md", Line: 8}, o.Links[0])
		assert.Equal(t, Link{Destination: "examples/diagram.png", Line: 18}, o.Links[1])
	})
}

func TestBuildOutlineWithoutFrontmatter(t *testing.T) {
	o := BuildOutline("Plain [link](scripts/run.sh) text.\n", false)

	require.Len(t, o.Links, 1)
	assert.Equal(t, "scripts/run.sh", o.Links[0].Destination)
	assert.Equal(t, 1, o.Links[0].Line)
	assert.False(t, o.Excluded(1))
}
