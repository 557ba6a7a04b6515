package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yaklabco/goeditable/pkg/config"
	"github.com/yaklabco/goeditable/pkg/dom"
	"github.com/yaklabco/goeditable/pkg/markdown"
)

func newConverter(t *testing.T, flavor config.Flavor, detect bool) *markdown.Converter {
	t.Helper()
	return markdown.New(config.MarkdownConfig{Flavor: flavor, DetectLanguage: config.BoolPtr(detect)})
}

func TestConverter_Flavor(t *testing.T) {
	assert.Equal(t, config.FlavorGFM, newConverter(t, config.FlavorGFM, false).Flavor())
	assert.Equal(t, config.FlavorCommonMark, newConverter(t, config.FlavorCommonMark, false).Flavor())
	assert.Equal(t, config.FlavorCommonMark, newConverter(t, "no-such-flavor", false).Flavor(),
		"invalid flavors fall back to CommonMark")
}

func TestConverter_ToHTML(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, false)

	out, err := conv.ToHTML([]byte("# Title\n\nHello **World**"))
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "Hello <strong>World</strong>")
}

func TestConverter_ToHTML_GFMStrikethrough(t *testing.T) {
	src := []byte("~~gone~~")

	gfm, err := newConverter(t, config.FlavorGFM, false).ToHTML(src)
	require.NoError(t, err)
	assert.Contains(t, gfm, "<del>gone</del>")

	plain, err := newConverter(t, config.FlavorCommonMark, false).ToHTML(src)
	require.NoError(t, err)
	assert.NotContains(t, plain, "<del>", "CommonMark has no strikethrough")
}

func TestConverter_ToNodes(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, false)

	nodes, err := conv.ToNodes([]byte("paragraph one\n\nparagraph two"))
	require.NoError(t, err)
	require.NotEmpty(t, nodes)

	for _, n := range nodes {
		assert.Nil(t, n.Parent, "nodes come back detached")
	}

	paragraphs := 0
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.Data == "p" {
			paragraphs++
		}
	}
	assert.Equal(t, 2, paragraphs)
}

func TestConverter_AnnotatesBareCodeBlocks(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, true)

	out, err := conv.ToHTML([]byte("```\npackage main\n\nfunc main() {}\n```"))
	require.NoError(t, err)
	assert.Contains(t, out, `class="language-go"`)
}

func TestConverter_KeepsExplicitLanguage(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, true)

	out, err := conv.ToHTML([]byte("```python\nx = 1\n```"))
	require.NoError(t, err)
	assert.Contains(t, out, `class="language-python"`)
	assert.NotContains(t, out, `language-go`)
}

func TestConverter_LeavesUnsureBlocksBare(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, true)

	out, err := conv.ToHTML([]byte("```\njust some text without any code patterns\n```"))
	require.NoError(t, err)
	assert.NotContains(t, out, "language-", "prose stays unlabeled")
}

func TestConverter_DetectionDisabled(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, false)

	out, err := conv.ToHTML([]byte("```\npackage main\n```"))
	require.NoError(t, err)
	assert.NotContains(t, out, "language-")
}

func TestConverter_FromString(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, false)

	out, err := conv.FromString("<h1>Title</h1><p>Hello <b>World</b></p>")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nHello **World**", out)
}

func TestConverter_FromHTML_RegionRoot(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, false)

	root := dom.NewElement("div")
	nodes, err := dom.ParseFragment("<ul><li>first</li><li>second</li></ul>")
	require.NoError(t, err)
	for _, n := range nodes {
		root.AppendChild(n)
	}

	out, err := conv.FromHTML(root)
	require.NoError(t, err)
	assert.Contains(t, out, "- first")
	assert.Contains(t, out, "- second")
}

func TestConverter_RoundTrip(t *testing.T) {
	conv := newConverter(t, config.FlavorCommonMark, false)
	src := "# Title\n\nHello **World**"

	fragment, err := conv.ToHTML([]byte(src))
	require.NoError(t, err)

	back, err := conv.FromString(fragment)
	require.NoError(t, err)
	assert.Equal(t, src, back)
}
