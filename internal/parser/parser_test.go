package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pipe01/tmplint/internal/lexer"
	"github.com/pipe01/tmplint/internal/parser/ast"
)

func assert[T comparable](t *testing.T, expected, got T, msg string) {
	t.Helper()

	if got != expected {
		t.Fatalf("%s: expected %v, got %v", msg, expected, got)
	}
}

// shape renders a tree as nested tag names for comparison.
type shape struct {
	Tag      string
	Children []shape
}

func shapeOf(n *ast.Node) shape {
	var s shape
	if n.Token != nil {
		s.Tag = n.Token.Tag
	}

	for _, c := range n.Children {
		s.Children = append(s.Children, shapeOf(c))
	}

	return s
}

func TestHTMLTagTree(t *testing.T) {
	html := `
	<body><p>Hello world</p></body>
	`

	tree, err := HTMLTagTree(html)
	if err != nil {
		t.Fatalf("failed to build tree: %s", err)
	}

	assert(t, true, tree.IsRoot(), "root")
	assert(t, "<p>", tree.Children[0].Children[0].Token.Contents, "nested token")
}

func TestBuildTreeShape(t *testing.T) {
	text := `
	{% include "header.html" %}
	<ul>
	    {{#each items}}
	        <li>{{name}}<br></li>
	    {{/each}}
	    {% if more %}<li>more</li>{% endif %}
	</ul>
	<hr/>
	<!-- done -->`

	tree, err := HTMLTagTree(text)
	if err != nil {
		t.Fatalf("failed to build tree: %s", err)
	}

	want := shape{Children: []shape{
		{Tag: "ul", Children: []shape{
			{Tag: "each", Children: []shape{
				{Tag: "li", Children: []shape{{Tag: "br"}}},
			}},
			{Tag: "if", Children: []shape{{Tag: "li"}}},
		}},
		{Tag: "hr"},
	}}

	if diff := cmp.Diff(want, shapeOf(tree)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTreeToleratesStrayEndTags(t *testing.T) {
	tree, err := HTMLTagTree("</div></div><p></p>")
	if err != nil {
		t.Fatalf("failed to build tree: %s", err)
	}

	assert(t, 1, len(tree.Children), "top level count")
	assert(t, "p", tree.Children[0].Token.Tag, "top level tag")
}

func TestTreeQueries(t *testing.T) {
	tree, err := HTMLTagTree(`<div><p><b>x</b></p><p id="second"></p></div>`)
	if err != nil {
		t.Fatalf("failed to build tree: %s", err)
	}

	var tags []string
	for _, n := range tree.Descendants() {
		tags = append(tags, n.Token.Tag)
	}

	if diff := cmp.Diff([]string{"div", "p", "b", "p"}, tags); diff != "" {
		t.Fatalf("descendants mismatch (-want +got):\n%s", diff)
	}

	third := tree.Descendants()[2]
	assert(t, "b", third.Token.Tag, "third descendant")

	found := tree.Find(func(n *ast.Node) bool {
		return lexer.GetTagInfo(n.Token).ID == "second"
	})
	if found == nil {
		t.Fatalf("expected to find #second")
	}
	assert(t, `<p id="second">`, found.Token.Contents, "found token")

	assert(t, (*ast.Node)(nil), tree.Find(func(n *ast.Node) bool { return false }), "no match")
}

func TestHTMLTagTreeLexError(t *testing.T) {
	_, err := HTMLTagTree("<p")
	if err == nil {
		t.Fatalf("expected an error")
	}
}
