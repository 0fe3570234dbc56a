package parser

import (
	"github.com/pipe01/tmplint/internal/lexer"
	"github.com/pipe01/tmplint/internal/parser/ast"
	"github.com/pipe01/tmplint/internal/validator"
	"golang.org/x/exp/slices"
)

var pushKinds = []lexer.Kind{
	lexer.KindHTMLStart,
	lexer.KindHandlebarsStart,
	lexer.KindDjangoStart,
}

// HTMLTagTree tokenizes text and folds the tokens into a tree.
func HTMLTagTree(text string) (*ast.Node, error) {
	tks, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}

	return BuildTree(tks), nil
}

// BuildTree nests tokens by their start and end tags. It does not check
// that end tags match, use validator.Validate for that.
func BuildTree(tks []lexer.Token) *ast.Node {
	root := &ast.Node{}
	stack := []*ast.Node{root}

	for i := range tks {
		tk := &tks[i]
		top := stack[len(stack)-1]

		switch {
		case slices.Contains(pushKinds, tk.Kind):
			if tk.Kind == lexer.KindDjangoStart && !validator.IsDjangoBlockTag(tk.Tag) {
				continue
			}

			node := &ast.Node{Token: tk}
			top.Children = append(top.Children, node)
			stack = append(stack, node)

		case tk.Kind == lexer.KindHTMLSingleton:
			top.Children = append(top.Children, &ast.Node{Token: tk})

		case tk.Kind.IsEnd():
			// Never pop the root
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return root
}
