package ast

import (
	"github.com/pipe01/tmplint/internal/lexer"
)

// Node is a tag and the tags nested in it. The root node of a tree has no
// token.
type Node struct {
	Token    *lexer.Token
	Children []*Node
}

func (n *Node) IsRoot() bool {
	return n.Token == nil
}

// Walk calls fn for n and every node below it in document order, stopping
// early when fn returns false.
func (n *Node) Walk(fn func(n *Node) bool) bool {
	if !fn(n) {
		return false
	}

	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}

	return true
}

// Descendants returns every node below n in document order.
func (n *Node) Descendants() []*Node {
	var nodes []*Node

	n.Walk(func(d *Node) bool {
		if d != n {
			nodes = append(nodes, d)
		}
		return true
	})

	return nodes
}

// Find returns the first node below n for which match returns true.
func (n *Node) Find(match func(n *Node) bool) *Node {
	var found *Node

	n.Walk(func(d *Node) bool {
		if d != n && match(d) {
			found = d
			return false
		}
		return true
	})

	return found
}
