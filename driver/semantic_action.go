package driver

import (
	"fmt"
	"io"

	mldriver "github.com/nihei9/maleeni/driver"
)

// ActionExecutor runs user code at each reduction. The parser calls DoAction
// with the production being reduced and a borrowed window over the
// right-hand-side symbols on top of the parse stack, bottom to top. The
// executor must return a fresh symbol for the left-hand side; ownership of the
// window's symbols transfers to the executor when DoAction returns, and the
// parser takes ownership of the returned symbol.
//
// DoAction may read the parser through p but must not mutate its state; in
// particular it must not call Parse.
type ActionExecutor interface {
	DoAction(prodNum int, p *Parser, rhs []*Symbol) (*Symbol, error)
}

var (
	_ ActionExecutor = &SyntaxTreeActionSet{}
	_ ActionExecutor = &NopActionSet{}
)

// NopActionSet recognizes the input without building anything.
type NopActionSet struct {
}

func NewNopActionSet() *NopActionSet {
	return &NopActionSet{}
}

func (a *NopActionSet) DoAction(prodNum int, p *Parser, rhs []*Symbol) (*Symbol, error) {
	lhs, _ := p.Grammar().Production(prodNum)
	return &Symbol{
		ID: lhs,
	}, nil
}

// SyntaxTreeActionSet builds a concrete syntax tree. The value of every
// non-terminal symbol it returns is a *Node whose children are the nodes of
// the reduced handle.
type SyntaxTreeActionSet struct {
	gram Grammar
}

func NewSyntaxTreeActionSet(gram Grammar) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram: gram,
	}
}

func (a *SyntaxTreeActionSet) DoAction(prodNum int, p *Parser, rhs []*Symbol) (*Symbol, error) {
	lhs, n := a.gram.Production(prodNum)

	// When an alternative is empty, `n` is 0 and the node has no children.
	children := make([]*Node, n)
	for i, sym := range rhs {
		children[i] = a.nodeOf(sym)
	}

	return &Symbol{
		ID: lhs,
		Value: &Node{
			KindName: a.gram.NonTerminal(lhs),
			Children: children,
		},
	}, nil
}

// Tree returns the tree a result symbol carries, or nil when the symbol was
// built by another executor.
func (a *SyntaxTreeActionSet) Tree(result *Symbol) *Node {
	if result == nil {
		return nil
	}
	node, ok := result.Value.(*Node)
	if !ok {
		return nil
	}
	return node
}

func (a *SyntaxTreeActionSet) nodeOf(sym *Symbol) *Node {
	switch v := sym.Value.(type) {
	case *Node:
		return v
	case *mldriver.Token:
		return &Node{
			KindName: a.gram.Terminal(sym.ID),
			Text:     string(v.Lexeme),
			Row:      v.Row,
			Col:      v.Col,
		}
	default:
		// A symbol synthesized by error recovery has no value.
		return &Node{
			KindName: a.gram.Terminal(sym.ID),
		}
	}
}

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

// PrintTree prints a syntax tree whose root is `node`.
func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
