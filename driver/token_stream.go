package driver

import (
	"io"

	"github.com/kinari9/urubu/spec"
	mldriver "github.com/nihei9/maleeni/driver"
)

// TokenStream produces the next input symbol on demand. After it has emitted
// an EOF symbol once it must keep answering EOF, but the parser latches the
// first EOF and doesn't call the stream again.
type TokenStream interface {
	Next() (*Symbol, error)
}

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
	eofSym         int
}

func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.LexicalSpecification.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: g.LexicalSpecification.Maleeni.KindToTerminal,
		skip:           g.LexicalSpecification.Maleeni.Skip,
		eofSym:         g.ParsingTable.EOFSymbol,
	}, nil
}

func (l *tokenStream) Next() (*Symbol, error) {
	for {
		// The kind ID of an invalid token is 0, and the parsing table has no
		// entry for the terminal 0, so an invalid token surfaces as a syntax
		// error without a separate check here.
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}

		if l.skip[tok.KindID] > 0 {
			continue
		}

		if tok.EOF {
			return &Symbol{
				ID:    l.eofSym,
				Value: tok,
			}, nil
		}

		return &Symbol{
			ID:    l.kindToTerminal[tok.KindID],
			Value: tok,
		}, nil
	}
}
