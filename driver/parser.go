package driver

import (
	"fmt"
	"io"
	"os"

	mldriver "github.com/nihei9/maleeni/driver"
)

// The lookahead buffer used by error recovery never grows beyond this many
// symbols, whatever the configured sync size is.
const maxErrorSyncSize = 8

// defaultErrorSyncSize is the number of symbols past an error that must parse
// cleanly for a recovery to count as successful. Values below 2 are not
// recommended.
const defaultErrorSyncSize = 3

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             *Symbol
	ExpectedTerminals []string
}

type ParserOption func(p *Parser) error

// ErrorSyncSize sets how many symbols past the point of an error must be
// parsed without error to consider a recovery valid.
func ErrorSyncSize(n int) ParserOption {
	return func(p *Parser) error {
		if n < 1 || n > maxErrorSyncSize {
			return fmt.Errorf("error sync size must be in [1, %v]: %v", maxErrorSyncSize, n)
		}
		p.errorSyncSize = n
		return nil
	}
}

// ErrorWriter sets the sink syntax-error and fatal-error diagnostics are
// written to. The default is os.Stderr.
func ErrorWriter(w io.Writer) ParserOption {
	return func(p *Parser) error {
		p.errW = w
		return nil
	}
}

// DebugWriter enables shift/reduce/stack traces on w.
func DebugWriter(w io.Writer) ParserOption {
	return func(p *Parser) error {
		p.debugW = w
		return nil
	}
}

// DisposeFunc sets the hook every symbol the parser discards or still owns at
// exit is routed through, exactly once per symbol. The start-state sentinel
// that an accepted parse leaves on the stack is not passed to it. Use it to
// release semantic values attached to symbols.
func DisposeFunc(f func(*Symbol)) ParserOption {
	return func(p *Parser) error {
		p.dispose = f
		return nil
	}
}

type Parser struct {
	gram Grammar
	toks TokenStream
	exec ActionExecutor

	stack  *parseStack
	curTok *Symbol

	// eofSeen latches the first EOF from the token stream; afterwards the
	// stream is never called again and EOF is replayed.
	eofSeen bool

	lookahead    [maxErrorSyncSize]*Symbol
	lookaheadLen int
	lookaheadPos int

	errorSyncSize int
	errW          io.Writer
	debugW        io.Writer
	dispose       func(*Symbol)

	synErrs []*SyntaxError
	result  *Symbol
	parsing bool
}

func NewParser(gram Grammar, toks TokenStream, exec ActionExecutor, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		gram:          gram,
		toks:          toks,
		exec:          exec,
		stack:         newParseStack(),
		errorSyncSize: defaultErrorSyncSize,
		errW:          os.Stderr,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Parser) Grammar() Grammar {
	return p.gram
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

// Parse runs the shift-reduce loop until the start production reduces or a
// fatal error occurs. On acceptance it returns the symbol the action executor
// built for the start production; ownership of that symbol passes to the
// caller, and the parse stack is left holding only the start-state sentinel.
// On fatal exit every symbol the parser still owns has been routed
// through the disposal hook and no result is returned.
func (p *Parser) Parse() (*Symbol, error) {
	if p.parsing {
		return nil, fmt.Errorf("nested invocation of Parse on one parser instance")
	}
	p.parsing = true
	accepted := false
	defer func() {
		p.parsing = false
		p.teardown(accepted)
	}()

	p.stack.push(&Symbol{
		State: p.gram.InitialState(),
	})

	tok, err := p.scan()
	if err != nil {
		return nil, p.reportFatalError(err.Error(), nil)
	}
	p.curTok = tok

ACTION_LOOP:
	for {
		act := p.gram.Action(p.stack.peek().State, p.curTok.ID)
		switch {
		case act > 0: // Shift
			p.shiftCurrent(act - 1)

			tok, err := p.scan()
			if err != nil {
				return nil, p.reportFatalError(err.Error(), nil)
			}
			p.curTok = tok
		case act < 0: // Reduce
			prodNum := -act - 1

			sym, err := p.reduce(prodNum)
			if err != nil {
				return nil, err
			}

			if prodNum == p.gram.StartProduction() {
				p.debugMessage("accept")
				accepted = true
				return sym, nil
			}

			next := p.gram.GoTo(p.stack.peek().State, sym.ID)
			if next < 0 {
				err := p.reportFatalError(fmt.Sprintf("no goto entry for state %v and symbol %v", p.stack.peek().State, p.gram.NonTerminal(sym.ID)), sym)
				p.disposeOf(sym)
				return nil, err
			}
			sym.State = next
			p.stack.push(sym)
		default: // Error
			p.syntaxError(p.curTok)

			st, err := p.errorRecovery()
			if err != nil {
				return nil, err
			}
			switch st {
			case ersFail:
				return nil, p.unrecoveredSyntaxError(p.curErrToken())
			case ersAccept:
				p.debugMessage("accept")
				accepted = true
				result := p.result
				p.result = nil
				return result, nil
			default:
				continue ACTION_LOOP
			}
		}
	}
}

// shiftCurrent pushes the current token with the given state. Ownership moves
// to the stack.
func (p *Parser) shiftCurrent(state int) {
	tok := p.curTok
	p.curTok = nil
	tok.State = state
	p.stack.push(tok)
	p.debugShift(tok)
}

// reduce runs the action executor over the handle of prodNum and pops the
// handle. Ownership of the popped symbols passes to the executor; the
// returned symbol is owned by the caller and carries no state yet.
func (p *Parser) reduce(prodNum int) (*Symbol, error) {
	lhs, rhsLen := p.gram.Production(prodNum)
	p.debugReduce(prodNum, lhs, rhsLen)

	sym, err := p.exec.DoAction(prodNum, p, p.stack.topSlice(rhsLen))
	if err != nil {
		return nil, p.reportFatalError(fmt.Sprintf("action for production %v failed: %v", prodNum, err), nil)
	}
	if sym == nil {
		return nil, p.reportFatalError(fmt.Sprintf("action for production %v returned no symbol", prodNum), nil)
	}
	p.stack.npop(rhsLen)
	return sym, nil
}

// scan fetches the next symbol from the token stream, honouring the EOF
// latch: once EOF has been seen the stream is not called again and a fresh
// EOF symbol is fabricated instead.
func (p *Parser) scan() (*Symbol, error) {
	if p.eofSeen {
		return &Symbol{
			ID: p.gram.EOF(),
		}, nil
	}

	sym, err := p.toks.Next()
	if err != nil {
		return nil, err
	}
	if sym.ID == p.gram.EOF() {
		p.eofSeen = true
	}
	return sym, nil
}

func (p *Parser) disposeOf(sym *Symbol) {
	if sym == nil {
		return
	}
	if p.dispose != nil {
		p.dispose(sym)
	}
}

// teardown releases everything the parser still owns: the remaining stack
// entries, the buffered lookahead, and the current token. After acceptance the
// stack holds only the start-state sentinel, which is left in place.
func (p *Parser) teardown(accepted bool) {
	if !accepted {
		p.stack.drain(p.disposeOf)
	}

	for i := 0; i < p.lookaheadLen; i++ {
		if p.lookahead[i] != nil {
			p.disposeOf(p.lookahead[i])
			p.lookahead[i] = nil
		}
	}
	p.lookaheadLen = 0
	p.lookaheadPos = 0

	if p.curTok != nil {
		p.disposeOf(p.curTok)
		p.curTok = nil
	}
}

func (p *Parser) reportError(message string, info *Symbol) {
	if p.errW == nil {
		return
	}
	if row, col, ok := tokenPosition(info); ok {
		fmt.Fprintf(p.errW, "%v:%v: %v\n", row+1, col+1, message)
		return
	}
	fmt.Fprintf(p.errW, "%v\n", message)
}

func (p *Parser) reportFatalError(message string, info *Symbol) error {
	p.reportError(message, info)
	return fmt.Errorf("fatal parser error: %v", message)
}

// syntaxError runs once per detected error, before recovery is attempted.
func (p *Parser) syntaxError(tok *Symbol) {
	row, col, _ := tokenPosition(tok)
	p.synErrs = append(p.synErrs, &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           "unexpected token",
		Token:             tok,
		ExpectedTerminals: p.expectedTerminals(p.stack.peek().State),
	})
	p.reportError("syntax error", tok)
}

func (p *Parser) unrecoveredSyntaxError(tok *Symbol) error {
	return p.reportFatalError("couldn't repair and continue parse", tok)
}

func (p *Parser) expectedTerminals(state int) []string {
	terms := p.gram.ExpectedTerminals(state)
	kinds := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == p.gram.EOF() {
			kinds = append(kinds, "<eof>")
			continue
		}
		if alias := p.gram.TerminalAlias(term); alias != "" {
			kinds = append(kinds, alias)
			continue
		}
		kinds = append(kinds, p.gram.Terminal(term))
	}
	return kinds
}

func tokenPosition(sym *Symbol) (int, int, bool) {
	if sym == nil {
		return 0, 0, false
	}
	tok, ok := sym.Value.(*mldriver.Token)
	if !ok {
		return 0, 0, false
	}
	return tok.Row, tok.Col, true
}

func (p *Parser) debugMessage(message string) {
	if p.debugW == nil {
		return
	}
	fmt.Fprintf(p.debugW, "# %v\n", message)
}

func (p *Parser) debugShift(tok *Symbol) {
	if p.debugW == nil {
		return
	}
	fmt.Fprintf(p.debugW, "# shift %v to state %v\n", p.gram.Terminal(tok.ID), tok.State)
}

func (p *Parser) debugReduce(prodNum int, lhs int, rhsLen int) {
	if p.debugW == nil {
		return
	}
	fmt.Fprintf(p.debugW, "# reduce by production %v: %v (rhs size %v)\n", prodNum, p.gram.NonTerminal(lhs), rhsLen)
}

func (p *Parser) dumpStack() {
	if p.debugW == nil {
		return
	}
	fmt.Fprintf(p.debugW, "# stack:")
	for i := 0; i < p.stack.size(); i++ {
		fmt.Fprintf(p.debugW, " %v", p.stack.elementAt(i).State)
	}
	fmt.Fprintf(p.debugW, "\n")
}
