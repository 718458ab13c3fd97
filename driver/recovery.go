package driver

import "fmt"

type ersStatus int

const (
	ersFail ersStatus = iota
	ersSuccess
	ersAccept
)

// errorRecovery attempts to repair a syntax error in four steps. First the
// real stack is popped down to a state that can shift the error terminal, and
// a synthesized error symbol is shifted. Then up to errorSyncSize lookahead
// symbols are buffered, the offending token first. Then input symbols are
// discarded one at a time until a speculative parse over the buffer (on the
// virtual stack, with no actions) gets through cleanly. Finally the buffer is
// replayed against the real stack with real actions, and control returns to
// the normal parser.
func (p *Parser) errorRecovery() (ersStatus, error) {
	p.debugMessage("attempting error recovery")
	p.dumpStack()

	if !p.findRecoveryConfig() {
		p.debugMessage("error recovery fails")
		return ersFail, nil
	}

	if err := p.readLookahead(); err != nil {
		return ersFail, p.reportFatalError(err.Error(), nil)
	}

	for {
		p.debugMessage("trying to parse ahead")
		ok, err := p.tryParseAhead()
		if err != nil {
			return ersFail, err
		}
		if ok {
			break
		}

		// The parse-ahead failed; recovery cannot discard past EOF.
		if p.lookahead[0].ID == p.gram.EOF() {
			p.debugMessage("error recovery fails at EOF")
			return ersFail, nil
		}

		p.debugMessage("discarding the current input symbol")
		p.disposeOf(p.lookahead[0])
		p.lookahead[0] = nil
		if err := p.restartLookahead(); err != nil {
			return ersFail, p.reportFatalError(err.Error(), nil)
		}
	}

	p.debugMessage("parse-ahead ok, replaying buffered input")
	st, err := p.parseLookahead()
	if err != nil {
		return ersFail, err
	}
	if st == ersSuccess {
		p.lookaheadLen = 0
		p.lookaheadPos = 0

		tok, err := p.scan()
		if err != nil {
			return ersFail, p.reportFatalError(err.Error(), nil)
		}
		p.curTok = tok
		p.debugMessage("error recovery succeeds")
	}
	return st, nil
}

// findRecoveryConfig pops the real stack down to a state with a shift on the
// error terminal and performs that shift with a synthesized error symbol.
// Popped symbols go through the disposal hook. Returns false when the stack
// empties without finding such a state.
func (p *Parser) findRecoveryConfig() bool {
	p.debugMessage("finding recovery state on stack")
	for {
		act := p.gram.Action(p.stack.peek().State, p.gram.Error())
		if act > 0 {
			errSym := &Symbol{
				ID:    p.gram.Error(),
				State: act - 1,
			}
			p.stack.push(errSym)
			p.debugShift(errSym)
			return true
		}

		if p.debugW != nil {
			p.debugMessage(fmt.Sprintf("popping state %v", p.stack.peek().State))
		}
		p.disposeOf(p.stack.pop())
		if p.stack.empty() {
			return false
		}
	}
}

// readLookahead fills the lookahead buffer with the offending token followed
// by up to errorSyncSize-1 further symbols. EOF terminates the fill.
func (p *Parser) readLookahead() error {
	p.lookahead[0] = p.curTok
	p.curTok = nil
	p.lookaheadLen = 1
	p.lookaheadPos = 0

	for p.lookaheadLen < p.errorSyncSize && p.lookahead[p.lookaheadLen-1].ID != p.gram.EOF() {
		sym, err := p.scan()
		if err != nil {
			return err
		}
		p.lookahead[p.lookaheadLen] = sym
		p.lookaheadLen++
	}
	return nil
}

// curErrToken returns the symbol recovery is currently stuck on: the head of
// the lookahead buffer once it has been filled, the current token before
// that.
func (p *Parser) curErrToken() *Symbol {
	if p.lookaheadLen > 0 {
		return p.lookahead[0]
	}
	return p.curTok
}

// restartLookahead shifts the buffer down over the disposed head and reads
// one fresh symbol into the tail, unless the buffer already ends in EOF.
func (p *Parser) restartLookahead() error {
	for i := 1; i < p.lookaheadLen; i++ {
		p.lookahead[i-1] = p.lookahead[i]
	}
	p.lookahead[p.lookaheadLen-1] = nil
	p.lookaheadLen--

	if p.lookaheadLen == 0 || p.lookahead[p.lookaheadLen-1].ID != p.gram.EOF() {
		sym, err := p.scan()
		if err != nil {
			return err
		}
		p.lookahead[p.lookaheadLen] = sym
		p.lookaheadLen++
	}
	p.lookaheadPos = 0
	return nil
}

// tryParseAhead simulates the parse over the buffered symbols on a virtual
// stack. It performs no actions and allocates no symbols; the real stack is
// left untouched. It returns true when the whole buffer parses cleanly, when
// the start production reduces, or when the virtual stack runs out of context
// to simulate further (sufficient progress).
func (p *Parser) tryParseAhead() (bool, error) {
	vs := newVirtualStack(p.stack)
	pos := 0
	for {
		tok := p.lookahead[pos]
		act := p.gram.Action(vs.top(), tok.ID)
		switch {
		case act > 0: // Shift
			vs.push(act - 1)
			pos++
			if pos >= p.lookaheadLen {
				return true, nil
			}
		case act < 0: // Reduce
			prodNum := -act - 1
			if prodNum == p.gram.StartProduction() {
				return true, nil
			}

			lhs, rhsLen := p.gram.Production(prodNum)
			for i := 0; i < rhsLen; i++ {
				vs.pop()
			}
			if vs.empty() {
				return true, nil
			}
			next := p.gram.GoTo(vs.top(), lhs)
			if next < 0 {
				return false, p.reportFatalError(fmt.Sprintf("no goto entry for state %v and symbol %v", vs.top(), p.gram.NonTerminal(lhs)), nil)
			}
			vs.push(next)
		default: // Error
			return false, nil
		}
	}
}

// parseLookahead replays the buffered symbols against the real stack,
// performing real shifts, reductions, and actions. The parse-ahead has
// already validated the buffer, so an error entry here is an internal fault.
func (p *Parser) parseLookahead() (ersStatus, error) {
	p.lookaheadPos = 0
	for {
		tok := p.lookahead[p.lookaheadPos]
		act := p.gram.Action(p.stack.peek().State, tok.ID)
		switch {
		case act > 0: // Shift
			p.lookahead[p.lookaheadPos] = nil
			tok.State = act - 1
			p.stack.push(tok)
			p.debugShift(tok)

			p.lookaheadPos++
			if p.lookaheadPos >= p.lookaheadLen {
				return ersSuccess, nil
			}
		case act < 0: // Reduce
			prodNum := -act - 1

			sym, err := p.reduce(prodNum)
			if err != nil {
				return ersFail, err
			}

			if prodNum == p.gram.StartProduction() {
				p.result = sym
				return ersAccept, nil
			}

			next := p.gram.GoTo(p.stack.peek().State, sym.ID)
			if next < 0 {
				err := p.reportFatalError(fmt.Sprintf("no goto entry for state %v and symbol %v", p.stack.peek().State, p.gram.NonTerminal(sym.ID)), sym)
				p.disposeOf(sym)
				return ersFail, err
			}
			sym.State = next
			p.stack.push(sym)
		default: // Error
			return ersFail, p.reportFatalError("error during replay of checked lookahead input", tok)
		}
	}
}
