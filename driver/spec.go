package driver

import "github.com/kinari9/urubu/spec"

// Grammar is the capability set a generated grammar supplies to the driver:
// the parsing tables and the distinguished symbols and productions.
type Grammar interface {
	// InitialState returns the start state of the viable-prefix automaton.
	InitialState() int

	// StartProduction returns the production whose reduction accepts the
	// input.
	StartProduction() int

	// EOF returns the id of the end-of-file terminal.
	EOF() int

	// Error returns the id of the error terminal used in recovery.
	Error() int

	// Action returns the encoded parse action for a state and a terminal:
	// v > 0 is a shift to state v-1, v < 0 is a reduce by production -v-1,
	// and 0 is an error entry.
	Action(state int, terminal int) int

	// GoTo returns the state entered after reducing to the non-terminal lhs
	// with state on top of the stack, or -1 when the table has no entry.
	GoTo(state int, lhs int) int

	// Production returns the left-hand-side symbol and the right-hand-side
	// length of a production.
	Production(prod int) (lhs int, rhsLen int)

	// ExpectedTerminals returns the terminals the action row of a state has
	// explicit non-error (non-zero) entries for, excluding the error terminal.
	ExpectedTerminals(state int) []int

	Terminal(terminal int) string
	TerminalAlias(terminal int) string
	NonTerminal(nonTerminal int) string
}

// Action rows shorter than this many pairs are scanned linearly; longer rows
// are binary searched.
const linearSearchMaxPairs = 20

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) InitialState() int {
	return g.g.ParsingTable.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.ParsingTable.StartProduction
}

func (g *grammarImpl) EOF() int {
	return g.g.ParsingTable.EOFSymbol
}

func (g *grammarImpl) Error() int {
	return g.g.ParsingTable.ErrorSymbol
}

func (g *grammarImpl) Action(state int, terminal int) int {
	return searchRow(g.g.ParsingTable.Action[state], terminal)
}

func (g *grammarImpl) GoTo(state int, lhs int) int {
	// GoTo rows tend to be very short, so a linear scan is always enough.
	row := g.g.ParsingTable.GoTo[state]
	for i := 0; i < len(row)-2; i += 2 {
		if row[i] == lhs {
			return row[i+1]
		}
	}
	return row[len(row)-1]
}

func (g *grammarImpl) Production(prod int) (int, int) {
	return g.g.ParsingTable.LHSSymbols[prod], g.g.ParsingTable.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) ExpectedTerminals(state int) []int {
	row := g.g.ParsingTable.Action[state]
	terms := []int{}
	for i := 0; i < len(row)-2; i += 2 {
		if row[i] == g.g.ParsingTable.ErrorSymbol {
			continue
		}
		if row[i+1] == 0 {
			continue
		}
		terms = append(terms, row[i])
	}
	return terms
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.ParsingTable.Terminals[terminal]
}

func (g *grammarImpl) TerminalAlias(terminal int) string {
	if g.g.LexicalSpecification == nil || g.g.LexicalSpecification.Maleeni == nil {
		return ""
	}
	return g.g.LexicalSpecification.Maleeni.KindAliases[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.ParsingTable.NonTerminals[nonTerminal]
}

// searchRow looks a key up in a compact row. The row is key/value pairs laid
// out flat with keys ascending, terminated by a default pair keyed -1. The
// default value is returned exactly when the key has no explicit entry.
func searchRow(row []int, key int) int {
	pairs := len(row)/2 - 1
	if pairs < linearSearchMaxPairs {
		for i := 0; i < pairs*2; i += 2 {
			if row[i] == key {
				return row[i+1]
			}
		}
		return row[len(row)-1]
	}

	lo, hi := 0, pairs-1
	for lo <= hi {
		mid := (lo + hi) / 2
		k := row[mid*2]
		switch {
		case k == key:
			return row[mid*2+1]
		case k < key:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return row[len(row)-1]
}
