package spec

import mlspec "github.com/nihei9/maleeni/spec"

type CompiledGrammar struct {
	Name                 string                `json:"name"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification"`
	ParsingTable         *ParsingTable         `json:"parsing_table"`
}

type LexicalSpecification struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	TerminalToKind []int                   `json:"terminal_to_kind"`
	Skip           []int                   `json:"skip"`
	KindAliases    []string                `json:"kind_aliases"`
}

// ParsingTable is the runtime form of a generated LR parsing table.
//
// Action and GoTo are stored as compact rows, one row per state. A row is a
// sequence of key/value pairs laid out flat ([k0, v0, k1, v1, ...]) with keys
// in ascending order, terminated by a default pair whose key is -1. Action
// rows are keyed by terminal id; an entry v > 0 means shift and go to state
// v-1, v < 0 means reduce by production -v-1, and 0 means error. GoTo rows are
// keyed by non-terminal id and hold the next state, with -1 meaning no entry.
//
// Parsing tables are very sparse, so the compact rows save an order of
// magnitude of memory over dense state x symbol arrays.
type ParsingTable struct {
	Action                  [][]int  `json:"action"`
	GoTo                    [][]int  `json:"goto"`
	StateCount              int      `json:"state_count"`
	InitialState            int      `json:"initial_state"`
	StartProduction         int      `json:"start_production"`
	LHSSymbols              []int    `json:"lhs_symbols"`
	AlternativeSymbolCounts []int    `json:"alternative_symbol_counts"`
	Terminals               []string `json:"terminals"`
	TerminalCount           int      `json:"terminal_count"`
	NonTerminals            []string `json:"non_terminals"`
	NonTerminalCount        int      `json:"non_terminal_count"`
	EOFSymbol               int      `json:"eof_symbol"`
	ErrorSymbol             int      `json:"error_symbol"`
}
