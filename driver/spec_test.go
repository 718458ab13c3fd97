package driver

import (
	"fmt"
	"testing"

	"github.com/kinari9/urubu/spec"
)

func TestSearchRow(t *testing.T) {
	shortRow := []int{2, -1, 3, 5, -1, 0}

	longRow := []int{}
	for k := 0; k < 25; k++ {
		longRow = append(longRow, k*2, k+100)
	}
	longRow = append(longRow, -1, -9)

	tests := []struct {
		caption string
		row     []int
		key     int
		value   int
	}{
		{
			caption: "a short row returns the value of an explicit key",
			row:     shortRow,
			key:     3,
			value:   5,
		},
		{
			caption: "a short row falls back to the default entry",
			row:     shortRow,
			key:     7,
			value:   0,
		},
		{
			caption: "a long row finds the first key",
			row:     longRow,
			key:     0,
			value:   100,
		},
		{
			caption: "a long row finds the last key",
			row:     longRow,
			key:     48,
			value:   124,
		},
		{
			caption: "a long row finds a middle key",
			row:     longRow,
			key:     24,
			value:   112,
		},
		{
			caption: "a long row falls back to the default entry for a key between explicit keys",
			row:     longRow,
			key:     25,
			value:   -9,
		},
		{
			caption: "a long row falls back to the default entry for a key past the end",
			row:     longRow,
			key:     100,
			value:   -9,
		},
		{
			caption: "a row holding only the default entry always returns it",
			row:     []int{-1, -3},
			key:     2,
			value:   -3,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			v := searchRow(tt.row, tt.key)
			if v != tt.value {
				t.Fatalf("unexpected value: want: %v, got: %v", tt.value, v)
			}
		})
	}
}

// The default row value must be returned exactly when the key has no explicit
// entry, on both search paths.
func TestSearchRow_DefaultIffAbsent(t *testing.T) {
	rows := [][]int{
		{1, 4, 3, 3, -1, 0},
	}
	longRow := []int{}
	for k := 0; k < 30; k++ {
		longRow = append(longRow, k*3, k+1)
	}
	longRow = append(longRow, -1, 0)
	rows = append(rows, longRow)

	for _, row := range rows {
		keys := map[int]int{}
		for i := 0; i < len(row)-2; i += 2 {
			keys[row[i]] = row[i+1]
		}
		def := row[len(row)-1]

		for key := -1; key < 120; key++ {
			want, explicit := keys[key]
			if !explicit {
				want = def
			}
			if got := searchRow(row, key); got != want {
				t.Fatalf("unexpected value for key %v: want: %v, got: %v", key, want, got)
			}
		}
	}
}

func TestGrammarImpl(t *testing.T) {
	g := NewGrammar(&spec.CompiledGrammar{
		ParsingTable: &spec.ParsingTable{
			Action: [][]int{
				{1, 4, 3, 3, -1, 0},
				{2, -1, -1, 0},
			},
			GoTo: [][]int{
				{1, 1, -1, -1},
				{-1, -1},
			},
			InitialState:            0,
			StartProduction:         0,
			LHSSymbols:              []int{0, 1},
			AlternativeSymbolCounts: []int{1, 2},
			Terminals:               []string{"", "error", "<eof>", "a", "b"},
			TerminalCount:           5,
			NonTerminals:            []string{"s'", "s"},
			NonTerminalCount:        2,
			EOFSymbol:               2,
			ErrorSymbol:             1,
		},
	})

	if act := g.Action(0, 3); act != 3 {
		t.Fatalf("unexpected action: want: %v, got: %v", 3, act)
	}
	if act := g.Action(0, 4); act != 0 {
		t.Fatalf("an absent key must yield the default entry: want: %v, got: %v", 0, act)
	}
	if next := g.GoTo(0, 1); next != 1 {
		t.Fatalf("unexpected goto: want: %v, got: %v", 1, next)
	}
	if next := g.GoTo(1, 1); next != -1 {
		t.Fatalf("a state without a goto entry must yield -1: got: %v", next)
	}
	lhs, rhsLen := g.Production(1)
	if lhs != 1 || rhsLen != 2 {
		t.Fatalf("unexpected production: want: (%v, %v), got: (%v, %v)", 1, 2, lhs, rhsLen)
	}

	terms := g.ExpectedTerminals(0)
	if len(terms) != 1 || terms[0] != 3 {
		t.Fatalf("expected terminals must list explicit keys except the error symbol: got: %v", terms)
	}
}
