package driver

// Symbol is the unit the parser moves around: a terminal produced by the
// token stream or a non-terminal produced by an action executor. State is the
// LR state the symbol carries while it sits on the parse stack and is
// meaningless elsewhere. Value is an opaque semantic value owned by the
// symbol.
//
// A symbol is owned by exactly one holder at a time: the token stream hands
// ownership to the parser, the parser hands the symbols of a reduced handle to
// the action executor, and everything the parser still owns when Parse returns
// goes through the disposal hook exactly once, except the start-state sentinel
// that an accepted parse leaves on the stack.
type Symbol struct {
	ID    int
	State int
	Value interface{}
}
