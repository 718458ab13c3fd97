package driver

import "testing"

func TestVirtualStack(t *testing.T) {
	real := newParseStack()
	states := []int{0, 2, 4}
	for _, st := range states {
		real.push(&Symbol{State: st})
	}

	vs := newVirtualStack(real)
	if vs.empty() {
		t.Fatalf("the virtual stack must shadow the real top")
	}
	if vs.top() != 4 {
		t.Fatalf("unexpected top: want: %v, got: %v", 4, vs.top())
	}

	vs.push(7)
	if vs.top() != 7 {
		t.Fatalf("unexpected top after push: want: %v, got: %v", 7, vs.top())
	}

	// Popping through the shadow must pull the lower real entries one at a
	// time.
	vs.pop()
	vs.pop()
	if vs.top() != 2 {
		t.Fatalf("unexpected top after popping into the real portion: want: %v, got: %v", 2, vs.top())
	}
	vs.pop()
	if vs.top() != 0 {
		t.Fatalf("unexpected top: want: %v, got: %v", 0, vs.top())
	}
	vs.pop()
	if !vs.empty() {
		t.Fatalf("the virtual stack must be empty once the real stack is exhausted")
	}

	// The real stack is never mutated through the virtual one.
	if real.size() != 3 {
		t.Fatalf("the real stack must be unchanged: want size %v, got %v", 3, real.size())
	}
	for i, st := range states {
		if real.elementAt(i).State != st {
			t.Fatalf("the real stack must be unchanged: element %v has state %v", i, real.elementAt(i).State)
		}
	}
}
