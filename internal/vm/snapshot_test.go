package vm

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestMain lets go-snaps prune obsolete snapshots once every test in this
// package has run.
func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	_ = v
}

// programs is a small fixture set exercising print output end to end
// through Compile+Register+Eval.
var programs = map[string]string{
	"print_literal": `print("hello, kya")`,
	"print_arith":   `print(1 + 2 * 3)`,
	"print_loop": `i = 0
while i < 3
 print(i)
 i = i + 1
end`,
	"print_class": `class Greeter
def init(name)
 self.name = name
end
def greet()
 print("hello, " + self.name)
end
end
g = Greeter("world")
g.greet()`,
}

// TestProgramOutputSnapshots runs each fixture program and snapshots its
// captured stdout with go-snaps.
func TestProgramOutputSnapshots(t *testing.T) {
	for name, src := range programs {
		t.Run(name, func(t *testing.T) {
			_, out, err := run(t, src)
			if err != nil {
				t.Fatalf("unexpected error running %s: %v", name, err)
			}
			snaps.MatchSnapshot(t, out)
		})
	}
}
