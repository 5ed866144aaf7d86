package fex

import (
	"sync"

	"github.com/kolkov/fex/internal/plan"
	"github.com/kolkov/fex/internal/vm"
)

// Program represents a compiled pattern.
// It is safe for concurrent use; each Apply call borrows its own
// interpreter from a pool.
type Program struct {
	plan     *plan.Plan
	machines sync.Pool
}

func newProgram(p *plan.Plan, config vm.Config) *Program {
	prog := &Program{plan: p}
	prog.machines.New = func() any {
		return vm.New(config)
	}
	return prog
}

// Apply runs the program against one line and returns the extracted
// output, without a trailing newline. The line should not contain '\n'.
//
// An out-of-range selection returns a *RuntimeError with Kind
// IndexOutOfRange and Line 0.
func (p *Program) Apply(line string) (string, error) {
	m := p.machines.Get().(*vm.Machine)
	defer p.machines.Put(m)

	out, err := m.Exec(p.plan, line)
	if err != nil {
		err = convertRuntimeError(err)
		if re, ok := err.(*RuntimeError); ok {
			re.Pattern = p.plan.Source
		}
		return "", err
	}
	return out, nil
}

// Source returns the original pattern.
func (p *Program) Source() string {
	return p.plan.Source
}

// Disassemble returns a human-readable listing of the compiled steps.
// Useful for debugging and understanding how a pattern is read.
func (p *Program) Disassemble() string {
	return p.plan.Disassemble()
}
