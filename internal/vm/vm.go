// Package vm executes compiled fex plans against input lines.
package vm

import (
	"fmt"
	"strings"

	"github.com/kolkov/fex/internal/plan"
	"github.com/kolkov/fex/internal/token"
)

// Buffers that grew past the max capacity on a pathological line are
// dropped back to the base capacity so one long line does not pin
// memory for the rest of the run.
const (
	baseFieldCapacity = 32
	maxFieldCapacity  = 4096
)

// RegexMode selects what a SelectRegex step does.
type RegexMode uint8

const (
	// RegexInert leaves fields untouched (the historical behaviour).
	RegexInert RegexMode = iota

	// RegexFilter keeps only the fields that contain a match.
	RegexFilter
)

// String returns the mode name as used in configuration.
func (m RegexMode) String() string {
	switch m {
	case RegexInert:
		return "inert"
	case RegexFilter:
		return "filter"
	}
	return fmt.Sprintf("RegexMode(%d)", uint8(m))
}

// ParseRegexMode parses "inert" or "filter". The empty string is inert.
func ParseRegexMode(s string) (RegexMode, error) {
	switch strings.ToLower(s) {
	case "", "inert":
		return RegexInert, nil
	case "filter":
		return RegexFilter, nil
	}
	return 0, fmt.Errorf("unknown regex mode %q (want inert or filter)", s)
}

// Config controls plan execution.
type Config struct {
	// RegexMode selects SelectRegex behaviour.
	RegexMode RegexMode

	// OFS joins the final fields of a line. Empty means a single space.
	OFS string
}

// Machine executes plans one line at a time. It reuses its field
// buffers between calls and must not be shared between goroutines.
type Machine struct {
	config Config
	ofs    string

	fields []string // Current decomposition of the line
	spare  []string // Scratch buffer, swapped with fields
	sep    string   // Active separator
	join   strings.Builder
}

// New creates a Machine.
func New(config Config) *Machine {
	ofs := config.OFS
	if ofs == "" {
		ofs = string(token.DefaultSeparator)
	}
	return &Machine{
		config: config,
		ofs:    ofs,
		fields: make([]string, 0, baseFieldCapacity),
		spare:  make([]string, 0, baseFieldCapacity),
	}
}

// Exec runs p against line and returns the output line (without
// a trailing newline).
func (m *Machine) Exec(p *plan.Plan, line string) (string, error) {
	fields, err := m.Fields(p, line)
	if err != nil {
		return "", err
	}
	if len(fields) == 1 {
		return fields[0], nil
	}
	return strings.Join(fields, m.ofs), nil
}

// Fields runs p against line and returns the resulting fields.
// The slice is owned by the Machine and valid until the next call.
func (m *Machine) Fields(p *plan.Plan, line string) ([]string, error) {
	m.reset()
	m.fields = append(m.fields, line)

	for i := range p.Steps {
		step := &p.Steps[i]
		switch step.Kind {
		case plan.Split:
			m.split(step.Sep)
		case plan.Select:
			if err := m.selectRanges(step); err != nil {
				return nil, err
			}
		case plan.SelectRegex:
			if m.config.RegexMode == RegexFilter {
				m.filter(step)
			}
		case plan.End:
			return m.fields, nil
		default:
			return nil, fmt.Errorf("unknown step kind %v", step.Kind)
		}
	}
	return m.fields, nil
}

func (m *Machine) reset() {
	if cap(m.fields) > maxFieldCapacity {
		m.fields = make([]string, 0, baseFieldCapacity)
	}
	if cap(m.spare) > maxFieldCapacity {
		m.spare = make([]string, 0, baseFieldCapacity)
	}
	m.fields = m.fields[:0]
	m.sep = string(token.DefaultSeparator)
}

// swap makes out the current fields.
func (m *Machine) swap(out []string) {
	m.spare = m.fields[:0]
	m.fields = out
}

// split re-tokenizes every field on sep, keeping empty fields.
func (m *Machine) split(sep string) {
	out := m.spare[:0]
	for _, f := range m.fields {
		for {
			before, after, found := strings.Cut(f, sep)
			out = append(out, before)
			if !found {
				break
			}
			f = after
		}
	}
	m.swap(out)
	m.sep = sep
}

// selectRanges collapses the fields covered by the step's ranges into
// a single field joined with the active separator.
func (m *Machine) selectRanges(step *plan.Step) error {
	n := len(m.fields)
	for _, r := range step.Ranges {
		if r.Start < 0 || r.End > n-1 {
			return &IndexOutOfRangeError{Range: r, Fields: n, Pos: step.Pos}
		}
	}

	var joined string
	if len(step.Ranges) == 1 && step.Ranges[0].Len() == 1 {
		joined = m.fields[step.Ranges[0].Start]
	} else {
		m.join.Reset()
		first := true
		for _, r := range step.Ranges {
			for _, f := range m.fields[r.Start : r.End+1] {
				if !first {
					m.join.WriteString(m.sep)
				}
				m.join.WriteString(f)
				first = false
			}
		}
		joined = m.join.String()
	}

	m.swap(append(m.spare[:0], joined))
	return nil
}

// filter keeps the fields matching the step's regex, in order.
func (m *Machine) filter(step *plan.Step) {
	out := m.spare[:0]
	for _, f := range m.fields {
		if step.Regex.MatchString(f) {
			out = append(out, f)
		}
	}
	m.swap(out)
}
