package vm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// makeInput builds n lines of 1..6 fields.
func makeInput(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fields := i%6 + 1
		for f := 0; f < fields; f++ {
			if f > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "l%d,f%d:x", i, f)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func runBoth(t *testing.T, config ExecConfig, input string, patterns ...string) (seq, par string, seqStats, parStats Stats, seqErr, parErr error) {
	t.Helper()
	plans := compilePatterns(t, patterns...)

	var seqOut, parOut bytes.Buffer
	seqStats, seqErr = NewExecutor(plans, config).Run(context.Background(), strings.NewReader(input), &seqOut)

	config.Workers = 4
	config.ChunkSize = 64
	parStats, parErr = NewExecutor(plans, config).Run(context.Background(), strings.NewReader(input), &parOut)
	return seqOut.String(), parOut.String(), seqStats, parStats, seqErr, parErr
}

func TestParallelMatchesSequential(t *testing.T) {
	input := makeInput(500)
	seq, par, seqStats, parStats, seqErr, parErr := runBoth(t, ExecConfig{}, input, "1", "1,2", ",2:1")
	if seqErr != nil || parErr != nil {
		t.Fatalf("errors: sequential %v, parallel %v", seqErr, parErr)
	}
	if diff := cmp.Diff(seq, par); diff != "" {
		t.Errorf("parallel output differs (-seq +par):\n%s", diff)
	}
	if seqStats != parStats {
		t.Errorf("stats differ: sequential %+v, parallel %+v", seqStats, parStats)
	}
}

func TestParallelStrictStopsAtFirstError(t *testing.T) {
	lines := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		lines = append(lines, "a b c d e")
	}
	lines[217] = "a b"
	lines[250] = "a"
	input := strings.Join(lines, "\n") + "\n"

	seq, par, _, _, seqErr, parErr := runBoth(t, ExecConfig{}, input, "1", "{5}")

	var seqLine, parLine *LineError
	if !errors.As(seqErr, &seqLine) || !errors.As(parErr, &parLine) {
		t.Fatalf("errors: sequential %v, parallel %v", seqErr, parErr)
	}
	if seqLine.Line != 218 || parLine.Line != 218 {
		t.Errorf("failing line: sequential %d, parallel %d, want 218", seqLine.Line, parLine.Line)
	}
	if diff := cmp.Diff(seq, par); diff != "" {
		t.Errorf("output before the error differs (-seq +par):\n%s", diff)
	}
}

func TestParallelSkipMatchesSequential(t *testing.T) {
	input := makeInput(300)
	seq, par, seqStats, parStats, seqErr, parErr := runBoth(t, ExecConfig{ErrorMode: ErrorModeSkip}, input, "{2:3}", "1")
	if seqErr != nil || parErr != nil {
		t.Fatalf("errors: sequential %v, parallel %v", seqErr, parErr)
	}
	if seq != par {
		t.Error("parallel output differs from sequential in skip mode")
	}
	if seqStats.Skipped == 0 || seqStats != parStats {
		t.Errorf("stats: sequential %+v, parallel %+v", seqStats, parStats)
	}
}

func TestParallelLongLines(t *testing.T) {
	// Lines longer than a chunk must never be cut in half.
	long := strings.Repeat("x", 1000)
	input := "a " + long + "\nb " + long + "\nc\n"
	seq, par, _, _, seqErr, parErr := runBoth(t, ExecConfig{}, input, "1")
	if seqErr != nil || parErr != nil {
		t.Fatalf("errors: sequential %v, parallel %v", seqErr, parErr)
	}
	if par != "a\nb\nc\n" || seq != par {
		t.Errorf("parallel = %q, sequential = %q", par, seq)
	}
}

func TestParallelReadErrorIsOrdered(t *testing.T) {
	boom := errors.New("read failed")
	plans := compilePatterns(t, "1")
	var out bytes.Buffer
	e := NewExecutor(plans, ExecConfig{Workers: 3, ChunkSize: 4})
	_, err := e.Run(context.Background(), &failingReader{data: "a\nb\nc\n", err: boom}, &out)

	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if out.String() != "a\nb\nc\n" {
		t.Errorf("output = %q, want every line read before the error", out.String())
	}
}

func TestParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExecutor(compilePatterns(t, "1"), ExecConfig{Workers: 2})
	_, err := e.Run(ctx, strings.NewReader(makeInput(100)), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestNewParallelExecutorDefaults(t *testing.T) {
	pe := NewParallelExecutor(NewExecutor(nil, ExecConfig{}), ParallelConfig{})
	want := DefaultParallelConfig()
	if pe.config != want {
		t.Errorf("config = %+v, want %+v", pe.config, want)
	}

	pe = NewParallelExecutor(NewExecutor(nil, ExecConfig{}), ParallelConfig{NumWorkers: 3, ChunkSize: 10})
	if pe.config.NumWorkers != 3 || pe.config.ChunkSize != 10 || pe.config.MaxBufferedChunks != 6 {
		t.Errorf("config = %+v", pe.config)
	}
}

func TestParallelStrictDoesNotWaitForInput(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	// The first chunk fails; after it the stream stays open with no data.
	go pw.Write([]byte("x\nyy\n"))

	done := make(chan error, 1)
	go func() {
		e := NewExecutor(compilePatterns(t, "{2}"), ExecConfig{Workers: 2, ChunkSize: 4})
		_, err := e.Run(context.Background(), pr, io.Discard)
		done <- err
	}()

	select {
	case err := <-done:
		var lineErr *LineError
		if !errors.As(err, &lineErr) || lineErr.Line != 1 {
			t.Errorf("Run() error = %v, want LineError at line 1", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() blocked on the open input after a strict error")
	}
}
