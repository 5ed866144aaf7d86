package vm

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ParallelConfig holds configuration for parallel execution.
type ParallelConfig struct {
	// NumWorkers is the number of parallel worker goroutines.
	// Default: runtime.NumCPU()
	NumWorkers int

	// ChunkSize is the approximate size in bytes of each input chunk.
	// Chunks are extended to the next line boundary.
	// Default: 1MB
	ChunkSize int

	// MaxBufferedChunks limits memory usage by blocking when too many
	// chunks are waiting to be processed or written.
	// Default: NumWorkers * 2
	MaxBufferedChunks int
}

const defaultChunkSize = 1024 * 1024

// DefaultParallelConfig returns sensible defaults for parallel execution.
func DefaultParallelConfig() ParallelConfig {
	numCPU := runtime.NumCPU()
	return ParallelConfig{
		NumWorkers:        numCPU,
		ChunkSize:         defaultChunkSize,
		MaxBufferedChunks: numCPU * 2,
	}
}

// ParallelExecutor shards input across workers and writes results in
// input order, so its output is identical to a sequential run.
type ParallelExecutor struct {
	exec   *Executor
	config ParallelConfig
}

// inputChunk is a run of whole lines.
type inputChunk struct {
	ID        int
	Data      []byte
	StartLine int   // 1-based number of the first line in Data
	Err       error // Read error after Data, reported in order
}

// chunkResult is the output of one chunk.
type chunkResult struct {
	ID     int
	Output []byte
	Stats  Stats
	Skips  []*LineError
	Err    error
}

// NewParallelExecutor creates a parallel executor running exec's plans.
func NewParallelExecutor(exec *Executor, config ParallelConfig) *ParallelExecutor {
	defaults := DefaultParallelConfig()
	if config.NumWorkers <= 0 {
		config.NumWorkers = defaults.NumWorkers
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = defaults.ChunkSize
	}
	if config.MaxBufferedChunks <= 0 {
		config.MaxBufferedChunks = config.NumWorkers * 2
	}
	return &ParallelExecutor{exec: exec, config: config}
}

// Run processes input in parallel and writes ordered output.
// The first error in input order stops the run; output for every
// line before it has been written. On an early stop, a Read still
// blocked on input finishes in the background after Run returns.
func (pe *ParallelExecutor) Run(ctx context.Context, input io.Reader, output io.Writer) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	g, ctx := errgroup.WithContext(ctx)
	chunks := make(chan inputChunk, pe.config.MaxBufferedChunks)
	results := make(chan chunkResult, pe.config.MaxBufferedChunks)

	// The reader stays outside the group so that a Read blocked on a
	// slow stream cannot hold up an abort. It exits at its next send
	// once ctx is done.
	go func() {
		defer close(chunks)
		pe.readChunks(ctx, input, chunks)
	}()

	var workers sync.WaitGroup
	for i := 0; i < pe.config.NumWorkers; i++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			return pe.worker(ctx, chunks, results)
		})
	}
	g.Go(func() error {
		workers.Wait()
		close(results)
		return nil
	})

	var stats Stats
	g.Go(func() error {
		return pe.collectResults(ctx, results, output, &stats)
	})

	err := g.Wait()
	return stats, err
}

// readChunks reads input and cuts it into chunks at line boundaries.
// A read error travels as the last chunk so that it is reported after
// the lines read before it.
func (pe *ParallelExecutor) readChunks(ctx context.Context, input io.Reader, chunks chan<- inputChunk) {
	reader := bufio.NewReaderSize(input, initialLineBuffer)
	chunkID := 0
	nextLine := 1

	for {
		data := make([]byte, pe.config.ChunkSize)
		n, err := io.ReadFull(reader, data)
		data = data[:n]

		switch {
		case err == nil:
			// Extend to the end of the current line.
			var rest []byte
			rest, err = reader.ReadBytes('\n')
			data = append(data, rest...)
		case errors.Is(err, io.ErrUnexpectedEOF):
			err = io.EOF
		}

		chunk := inputChunk{ID: chunkID, Data: data, StartLine: nextLine}
		if err != nil && !errors.Is(err, io.EOF) {
			chunk.Err = err
		}

		if len(chunk.Data) > 0 || chunk.Err != nil {
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return
			}
			chunkID++
			nextLine += bytes.Count(data, []byte{'\n'})
		}

		if err != nil {
			return
		}
	}
}

// worker processes chunks with its own Machine.
func (pe *ParallelExecutor) worker(ctx context.Context, chunks <-chan inputChunk, results chan<- chunkResult) error {
	m := New(pe.exec.config.Machine)
	for {
		var chunk inputChunk
		select {
		case c, ok := <-chunks:
			if !ok {
				return nil
			}
			chunk = c
		case <-ctx.Done():
			return ctx.Err()
		}

		result := pe.processChunk(m, chunk)
		select {
		case results <- result:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (pe *ParallelExecutor) processChunk(m *Machine, chunk inputChunk) chunkResult {
	result := chunkResult{ID: chunk.ID}
	out := make([]byte, 0, len(chunk.Data))

	scanner := newLineScanner(bytes.NewReader(chunk.Data))
	lineNum := chunk.StartLine
	for scanner.Scan() {
		var (
			skips []*LineError
			err   error
		)
		out, skips, err = pe.exec.processLine(m, lineNum, scanner.Text(), out, &result.Stats)
		result.Skips = append(result.Skips, skips...)
		if err != nil {
			result.Output = out
			result.Err = err
			return result
		}
		lineNum++
	}

	result.Output = out
	if err := scanner.Err(); err != nil {
		result.Err = &ReadError{Line: lineNum - 1, Err: err}
	} else if chunk.Err != nil {
		result.Err = &ReadError{Line: lineNum - 1, Err: chunk.Err}
	}
	return result
}

// collectResults writes chunk outputs strictly in chunk order.
func (pe *ParallelExecutor) collectResults(ctx context.Context, results <-chan chunkResult, output io.Writer, stats *Stats) error {
	pending := make(map[int]chunkResult)
	next := 0

	for result := range results {
		pending[result.ID] = result
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			stats.add(r.Stats)
			pe.exec.logSkips(r.Skips)
			if len(r.Output) > 0 {
				if _, err := output.Write(r.Output); err != nil {
					return err
				}
			}
			if r.Err != nil {
				return r.Err
			}
		}
	}

	if len(pending) > 0 {
		// Only reachable when a worker stopped early on cancellation.
		return ctx.Err()
	}
	return nil
}
