package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/triago/internal/model"
)

// Triager defines the interface for running one scenario note
type Triager interface {
	Triage(ctx context.Context, note string) (*model.Report, error)
}

// TriageJob represents one scenario note to process
type TriageJob struct {
	Note     string
	Triager  Triager
	Limiter  *Limiter
	Provider string // Rate-limit key (LLM provider name, or "local")
}

// Execute executes the triage job
func (j *TriageJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Provider); err != nil {
			return &TriageResult{Note: j.Note, Error: err}
		}
	}

	report, err := j.Triager.Triage(ctx, j.Note)
	if err != nil {
		return &TriageResult{Note: j.Note, Error: err}
	}
	return &TriageResult{Note: j.Note, Report: report}
}

// TriageResult represents the result of a triage job
type TriageResult struct {
	Note   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the triage result
func (r *TriageResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple scenario notes concurrently
type BatchProcessor struct {
	triager     Triager
	concurrency int
	limiter     *Limiter
	provider    string
}

// NewBatchProcessor creates a new batch processor. The provider name
// keys the rate limiter; pass "local" when no LLM is involved.
func NewBatchProcessor(triager Triager, concurrency int, provider string, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}

	return &BatchProcessor{
		triager:     triager,
		concurrency: concurrency,
		limiter:     limiter,
		provider:    provider,
	}
}

// ProcessNotes processes multiple notes concurrently
func (b *BatchProcessor) ProcessNotes(ctx context.Context, notes []string) []*TriageResult {
	if len(notes) == 0 {
		return []*TriageResult{}
	}

	// Create worker pool
	pool := NewPool(b.concurrency)
	pool.Start()

	// Submit jobs
	for _, note := range notes {
		job := &TriageJob{
			Note:     note,
			Triager:  b.triager,
			Limiter:  b.limiter,
			Provider: b.provider,
		}
		pool.Submit(job)
	}

	// Wait for all jobs to complete
	results := pool.Wait()

	// Convert to TriageResults
	triageResults := make([]*TriageResult, len(results))
	for i, result := range results {
		triageResults[i] = result.(*TriageResult)
	}

	return triageResults
}

// ProcessFile reads notes from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*TriageResult, error) {
	notes, err := ReadNotesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}

	return b.ProcessNotes(ctx, notes), nil
}

// ReadNotesFromFile reads scenario notes from a file (one per line)
func ReadNotesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var notes []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // Notes can be long
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate notes
		if !seen[line] {
			seen[line] = true
			notes = append(notes, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return notes, nil
}
