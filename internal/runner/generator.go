package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"olist-benchmark/internal/database"
	"olist-benchmark/internal/workloads/olist"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownQuery    = olist.ErrUnknownQuery
)

// Recorder observes trials as workers complete them.
type Recorder interface {
	TrialCompleted(query string, threads int, durationMs float64, success bool)
	ConnectionFailed(query string, threads int)
	RunCompleted(query string, threads int, rep *database.AggregateReport)
}

type nopRecorder struct{}

func (nopRecorder) TrialCompleted(string, int, float64, bool)           {}
func (nopRecorder) ConnectionFailed(string, int)                        {}
func (nopRecorder) RunCompleted(string, int, *database.AggregateReport) {}

// TestRun holds everything one (query, thread count) run produced. A new
// TestRun is created for every call, so nothing carries over between runs.
type TestRun struct {
	ID          uuid.UUID
	QueryName   string
	ThreadCount int
	Iterations  int
	StartedAt   time.Time
	WallTime    time.Duration
	Results     []database.TrialResult
	Errors      []database.ErrorRecord
}

// workerBuffer is owned by exactly one worker until the join.
type workerBuffer struct {
	results []database.TrialResult
	errors  []database.ErrorRecord
}

type Generator struct {
	driver   database.DatabaseDriver
	logger   zerolog.Logger
	recorder Recorder
}

type Option func(*Generator)

func WithRecorder(r Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

func NewGenerator(driver database.DatabaseDriver, logger zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{
		driver:   driver,
		logger:   logger,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RunConcurrencyTest runs queryName iterations times from each of
// threadCount workers, every worker on its own connection, and blocks until
// all of them are done. The report is nil when no trial succeeded.
func (g *Generator) RunConcurrencyTest(ctx context.Context, threadCount int, queryName string, iterations int) (*TestRun, *database.AggregateReport, error) {
	if threadCount < 1 {
		return nil, nil, fmt.Errorf("%w: thread count %d must be at least 1", ErrInvalidArgument, threadCount)
	}
	if iterations < 1 {
		return nil, nil, fmt.Errorf("%w: iterations %d must be at least 1", ErrInvalidArgument, iterations)
	}
	query, err := olist.Lookup(queryName)
	if err != nil {
		return nil, nil, err
	}

	run := &TestRun{
		ID:          uuid.New(),
		QueryName:   queryName,
		ThreadCount: threadCount,
		Iterations:  iterations,
	}
	logger := g.logger.With().
		Str("run_id", run.ID.String()).
		Str("query", queryName).
		Int("threads", threadCount).
		Logger()

	logger.Debug().Int("iterations", iterations).Msg("starting workers")

	buffers := make([]workerBuffer, threadCount)
	var wg sync.WaitGroup

	run.StartedAt = time.Now()
	for i := 0; i < threadCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			g.work(ctx, logger, id, query, iterations, threadCount, &buffers[id])
		}(i)
	}
	wg.Wait()
	run.WallTime = time.Since(run.StartedAt)

	for _, buf := range buffers {
		run.Results = append(run.Results, buf.results...)
		run.Errors = append(run.Errors, buf.errors...)
	}

	rep := Aggregate(run)
	g.recorder.RunCompleted(queryName, threadCount, rep)

	logger.Debug().
		Dur("wall_time", run.WallTime).
		Int("trials", len(run.Results)).
		Int("errors", len(run.Errors)).
		Msg("workers joined")

	return run, rep, nil
}

func (g *Generator) work(ctx context.Context, logger zerolog.Logger, id int, query olist.QuerySpec, iterations, threads int, buf *workerBuffer) {
	conn, err := g.driver.Connect(ctx)
	if err != nil {
		buf.errors = append(buf.errors, database.ErrorRecord{
			WorkerID: id,
			Kind:     database.ConnectionError,
			Message:  err.Error(),
		})
		g.recorder.ConnectionFailed(query.Name, threads)
		logger.Warn().Err(err).Int("worker", id).Msg("worker could not connect")
		return
	}
	defer func() {
		if err := conn.Close(ctx); err != nil {
			logger.Debug().Err(err).Int("worker", id).Msg("close connection")
		}
	}()

	buf.results = make([]database.TrialResult, 0, iterations)
	for i := 1; i <= iterations; i++ {
		start := time.Now()
		rows, err := conn.Query(ctx, query.SQL)
		elapsed := time.Since(start)

		if err != nil {
			buf.errors = append(buf.errors, database.ErrorRecord{
				WorkerID:  id,
				QueryName: query.Name,
				Kind:      database.QueryError,
				Message:   err.Error(),
			})
			buf.results = append(buf.results, database.TrialResult{
				WorkerID:  id,
				QueryName: query.Name,
				Iteration: i,
			})
			g.recorder.TrialCompleted(query.Name, threads, 0, false)
			continue
		}

		ms := toMillis(elapsed)
		buf.results = append(buf.results, database.TrialResult{
			WorkerID:   id,
			QueryName:  query.Name,
			Iteration:  i,
			DurationMs: ms,
			RowCount:   rows,
			Success:    true,
		})
		g.recorder.TrialCompleted(query.Name, threads, ms, true)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
