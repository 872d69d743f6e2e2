package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/bookstore-client/internal/config"
	"github.com/Adda-Baaj/bookstore-client/internal/logger"
	"github.com/Adda-Baaj/bookstore-client/pkg/bookstore"
	"github.com/Adda-Baaj/bookstore-client/pkg/httpclient"
	"github.com/Adda-Baaj/bookstore-client/pkg/runbook"
	"github.com/Adda-Baaj/bookstore-client/pkg/sinks"
)

// Runner executes a runbook against the bookstore and forwards every outcome to the sinks.
type Runner struct {
	cfg     *config.Config
	client  *bookstore.Client
	runbook runbook.Runbook
	fanout  *sinks.Fanout
	log     logger.Logger
}

// Summary counts outcomes of one run by kind.
type Summary struct {
	Executed int            `json:"executed"`
	Skipped  int            `json:"skipped"`
	ByKind   map[string]int `json:"by_kind"`
	Elapsed  time.Duration  `json:"-"`
}

// NewRunner builds a runner from config files.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := bookstore.New(cfg.BaseURL,
		bookstore.WithHTTPClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		bookstore.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create bookstore client: %w", err)
	}

	rb, err := runbook.Load(cfg.RunbookFile)
	if err != nil {
		return nil, fmt.Errorf("load runbook: %w", err)
	}
	log.InfoObj("runbook loaded", "runbook", map[string]any{
		"file":  cfg.RunbookFile,
		"steps": len(rb.Steps),
	})

	fanout, err := buildFanout(ctx, cfg.SinksFile, log)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:     cfg,
		client:  client,
		runbook: rb,
		fanout:  fanout,
		log:     log,
	}, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*sinks.Fanout, error) {
	if path == "" {
		log.InfoObj("no sinks file configured; outcomes are only logged", "sinks_file", path)
		return sinks.NewFanout(nil), nil
	}

	sinkReg, err := sinks.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	enabled := sinkReg.Enabled()
	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	log.InfoObj("sinks registry loaded", "sinks", enabled)
	return sinks.NewFanout(built), nil
}

// Run executes every step in order. Failed calls are reported and never stop the run;
// only cancellation of ctx does.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r == nil || r.client == nil {
		return Summary{}, fmt.Errorf("runner is not initialized")
	}

	start := time.Now()
	sum := Summary{ByKind: make(map[string]int)}

	r.log.InfoObj("runbook starting", "run_state", map[string]any{
		"base_url":    r.client.BaseURL(),
		"steps_count": len(r.runbook.Steps),
		"sinks_count": r.fanout.Size(),
	})

	for i, step := range r.runbook.Steps {
		if ctx.Err() != nil {
			sum.Skipped = len(r.runbook.Steps) - i
			r.log.WarnObj("runbook interrupted", "reason", ctx.Err().Error())
			break
		}

		outcome := r.execute(ctx, step)
		bookstore.Report(r.log, outcome)
		sum.Executed++
		sum.ByKind[outcome.Kind.String()]++

		r.publish(ctx, outcome)
	}

	sum.Elapsed = time.Since(start)
	r.log.InfoObj("runbook completed", "run_summary", map[string]any{
		"executed":   sum.Executed,
		"skipped":    sum.Skipped,
		"by_kind":    sum.ByKind,
		"elapsed_ms": sum.Elapsed.Milliseconds(),
	})
	return sum, nil
}

// Close releases sink connections.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	return r.fanout.Close()
}

func (r *Runner) execute(ctx context.Context, s runbook.Step) bookstore.Outcome {
	switch s.Op {
	case bookstore.OpListBooks:
		return r.client.ListAllBooks(ctx).Outcome
	case bookstore.OpBooksByAuthor:
		return r.client.ListBooksByAuthor(ctx, s.Author).Outcome
	case bookstore.OpBooksByTitle:
		return r.client.ListBooksByTitle(ctx, s.Title).Outcome
	case bookstore.OpBookByISBN:
		return r.client.GetBookByISBN(ctx, s.ISBN).Outcome
	case bookstore.OpReviews:
		return r.client.ListReviews(ctx, s.ISBN).Outcome
	case bookstore.OpUpsertReview:
		return r.client.UpsertReview(ctx, s.ISBN, s.Username, s.Review)
	case bookstore.OpDeleteReview:
		return r.client.DeleteReview(ctx, s.ISBN)
	default:
		return bookstore.Outcome{
			Op:   s.Op,
			Kind: bookstore.TransportError,
			Err:  fmt.Errorf("unsupported op %q", s.Op),
		}
	}
}

func (r *Runner) publish(ctx context.Context, o bookstore.Outcome) {
	if r.fanout.Size() == 0 {
		return
	}
	// Delivery is bounded by its own deadline and outlives cancellation of the run.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	count, err := r.fanout.Publish(pubCtx, sinks.NewEvent(o))
	if err != nil {
		r.log.ErrorObj("sink publish failed", "publish_error", map[string]any{
			"op":        string(o.Op),
			"delivered": count,
			"error":     err.Error(),
		})
	}
}
