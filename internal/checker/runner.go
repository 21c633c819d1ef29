package checker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	consts "github.com/guelfoweb/diga/internal/shared/constants"
	errs "github.com/guelfoweb/diga/internal/shared/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ResultFunc is called once per domain as soon as its slot is final.
// Calls are serialized by the Runner.
type ResultFunc func(Outcome)

// Runner fans a domain list out over a bounded worker pool.
type Runner struct {
	Concurrency int // Maximum number of concurrent scans (default 10)
	RateLimit   int // Scans started per second (0 disables limiting)
	Logger      *zap.Logger
}

// Run scans every domain and returns exactly one Outcome per input domain,
// in completion order. Once ctx is cancelled no further domains are
// submitted; scans already running finish on their own timeouts and the
// remaining domains are reported with ErrNotScanned.
func (r *Runner) Run(ctx context.Context, domains []string, scanner DomainScanner, onResult ResultFunc) []Outcome {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = consts.DefaultConcurrency
	}

	var limiter *rate.Limiter
	if r.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.RateLimit), r.RateLimit)
	}

	log := r.logger().With(zap.String("run_id", uuid.NewString()))
	log.Info("run started", zap.Int("domains", len(domains)), zap.Int("concurrency", concurrency))
	started := time.Now()

	scanCtx := context.WithoutCancel(ctx)

	var (
		g       errgroup.Group
		mu      sync.Mutex
		results = make([]Outcome, 0, len(domains))
	)
	// Slots are held in sem rather than through g.SetLimit so that waiting
	// for a free worker can be interrupted.
	sem := make(chan struct{}, concurrency)

	collect := func(o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, o)
		if onResult != nil {
			onResult(o)
		}
	}

	submitted := 0
submit:
	for _, domain := range domains {
		if ctx.Err() != nil {
			break
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break submit
		}
		// select picks at random when a slot and cancellation are both ready.
		if ctx.Err() != nil {
			<-sem
			break
		}

		g.Go(func() error {
			defer func() { <-sem }()
			collect(scanDomain(scanCtx, scanner, domain))
			return nil
		})
		submitted++
	}

	_ = g.Wait()

	for _, domain := range domains[submitted:] {
		collect(Outcome{Domain: domain, Err: errs.ErrNotScanned})
	}

	resolved := 0
	for _, o := range results {
		if o.Result != nil {
			resolved++
		}
	}
	log.Info("run finished",
		zap.Int("resolved", resolved),
		zap.Int("unresolved", submitted-resolved),
		zap.Int("not_scanned", len(domains)-submitted),
		zap.Duration("elapsed", time.Since(started)),
	)

	return results
}

// scanDomain runs one pipeline, turning a panic into a failed slot so a
// single domain cannot take the batch down.
func scanDomain(ctx context.Context, scanner DomainScanner, domain string) (out Outcome) {
	start := time.Now()
	out.Domain = domain
	defer func() {
		if p := recover(); p != nil {
			out.Result = nil
			out.Err = fmt.Errorf("scan %s panicked: %v", domain, p)
		}
		out.Duration = time.Since(start)
	}()

	out.Result, out.Err = scanner.Scan(ctx, domain)
	return out
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
