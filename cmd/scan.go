package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/guelfoweb/diga/internal/checker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runScan(cmd *cobra.Command, _ []string) error {
	runtimeCfg := cliConfig.Scan
	if runtimeCfg.Domain == "" && runtimeCfg.File == "" {
		return cmd.Help()
	}
	if runtimeCfg.Threads <= 0 {
		return fmt.Errorf("--threads must be positive, got %d", runtimeCfg.Threads)
	}
	if runtimeCfg.TimeoutSecs < 0 {
		return fmt.Errorf("--timeout must not be negative, got %g", runtimeCfg.TimeoutSecs)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn("interrupt received", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	scanCfg := runtimeCfg.checkerConfig(nil)
	scanner := checker.New(scanCfg, logger)
	logger.Debug("scan configured",
		zap.String("nameserver", scanCfg.Nameserver),
		zap.String("user_agent", scanCfg.UserAgent),
		zap.Duration("timeout", scanCfg.Timeout),
	)

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if runtimeCfg.Domain != "" {
		return scanSingle(ctx, out, errOut, scanner, runtimeCfg)
	}
	return scanList(ctx, out, errOut, scanner, runtimeCfg)
}

// scanSingle runs one pipeline synchronously, without the pool.
func scanSingle(ctx context.Context, out, errOut io.Writer, scanner checker.DomainScanner, cfg ScanRuntimeConfig) error {
	domain, err := checker.NormalizeDomain(cfg.Domain)
	if err != nil {
		return &InputError{Source: "--domain", Err: err}
	}

	type scanned struct {
		result *checker.ScanResult
		err    error
	}
	done := make(chan scanned, 1)
	go func() {
		result, err := scanner.Scan(context.WithoutCancel(ctx), domain)
		done <- scanned{result, err}
	}()

	select {
	case s := <-done:
		if s.err != nil {
			logger.Info("domain did not resolve", zap.String("domain", domain), zap.Error(s.err))
		}
		return writeJSON(out, s.result, cfg.Pretty)
	case <-ctx.Done():
		fmt.Fprintln(errOut, colorWarn("Interrupted"))
		return nil
	}
}

// scanList fans the domain file out over the worker pool. Interrupted runs
// still print a complete array; domains never scanned are null.
func scanList(ctx context.Context, out, errOut io.Writer, scanner checker.DomainScanner, cfg ScanRuntimeConfig) error {
	domains, err := readDomainList(cfg.File)
	if err != nil {
		return err
	}

	runner := &checker.Runner{
		Concurrency: cfg.Threads,
		RateLimit:   cfg.RateLimit,
		Logger:      logger,
	}

	var progress *progressPrinter
	if cfg.Progress {
		progress = newProgressPrinter(errOut, len(domains), "diga")
		progress.Start()
	}

	outcomes := runner.Run(ctx, domains, scanner, func(o checker.Outcome) {
		if o.Err != nil {
			logger.Debug("domain produced no result", zap.String("domain", o.Domain), zap.Error(o.Err))
		}
		if progress != nil {
			progress.Record(o)
		}
	})

	if progress != nil {
		progress.Stop()
	}
	if ctx.Err() != nil {
		fmt.Fprintln(errOut, colorWarn("Interrupted"))
	}
	if cfg.Progress {
		printSummary(errOut, outcomes)
	}

	return writeJSON(out, outcomes, cfg.Pretty)
}
