package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/guelfoweb/diga/internal/checker"
	errs "github.com/guelfoweb/diga/internal/shared/errors"
)

// domainStatus is how a finished slot is counted on the console.
type domainStatus int

const (
	statusResolved domainStatus = iota
	statusUnresolved
	statusNotScanned
)

func classifyOutcome(o checker.Outcome) domainStatus {
	switch {
	case o.Result != nil:
		return statusResolved
	case errors.Is(o.Err, errs.ErrNotScanned):
		return statusNotScanned
	default:
		return statusUnresolved
	}
}

// scanTally counts slots per status. Only scanned domains add to the
// elapsed time used for the average.
type scanTally struct {
	resolved   int
	unresolved int
	notScanned int
	elapsed    time.Duration
}

func (t *scanTally) add(o checker.Outcome) {
	switch classifyOutcome(o) {
	case statusResolved:
		t.resolved++
	case statusUnresolved:
		t.unresolved++
	case statusNotScanned:
		t.notScanned++
		return
	}
	t.elapsed += o.Duration
}

func (t *scanTally) done() int {
	return t.resolved + t.unresolved + t.notScanned
}

func (t *scanTally) avgScan() time.Duration {
	scanned := t.resolved + t.unresolved
	if scanned == 0 {
		return 0
	}
	return t.elapsed / time.Duration(scanned)
}

type progressPrinter struct {
	w        io.Writer
	total    int
	name     string
	mu       sync.Mutex
	tally    scanTally
	updates  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newProgressPrinter(w io.Writer, total int, name string) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		w:       w,
		total:   total,
		name:    name,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	go p.loop()
}

// Record counts one finished domain slot.
func (p *progressPrinter) Record(o checker.Outcome) {
	p.mu.Lock()
	p.tally.add(o)
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", 100))
	p.printLocked()
	fmt.Fprintln(p.w)
}

func (p *progressPrinter) loop() {
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.print()
		case <-ticker.C:
			p.print()
		case <-p.done:
			return
		}
	}
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.done:
		return
	default:
	}
	p.printLocked()
}

// printLocked writes the progress line; p.mu must be held.
func (p *progressPrinter) printLocked() {
	completed := p.tally.done()
	if completed > p.total {
		p.total = completed
	}
	percent := (float64(completed) / float64(p.total)) * 100

	fmt.Fprintf(p.w, "\r[%s] %d/%d domains (%.1f%%) resolved:%d unresolved:%d not-scanned:%d avg scan:%.2fs",
		p.name, completed, p.total, percent,
		p.tally.resolved, p.tally.unresolved, p.tally.notScanned, p.tally.avgScan().Seconds())
}
