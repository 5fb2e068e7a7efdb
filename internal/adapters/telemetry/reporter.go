// Package telemetry implements bake progress reporters.
package telemetry

import (
	"fmt"
	"io"
	"time"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
)

var (
	_ ports.Reporter = (*Noop)(nil)
	_ ports.Reporter = (*Multi)(nil)
	_ ports.Reporter = (*Printer)(nil)
)

// Noop discards all progress.
type Noop struct{}

// NewNoop creates a Noop reporter.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) BakeStarted(string, int)                     {}
func (*Noop) GhostDone(domain.ObjectID, int, bool, error) {}
func (*Noop) BakeFinished(domain.BakeReport)              {}

// Multi fans every event out to several reporters in order.
type Multi struct {
	reporters []ports.Reporter
}

// NewMulti creates a Multi over the given reporters.
func NewMulti(reporters ...ports.Reporter) *Multi {
	return &Multi{reporters: reporters}
}

func (m *Multi) BakeStarted(id string, total int) {
	for _, r := range m.reporters {
		r.BakeStarted(id, total)
	}
}

func (m *Multi) GhostDone(object domain.ObjectID, frame int, cached bool, err error) {
	for _, r := range m.reporters {
		r.GhostDone(object, frame, cached, err)
	}
}

func (m *Multi) BakeFinished(report domain.BakeReport) {
	for _, r := range m.reporters {
		r.BakeFinished(report)
	}
}

// Printer writes one human-readable line per event. The bake controller
// serializes calls, so no locking is needed here.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) BakeStarted(id string, total int) {
	fmt.Fprintf(p.w, "bake %s: %d ghosts\n", shortID(id), total)
}

func (p *Printer) GhostDone(object domain.ObjectID, frame int, cached bool, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(p.w, "  %s@%d failed: %v\n", object.String(), frame, err)
	case cached:
		fmt.Fprintf(p.w, "  %s@%d cached\n", object.String(), frame)
	default:
		fmt.Fprintf(p.w, "  %s@%d computed\n", object.String(), frame)
	}
}

func (p *Printer) BakeFinished(report domain.BakeReport) {
	fmt.Fprintf(p.w, "bake %s %s: %d computed, %d cached, %d failed (%s)\n",
		shortID(report.ID), report.State,
		report.Computed, report.Cached, report.Failed,
		report.Elapsed.Round(time.Millisecond))
}

// shortID trims a UUID down to its first group for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
