// Package progrock records bake progress as a progrock tape: one vertex
// per ghost plus a run-level vertex, so a UI can replay the bake.
package progrock

import (
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Reporter = (*Reporter)(nil)

// Reporter implements ports.Reporter on a progrock recorder. The bake
// controller serializes calls, so no locking is needed.
type Reporter struct {
	w   progrock.Writer
	rec *progrock.Recorder
	run *progrock.VertexRecorder
}

// New creates a Reporter recording onto a fresh tape.
func New() *Reporter {
	return NewWithWriter(progrock.NewTape())
}

// NewWithWriter creates a Reporter recording through the given writer.
func NewWithWriter(w progrock.Writer) *Reporter {
	return &Reporter{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// BakeStarted opens the run-level vertex.
func (r *Reporter) BakeStarted(id string, total int) {
	r.run = r.rec.Vertex(digest.FromString("bake:"+id), "bake "+id)
	fmt.Fprintf(r.run.Stdout(), "%d ghosts queued\n", total)
}

// GhostDone records one item as its own vertex, marked cached or errored.
func (r *Reporter) GhostDone(object domain.ObjectID, frame int, cached bool, err error) {
	name := fmt.Sprintf("%s@%d", object.String(), frame)
	v := r.rec.Vertex(digest.FromString(name), name)
	if cached {
		v.Cached()
	}
	v.Done(err)
}

// BakeFinished closes the run-level vertex with the outcome.
func (r *Reporter) BakeFinished(report domain.BakeReport) {
	if r.run == nil {
		return
	}
	fmt.Fprintf(r.run.Stdout(), "%s: %d computed, %d cached, %d failed\n",
		report.State, report.Computed, report.Cached, report.Failed)

	if report.State == domain.BakeDone {
		r.run.Done(nil)
	} else {
		r.run.Done(zerr.With(zerr.New("bake did not complete"), "state", string(report.State)))
	}
	r.run = nil
}

// Close releases the underlying writer if it supports closing.
func (r *Reporter) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
