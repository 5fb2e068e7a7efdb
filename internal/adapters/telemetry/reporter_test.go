package telemetry_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go.keyframe.sh/onion/internal/adapters/telemetry"
	"go.keyframe.sh/onion/internal/core/domain"
)

// recording captures reporter calls for fan-out assertions.
type recording struct {
	events []string
}

func (r *recording) BakeStarted(string, int) { r.events = append(r.events, "started") }
func (r *recording) GhostDone(domain.ObjectID, int, bool, error) {
	r.events = append(r.events, "ghost")
}
func (r *recording) BakeFinished(domain.BakeReport) { r.events = append(r.events, "finished") }

func TestMultiFansOut(t *testing.T) {
	a, b := &recording{}, &recording{}
	m := telemetry.NewMulti(a, b)

	m.BakeStarted("run", 3)
	m.GhostDone(domain.NewObjectID("mesh.ball"), 4, false, nil)
	m.BakeFinished(domain.BakeReport{})

	want := []string{"started", "ghost", "finished"}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}

func TestPrinterLines(t *testing.T) {
	var buf bytes.Buffer
	p := telemetry.NewPrinter(&buf)
	ball := domain.NewObjectID("mesh.ball")

	p.BakeStarted("4ea1c5d8-0000-0000-0000-000000000000", 3)
	p.GhostDone(ball, 4, false, nil)
	p.GhostDone(ball, 6, true, nil)
	p.GhostDone(ball, 8, false, errors.New("rig missing"))
	p.BakeFinished(domain.BakeReport{
		ID:       "4ea1c5d8-0000-0000-0000-000000000000",
		State:    domain.BakeDone,
		Computed: 1,
		Cached:   1,
		Failed:   1,
		Elapsed:  1500 * time.Millisecond,
	})

	out := buf.String()
	assert.Contains(t, out, "bake 4ea1c5d8: 3 ghosts")
	assert.Contains(t, out, "mesh.ball@4 computed")
	assert.Contains(t, out, "mesh.ball@6 cached")
	assert.Contains(t, out, "mesh.ball@8 failed: rig missing")
	assert.Contains(t, out, "Done: 1 computed, 1 cached, 1 failed (1.5s)")
}

func TestNoopIsSafe(t *testing.T) {
	n := telemetry.NewNoop()
	n.BakeStarted("run", 1)
	n.GhostDone(domain.NewObjectID("mesh.ball"), 1, false, nil)
	n.BakeFinished(domain.BakeReport{})
}
