// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/d2s"
//	"github.com/unkn0wn-root/d2s/hooks/async"
//	"github.com/unkn0wn-root/d2s/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    ChecksumMismatchEvery: 10, // sample logs: ~every 10th mismatch
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	codec := d2s.New(d2s.Options{
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/d2s"
)

type Hooks struct {
	inner d2s.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ d2s.Hooks = (*Hooks)(nil)

func New(inner d2s.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) ChecksumMismatch(expected, found int32) {
	h.try(func() { h.inner.ChecksumMismatch(expected, found) })
}
func (h *Hooks) ChecksumPatched(old, new int32) {
	h.try(func() { h.inner.ChecksumPatched(old, new) })
}
func (h *Hooks) RoundTripMismatch(offset int, original, produced byte) {
	h.try(func() { h.inner.RoundTripMismatch(offset, original, produced) })
}
func (h *Hooks) TrailerPreserved(length int) {
	h.try(func() { h.inner.TrailerPreserved(length) })
}
func (h *Hooks) MercenaryAbsent() {
	h.try(func() { h.inner.MercenaryAbsent() })
}
func (h *Hooks) GolemAbsent() {
	h.try(func() { h.inner.GolemAbsent() })
}
func (h *Hooks) QuestMutatorSkipped(name, reason string) {
	h.try(func() { h.inner.QuestMutatorSkipped(name, reason) })
}
