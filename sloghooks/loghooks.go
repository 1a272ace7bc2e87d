package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/d2s"
)

type Options struct {
	// ChecksumMismatchEvery samples mismatch logs to avoid floods when a
	// caller batch-processes many corrupt saves; 0/1 = log every one.
	ChecksumMismatchEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	mismatchCtr atomic.Uint64
}

var _ d2s.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) ChecksumMismatch(expected, found int32) {
	if h.l == nil || !sample(h.opts.ChecksumMismatchEvery, &h.mismatchCtr) {
		return
	}
	h.l.Warn("d2s.checksum_mismatch",
		"expected", expected,
		"found", found)
}

func (h *Hooks) ChecksumPatched(old, new int32) {
	if h.l == nil {
		return
	}
	h.l.Debug("d2s.checksum_patched",
		"old", old,
		"new", new)
}

func (h *Hooks) RoundTripMismatch(offset int, original, produced byte) {
	if h.l == nil {
		return
	}
	h.l.Error("d2s.round_trip_mismatch",
		"offset", offset,
		"original", original,
		"produced", produced)
}

func (h *Hooks) TrailerPreserved(length int) {
	if h.l == nil {
		return
	}
	h.l.Debug("d2s.trailer_preserved", "length", length)
}

func (h *Hooks) MercenaryAbsent() {
	if h.l == nil {
		return
	}
	h.l.Debug("d2s.mercenary_absent")
}

func (h *Hooks) GolemAbsent() {
	if h.l == nil {
		return
	}
	h.l.Debug("d2s.golem_absent")
}

func (h *Hooks) QuestMutatorSkipped(name, reason string) {
	if h.l == nil {
		return
	}
	h.l.Info("d2s.quest_mutator_skipped",
		"name", name,
		"reason", reason)
}
