package d2s

// Hooks are lightweight callbacks for high-signal decode/encode events.
// Implementations MUST be cheap and non-blocking; do not perform I/O.
// If work may block, buffer it and drop on backpressure (best effort).
type Hooks interface {
	ChecksumMismatch(expected, found int32)
	ChecksumPatched(old, new int32)
	RoundTripMismatch(offset int, original, produced byte)
	TrailerPreserved(length int)
	MercenaryAbsent()
	GolemAbsent()
	QuestMutatorSkipped(name, reason string)
}

// NopHooks is a default no-op.
type NopHooks struct{}

func (NopHooks) ChecksumMismatch(int32, int32)        {}
func (NopHooks) ChecksumPatched(int32, int32)         {}
func (NopHooks) RoundTripMismatch(int, byte, byte)    {}
func (NopHooks) TrailerPreserved(int)                 {}
func (NopHooks) MercenaryAbsent()                     {}
func (NopHooks) GolemAbsent()                         {}
func (NopHooks) QuestMutatorSkipped(string, string)   {}

// Multi returns a Hooks that fan-outs to all provided hooks, in order.
// Nil entries are ignored.
// Panics from a hook will propagate to the caller.
//
// example usage:
//
// logH   := sloghooks.New(slog.Default(), sloghooks.Options{})
// metH   := promhook.New(...)            // some kind of metrics adapter
// auditH := myAuditHook{...}             // audit adapter
//
// // fan-out
// mh := d2s.Multi(logH, metH, auditH)
//
// // Either: single async queue for the whole fan-out
// hooks := asynchook.New(mh, 1, 1000)
//
// // Or: give each hook its own queue (isolate backpressure)
//
//	hooks := d2s.Multi(
//	    asynchook.New(logH,   1, 1000),
//	    asynchook.New(metH,   1, 1000),
//	    asynchook.New(auditH, 1, 1000),
//	)
func Multi(hs ...Hooks) Hooks {
	nn := make([]Hooks, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			nn = append(nn, h)
		}
	}
	return multiHooks(nn)
}

type multiHooks []Hooks

func (m multiHooks) ChecksumMismatch(expected, found int32) {
	for _, h := range m {
		h.ChecksumMismatch(expected, found)
	}
}
func (m multiHooks) ChecksumPatched(old, new int32) {
	for _, h := range m {
		h.ChecksumPatched(old, new)
	}
}
func (m multiHooks) RoundTripMismatch(offset int, original, produced byte) {
	for _, h := range m {
		h.RoundTripMismatch(offset, original, produced)
	}
}
func (m multiHooks) TrailerPreserved(length int) {
	for _, h := range m {
		h.TrailerPreserved(length)
	}
}
func (m multiHooks) MercenaryAbsent() {
	for _, h := range m {
		h.MercenaryAbsent()
	}
}
func (m multiHooks) GolemAbsent() {
	for _, h := range m {
		h.GolemAbsent()
	}
}
func (m multiHooks) QuestMutatorSkipped(name, reason string) {
	for _, h := range m {
		h.QuestMutatorSkipped(name, reason)
	}
}
