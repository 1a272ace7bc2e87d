package d2s

// Options configures a Codec. All fields are optional; Logger defaults to
// NopLogger, Hooks defaults to NopHooks, and StrictChecksum defaults to
// false (a mismatch is reported through Hooks/Logger but decoding proceeds).
type Options struct {
	Logger Logger
	Hooks  Hooks

	// StrictChecksum makes Decode return a *ChecksumMismatchError instead of
	// warning and continuing when the stored checksum doesn't verify.
	StrictChecksum bool
}

// Codec decodes and encodes .d2s saves with a fixed set of Options.
type Codec struct {
	log    Logger
	hooks  Hooks
	strict bool
}

// New builds a Codec from opts.
func New(opts Options) *Codec {
	return &Codec{
		log:    coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:  coalesce[Hooks](opts.Hooks, NopHooks{}),
		strict: opts.StrictChecksum,
	}
}
