package emu

// AddressSpace exposes the host's memory map and raw reads.
type AddressSpace interface {
	// Regions returns every mapped region. Order is unspecified; the
	// snapshot pipeline sorts by ascending address.
	Regions() ([]Mapping, error)
	// Read returns size bytes starting at addr.
	Read(addr, size uint64) ([]byte, error)
}

// Directory resolves a region's (kind, name) classification by base
// address. ok is false when the directory has no entry.
type Directory interface {
	Lookup(addr uint64) (kind Kind, name string, ok bool)
}

// Heap exposes the managed heap's bounds, used to truncate the unused
// portion of the main heap.
type Heap interface {
	Base() uint64
	CurrentOffset() uint64
}

// Comment is a tracer annotation attached to an address by a thread.
type Comment struct {
	Address  uint64
	ThreadID int
	Text     string
}

// Tracer exposes execution-trace state. Both methods return slices in
// the tracer's native order; the artifact preserves that order.
type Tracer interface {
	CalledFunctions() []uint64
	Comments() []Comment
}

// Engine exposes the few host-level facts the snapshotter needs.
type Engine interface {
	// Entrypoint is the main module's entrypoint address.
	Entrypoint() uint64
	// OriginalFileName is the path of the originally loaded binary,
	// used to derive the shutdown-hook artifact path.
	OriginalFileName() string
	// Verbosity is the host's trace verbosity level. At 0 the tracer
	// records no comments; the snapshotter warns but proceeds.
	Verbosity() int
}
