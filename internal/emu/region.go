package emu

// Kind is the coarse category of a memory region's origin.
type Kind int

const (
	// KindUnknown marks regions the directory has no entry for.
	KindUnknown Kind = iota
	// KindMain is a mapping of the main binary image.
	KindMain
	// KindStack is a thread or main stack.
	KindStack
	// KindHeap is a managed heap region.
	KindHeap
	// KindValloc is an explicitly virtual-allocated region.
	KindValloc
	// KindSection is a loaded module section.
	KindSection
)

// unknownMarker is the placeholder kind/name for regions missing from
// the directory.
const unknownMarker = "<unk>"

// String returns the directory's string form of the kind.
func (k Kind) String() string {
	switch k {
	case KindMain:
		return "main"
	case KindStack:
		return "stack"
	case KindHeap:
		return "heap"
	case KindValloc:
		return "valloc"
	case KindSection:
		return "section"
	default:
		return unknownMarker
	}
}

// Perm holds a region's protection bits as the small integer the host
// reports (read=1, write=2, execute=4 convention). The snapshot core
// treats the value as opaque except for one packer compatibility
// override.
type Perm int

// Mapping is a raw address-space entry as reported by the provider,
// before any directory annotation.
type Mapping struct {
	Address uint64
	Size    uint64
	Perm    Perm
}

// Region is a mapping annotated with its directory classification.
// Name may embed a sub-name after a space (e.g. "main .pe").
type Region struct {
	Address uint64
	Size    uint64
	Perm    Perm
	Kind    Kind
	Name    string
}

// UnknownName returns the placeholder name for unclassified regions.
func UnknownName() string {
	return unknownMarker
}
