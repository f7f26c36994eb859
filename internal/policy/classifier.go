package policy

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"zmudump/internal/artifact"
	"zmudump/internal/emu"
)

// pePermissions is the permission value forced onto ".pe" sections.
// The MEW packer requires an executable header section in the live
// process, but the artifact marks it non-executable. Narrow
// compatibility hack for that one packer format; do not generalize.
const pePermissions = 0x1

// mainHeapName is the directory name of the managed main heap, the
// only heap region whose content gets truncated to its used portion.
const mainHeapName = "main_heap"

// Result is a matched region's synthesized section together with the
// raw bytes read from it. The noise/size filter inspects Raw: the
// full region read, before any truncation of the section content.
type Result struct {
	Section artifact.Section
	Raw     []byte
}

// Classifier applies the region inclusion rules and reads section
// content for regions that qualify.
type Classifier struct {
	mem  emu.AddressSpace
	heap emu.Heap
	log  *zap.Logger
}

// NewClassifier builds a classifier. heap may be nil when the host has
// no managed heap; the main-heap truncation rule is then inert.
func NewClassifier(mem emu.AddressSpace, heap emu.Heap, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{mem: mem, heap: heap, log: log}
}

// Classify evaluates the inclusion rules against one region and
// returns nil when no rule matched. The rules are disjoint in
// practice but are all evaluated in order, with the last match
// winning. A read failure aborts classification; no read happens for
// regions no rule matches.
//
// A non-nil result does not guarantee the section survives: the
// caller still runs BadSection on the raw read.
func (c *Classifier) Classify(r emu.Region) (*Result, error) {
	var res *Result

	// Main binary image.
	if r.Kind == emu.KindMain || r.Name == "main" {
		name := r.Name
		if tokens := strings.Split(r.Name, " "); len(tokens) > 1 {
			name = tokens[1]
		}
		perm := int(r.Perm)
		if name == ".pe" {
			perm = pePermissions
		}
		data, err := c.read(r)
		if err != nil {
			return nil, err
		}
		res = &Result{
			Section: artifact.Section{
				Address:     r.Address,
				Data:        data,
				Name:        name,
				Permissions: perm,
			},
			Raw: data,
		}
	}

	// Main and thread stacks. DLL-main stacks carry nothing useful.
	if r.Kind == emu.KindStack && !strings.Contains(r.Name, "dll_main") {
		data, err := c.read(r)
		if err != nil {
			return nil, err
		}
		res = &Result{
			Section: artifact.Section{
				Address:     r.Address,
				Data:        data,
				Name:        "stack_" + r.Name,
				Permissions: int(r.Perm),
			},
			Raw: data,
		}
	}

	// Heap, virtual allocations, loaded sections. The generic "heap"
	// bucket is excluded: dynamically allocated heaps are not tracked
	// by the host yet, so only the main heap qualifies here. The main
	// heap's section keeps only the used portion, but Raw stays the
	// full read so the filter judges the whole region.
	if (r.Kind == emu.KindHeap && r.Name != "heap") ||
		r.Kind == emu.KindValloc || r.Kind == emu.KindSection {
		data, err := c.read(r)
		if err != nil {
			return nil, err
		}
		content := data
		if r.Kind == emu.KindHeap && r.Name == mainHeapName {
			content = c.truncateHeap(data)
		}
		res = &Result{
			Section: artifact.Section{
				Address:     r.Address,
				Data:        content,
				Name:        r.Kind.String() + "_" + r.Name,
				Permissions: int(r.Perm),
			},
			Raw: data,
		}
	}

	return res, nil
}

func (c *Classifier) read(r emu.Region) ([]byte, error) {
	data, err := c.mem.Read(r.Address, r.Size)
	if err != nil {
		return nil, fmt.Errorf("reading region 0x%x (size 0x%x): %w", r.Address, r.Size, err)
	}
	return data, nil
}

// truncateHeap cuts the main heap down to its used portion, bounded by
// the bytes actually read.
func (c *Classifier) truncateHeap(data []byte) []byte {
	if c.heap == nil {
		return data
	}
	used := c.heap.CurrentOffset() - c.heap.Base()
	if used > uint64(len(data)) {
		return data
	}
	return data[:used]
}
