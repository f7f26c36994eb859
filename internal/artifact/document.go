package artifact

import (
	"fmt"
	"strconv"
)

// Header is the literal first line of every artifact.
const Header = "DISAS"

// DefaultFileName is the artifact path used when no sink is supplied.
const DefaultFileName = "memory_dump.zmu"

// Section is one surviving memory region. Data is emitted as base64 by
// the JSON encoder. Field order matches the artifact's sorted-key
// layout; keep it alphabetical.
type Section struct {
	Address     uint64 `json:"address"`
	Data        []byte `json:"data"`
	Name        string `json:"name"`
	Permissions int    `json:"permissions"`
}

// Function is a called-function record derived from the trace.
type Function struct {
	Address  uint64 `json:"address"`
	IsImport bool   `json:"is_import"`
	Name     string `json:"name"`
}

// Comment is a tracer comment copied verbatim into the artifact.
type Comment struct {
	Address  uint64 `json:"address"`
	Text     string `json:"text"`
	ThreadID int    `json:"thread_id"`
}

// Document is the root artifact object. BaseAddress is nil until the
// first region matches an inclusion rule, and absent from the JSON in
// that case. The sequence fields are always present, even when empty.
type Document struct {
	BaseAddress *uint64    `json:"base_address,omitempty"`
	Comments    []Comment  `json:"comments"`
	Entrypoint  uint64     `json:"entrypoint"`
	Functions   []Function `json:"functions"`
	Sections    []Section  `json:"sections"`
}

// NewDocument returns a document with empty (non-nil) sequences so they
// serialize as [] rather than null.
func NewDocument(entrypoint uint64) *Document {
	return &Document{
		Comments:   []Comment{},
		Entrypoint: entrypoint,
		Functions:  []Function{},
		Sections:   []Section{},
	}
}

// SetBaseAddress records the base address once; later calls are
// ignored.
func (d *Document) SetBaseAddress(addr uint64) {
	if d.BaseAddress == nil {
		d.BaseAddress = &addr
	}
}

// TracedFunction builds the function record for a traced call address.
func TracedFunction(addr uint64) Function {
	return Function{
		Address:  addr,
		IsImport: false,
		Name:     "traced_" + strconv.FormatUint(addr, 16),
	}
}

// normalize replaces nil sequences with empty ones so a decoded or
// hand-built document encodes identically to one from NewDocument.
func (d *Document) normalize() {
	if d.Comments == nil {
		d.Comments = []Comment{}
	}
	if d.Functions == nil {
		d.Functions = []Function{}
	}
	if d.Sections == nil {
		d.Sections = []Section{}
	}
	for i := range d.Sections {
		if d.Sections[i].Data == nil {
			d.Sections[i].Data = []byte{}
		}
	}
}

// Validate checks structural invariants before encoding.
func (d *Document) Validate() error {
	for _, s := range d.Sections {
		if s.Name == "" {
			return fmt.Errorf("section at 0x%x has no name", s.Address)
		}
	}
	return nil
}
