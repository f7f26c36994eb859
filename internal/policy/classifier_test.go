package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zmudump/internal/emu"
)

// fakeMem serves reads from a per-address byte map and counts them.
type fakeMem struct {
	data  map[uint64][]byte
	reads int
	err   error
}

func (m *fakeMem) Regions() ([]emu.Mapping, error) { return nil, nil }

func (m *fakeMem) Read(addr, size uint64) ([]byte, error) {
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	buf, ok := m.data[addr]
	if !ok {
		buf = make([]byte, size)
		for i := range buf {
			buf[i] = 0xCC
		}
	}
	return buf[:size], nil
}

type fakeHeap struct {
	base, current uint64
}

func (h *fakeHeap) Base() uint64          { return h.base }
func (h *fakeHeap) CurrentOffset() uint64 { return h.current }

func newTestClassifier(mem *fakeMem, heap emu.Heap) *Classifier {
	return NewClassifier(mem, heap, nil)
}

func TestClassify_MainPESection(t *testing.T) {
	mem := &fakeMem{data: map[uint64][]byte{
		0x1000: bytes16(0x41),
	}}
	c := newTestClassifier(mem, nil)

	res, err := c.Classify(emu.Region{
		Address: 0x1000, Size: 0x10, Perm: 0x7,
		Kind: emu.KindMain, Name: "main .pe",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, ".pe", res.Section.Name, "second space-delimited token")
	assert.Equal(t, 0x1, res.Section.Permissions, "packer header hack forces 0x1")
	assert.Equal(t, uint64(0x1000), res.Section.Address)
	assert.Equal(t, bytes16(0x41), res.Section.Data)
	assert.Equal(t, res.Section.Data, res.Raw)
}

func TestClassify_MainWithoutSubName(t *testing.T) {
	mem := &fakeMem{}
	c := newTestClassifier(mem, nil)

	res, err := c.Classify(emu.Region{
		Address: 0x2000, Size: 0x10, Perm: 0x5,
		Kind: emu.KindMain, Name: "main",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "main", res.Section.Name)
	assert.Equal(t, 0x5, res.Section.Permissions, "permissions untouched for non-.pe sections")
}

func TestClassify_MainByNameOnly(t *testing.T) {
	// name "main" qualifies even when the directory kind is unknown.
	c := newTestClassifier(&fakeMem{}, nil)

	res, err := c.Classify(emu.Region{
		Address: 0x3000, Size: 0x10,
		Kind: emu.KindUnknown, Name: "main",
	})
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestClassify_Stack(t *testing.T) {
	c := newTestClassifier(&fakeMem{}, nil)

	res, err := c.Classify(emu.Region{
		Address: 0xb0000000, Size: 0x1000, Perm: 0x3,
		Kind: emu.KindStack, Name: "main_thread",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "stack_main_thread", res.Section.Name)
}

func TestClassify_StackDLLMainExcluded(t *testing.T) {
	mem := &fakeMem{}
	c := newTestClassifier(mem, nil)

	res, err := c.Classify(emu.Region{
		Address: 0xb0000000, Size: 0x1000,
		Kind: emu.KindStack, Name: "dll_main_thread",
	})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, mem.reads, "excluded regions must not be read")
}

func TestClassify_GenericHeapExcluded(t *testing.T) {
	mem := &fakeMem{}
	c := newTestClassifier(mem, nil)

	res, err := c.Classify(emu.Region{
		Address: 0x90000000, Size: 0x1000,
		Kind: emu.KindHeap, Name: "heap",
	})
	require.NoError(t, err)
	assert.Nil(t, res, `the generic "heap" bucket is excluded`)
	assert.Zero(t, mem.reads)
}

func TestClassify_MainHeapTruncated(t *testing.T) {
	full := make([]byte, 0x100)
	for i := range full {
		full[i] = byte(i)
	}
	mem := &fakeMem{data: map[uint64][]byte{0x90000000: full}}
	heap := &fakeHeap{base: 0x90000000, current: 0x90000040}
	c := newTestClassifier(mem, heap)

	res, err := c.Classify(emu.Region{
		Address: 0x90000000, Size: 0x100, Perm: 0x3,
		Kind: emu.KindHeap, Name: "main_heap",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "heap_main_heap", res.Section.Name)
	assert.Len(t, res.Section.Data, 0x40, "only the used portion of the heap is kept")
	assert.Equal(t, full[:0x40], res.Section.Data)
	assert.Equal(t, full, res.Raw, "raw stays the full region read")
}

func TestClassify_MainHeapTruncationClamped(t *testing.T) {
	mem := &fakeMem{data: map[uint64][]byte{0x90000000: bytes16(1)}}
	heap := &fakeHeap{base: 0x90000000, current: 0x90001000}
	c := newTestClassifier(mem, heap)

	res, err := c.Classify(emu.Region{
		Address: 0x90000000, Size: 0x10,
		Kind: emu.KindHeap, Name: "main_heap",
	})
	require.NoError(t, err)
	assert.Len(t, res.Section.Data, 0x10, "truncation never extends past the read")
}

func TestClassify_MainHeapFilterSeesFullRead(t *testing.T) {
	// Used window all zeros, reserved tail non-zero: the filter judges
	// the full read, so the section survives with its all-zero
	// truncated content.
	full := make([]byte, 0x100)
	for i := 0x40; i < len(full); i++ {
		full[i] = 0xEE
	}
	mem := &fakeMem{data: map[uint64][]byte{0x90000000: full}}
	heap := &fakeHeap{base: 0x90000000, current: 0x90000040}
	c := newTestClassifier(mem, heap)

	res, err := c.Classify(emu.Region{
		Address: 0x90000000, Size: 0x100, Perm: 0x3,
		Kind: emu.KindHeap, Name: "main_heap",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.False(t, c.BadSection(res.Raw), "full read is not noise")
	assert.Equal(t, make([]byte, 0x40), res.Section.Data,
		"kept section still carries only the used window")
}

func TestClassify_MainHeapAllZeroReadFiltered(t *testing.T) {
	// The converse: a fully zero region is noise even when its used
	// window is tiny.
	mem := &fakeMem{data: map[uint64][]byte{0x90000000: make([]byte, 0x100)}}
	heap := &fakeHeap{base: 0x90000000, current: 0x90000040}
	c := newTestClassifier(mem, heap)

	res, err := c.Classify(emu.Region{
		Address: 0x90000000, Size: 0x100,
		Kind: emu.KindHeap, Name: "main_heap",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, c.BadSection(res.Raw))
}

func TestClassify_VallocAndSection(t *testing.T) {
	c := newTestClassifier(&fakeMem{}, nil)

	tests := []struct {
		kind emu.Kind
		name string
		want string
	}{
		{emu.KindValloc, "00a40000", "valloc_00a40000"},
		{emu.KindSection, "libfoo.so", "section_libfoo.so"},
	}
	for _, tt := range tests {
		res, err := c.Classify(emu.Region{
			Address: 0xa0000000, Size: 0x20, Kind: tt.kind, Name: tt.name,
		})
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, tt.want, res.Section.Name)
	}
}

func TestClassify_UnknownSkippedWithoutRead(t *testing.T) {
	mem := &fakeMem{}
	c := newTestClassifier(mem, nil)

	res, err := c.Classify(emu.Region{
		Address: 0xdead0000, Size: 0x1000,
		Kind: emu.KindUnknown, Name: emu.UnknownName(),
	})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, mem.reads)
}

func TestClassify_ReadFailurePropagates(t *testing.T) {
	mem := &fakeMem{err: errors.New("unmapped")}
	c := newTestClassifier(mem, nil)

	_, err := c.Classify(emu.Region{
		Address: 0x1000, Size: 0x10, Kind: emu.KindMain, Name: "main",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmapped")
}

func bytes16(fill byte) []byte {
	b := make([]byte, 16)
	for i := range b {
		b[i] = fill
	}
	return b
}
