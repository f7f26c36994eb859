package procmaps

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"zmudump/internal/emu"
)

// atEntry is the auxv key carrying the program entrypoint.
const atEntry = 9

// Process adapts a live Linux process to the emu provider contracts.
// The region list is captured once at Open; memory reads see the
// process's current state.
type Process struct {
	pid        int
	exe        string
	mem        *os.File
	entries    []entry
	entrypoint uint64
}

// Open captures the memory map of pid and opens its memory for
// reading. The caller should stop the process first if a consistent
// snapshot is required. Close releases the memory handle.
func Open(pid int) (*Process, error) {
	exe, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return nil, fmt.Errorf("resolving executable of pid %d: %w", pid, err)
	}

	mapsFile, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, fmt.Errorf("opening maps of pid %d: %w", pid, err)
	}
	entries, err := parseMaps(mapsFile, exe)
	_ = mapsFile.Close()
	if err != nil {
		return nil, err
	}

	mem, err := os.Open(fmt.Sprintf("/proc/%d/mem", pid))
	if err != nil {
		return nil, fmt.Errorf("opening memory of pid %d: %w", pid, err)
	}

	return &Process{
		pid:        pid,
		exe:        exe,
		mem:        mem,
		entries:    entries,
		entrypoint: readEntrypoint(pid),
	}, nil
}

// Close releases the process memory handle.
func (p *Process) Close() error {
	return p.mem.Close()
}

// Regions implements emu.AddressSpace.
func (p *Process) Regions() ([]emu.Mapping, error) {
	maps := make([]emu.Mapping, 0, len(p.entries))
	for _, e := range p.entries {
		maps = append(maps, emu.Mapping{
			Address: e.start,
			Size:    e.end - e.start,
			Perm:    e.perm,
		})
	}
	return maps, nil
}

// Read implements emu.AddressSpace via pread on /proc/<pid>/mem.
func (p *Process) Read(addr, size uint64) ([]byte, error) {
	buf := make([]byte, size)
	read := 0
	for read < len(buf) {
		n, err := unix.Pread(int(p.mem.Fd()), buf[read:], int64(addr)+int64(read))
		if err != nil {
			return nil, fmt.Errorf("pread at 0x%x: %w", addr+uint64(read), err)
		}
		if n == 0 {
			return nil, fmt.Errorf("short read at 0x%x: got 0x%x of 0x%x bytes",
				addr, read, size)
		}
		read += n
	}
	return buf, nil
}

// Lookup implements emu.Directory over the captured map entries.
func (p *Process) Lookup(addr uint64) (emu.Kind, string, bool) {
	for _, e := range p.entries {
		if e.start == addr {
			if e.kind == emu.KindUnknown {
				return emu.KindUnknown, emu.UnknownName(), false
			}
			return e.kind, e.name, true
		}
	}
	return emu.KindUnknown, emu.UnknownName(), false
}

// Base implements emu.Heap as the [heap] mapping's start. Without a
// heap mapping both bounds are zero and truncation is a no-op.
func (p *Process) Base() uint64 {
	start, _ := p.heapBounds()
	return start
}

// CurrentOffset implements emu.Heap. A live process exposes no
// allocator cursor, so the whole [heap] mapping counts as used.
func (p *Process) CurrentOffset() uint64 {
	_, end := p.heapBounds()
	return end
}

func (p *Process) heapBounds() (uint64, uint64) {
	for _, e := range p.entries {
		if e.path == "[heap]" {
			return e.start, e.end
		}
	}
	return 0, 0
}

// Entrypoint implements emu.Engine.
func (p *Process) Entrypoint() uint64 {
	return p.entrypoint
}

// OriginalFileName implements emu.Engine.
func (p *Process) OriginalFileName() string {
	return p.exe
}

// Verbosity implements emu.Engine. Live processes carry no execution
// trace, so the comment advisory always applies.
func (p *Process) Verbosity() int {
	return 0
}

// readEntrypoint pulls AT_ENTRY from /proc/<pid>/auxv. Best effort: a
// missing or unreadable auxv leaves the entrypoint at zero.
func readEntrypoint(pid int) uint64 {
	raw, err := os.ReadFile(fmt.Sprintf("/proc/%d/auxv", pid))
	if err != nil {
		return 0
	}

	r := bytes.NewReader(raw)
	for {
		var key, val uint64
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			return 0
		}
		if err := binary.Read(r, binary.LittleEndian, &val); err != nil {
			return 0
		}
		if key == 0 {
			return 0
		}
		if key == atEntry {
			return val
		}
	}
}
