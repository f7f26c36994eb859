package procmaps

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"zmudump/internal/emu"
)

// entry is one parsed /proc/<pid>/maps line plus its derived
// directory classification.
type entry struct {
	start, end uint64
	perm       emu.Perm
	path       string
	kind       emu.Kind
	name       string
}

// parseMaps reads /proc/<pid>/maps content and classifies each
// mapping. exe is the resolved target executable path, used to tell
// main-image mappings from other file-backed ones.
func parseMaps(r io.Reader, exe string) ([]entry, error) {
	var entries []entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := parseMapsLine(line)
		if err != nil {
			return nil, err
		}
		e.kind, e.name = classify(e, exe)
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading maps: %w", err)
	}
	return entries, nil
}

// parseMapsLine parses a single maps line:
//
//	00400000-00452000 r-xp 00000000 08:02 173521  /usr/bin/foo
func parseMapsLine(line string) (entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return entry{}, fmt.Errorf("malformed maps line: %q", line)
	}

	addrs := strings.SplitN(fields[0], "-", 2)
	if len(addrs) != 2 {
		return entry{}, fmt.Errorf("malformed address range: %q", fields[0])
	}
	start, err := strconv.ParseUint(addrs[0], 16, 64)
	if err != nil {
		return entry{}, fmt.Errorf("parsing start address: %w", err)
	}
	end, err := strconv.ParseUint(addrs[1], 16, 64)
	if err != nil {
		return entry{}, fmt.Errorf("parsing end address: %w", err)
	}
	if end <= start {
		return entry{}, fmt.Errorf("empty or inverted range: %q", fields[0])
	}

	e := entry{
		start: start,
		end:   end,
		perm:  parsePerm(fields[1]),
	}
	if len(fields) > 5 {
		e.path = strings.Join(fields[5:], " ")
	}
	return e, nil
}

// parsePerm maps the "rwxp" column to the host permission bits.
func parsePerm(s string) emu.Perm {
	var p emu.Perm
	if strings.ContainsRune(s, 'r') {
		p |= 0x1
	}
	if strings.ContainsRune(s, 'w') {
		p |= 0x2
	}
	if strings.ContainsRune(s, 'x') {
		p |= 0x4
	}
	return p
}

// classify derives the directory (kind, name) for a mapping.
func classify(e entry, exe string) (emu.Kind, string) {
	switch {
	case e.path == "[stack]":
		return emu.KindStack, "main"
	case e.path == "[heap]":
		return emu.KindHeap, "main_heap"
	case strings.HasPrefix(e.path, "["):
		// Kernel pseudo-mappings read unreliably through /proc/mem;
		// leave them unclassified so the policy skips them.
		return emu.KindUnknown, emu.UnknownName()
	case e.path == exe:
		return emu.KindMain, "main"
	case e.path != "":
		return emu.KindSection, filepath.Base(e.path)
	case e.perm&0x1 != 0:
		return emu.KindValloc, fmt.Sprintf("%08x", e.start)
	default:
		return emu.KindUnknown, emu.UnknownName()
	}
}
