package snapshot

import (
	"fmt"
	"sort"

	"zmudump/internal/emu"
)

// gdtAddress is the reserved descriptor-table region. It is excluded
// unconditionally, before any classification runs.
const gdtAddress = 0x80000000

// enumerate returns the host's regions in ascending address order,
// each annotated with its directory classification (or the unknown
// marker), with the descriptor-table region already removed.
func (s *Snapshotter) enumerate() ([]emu.Region, error) {
	maps, err := s.mem.Regions()
	if err != nil {
		return nil, fmt.Errorf("listing regions: %w", err)
	}

	sort.Slice(maps, func(i, j int) bool {
		return maps[i].Address < maps[j].Address
	})

	regions := make([]emu.Region, 0, len(maps))
	for _, m := range maps {
		if m.Address == gdtAddress {
			continue
		}

		kind, name := emu.KindUnknown, emu.UnknownName()
		if s.dir != nil {
			if k, n, ok := s.dir.Lookup(m.Address); ok {
				kind, name = k, n
			}
		}

		regions = append(regions, emu.Region{
			Address: m.Address,
			Size:    m.Size,
			Perm:    m.Perm,
			Kind:    kind,
			Name:    name,
		})
	}
	return regions, nil
}
