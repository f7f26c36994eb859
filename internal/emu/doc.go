// Package emu defines the contracts a host emulation environment must
// satisfy for memory snapshotting.
//
// The snapshot core never owns memory or trace state. Everything it
// needs is pulled through these interfaces:
//
//   - AddressSpace: region enumeration and raw memory reads
//   - Directory:    best-effort (kind, name) classification per region
//   - Heap:         base and current offset of the managed heap
//   - Tracer:       called-function addresses and per-address comments
//   - Engine:       entrypoint, loaded binary name, trace verbosity
//
// Implementations live with the host (or in procmaps for live Linux
// processes); the snapshot pipeline consumes them read-only and assumes
// point-in-time consistency for the duration of a single snapshot call.
package emu
