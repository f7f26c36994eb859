// Package procmaps implements the emu provider contracts for a live
// Linux process, backed by the /proc filesystem.
//
// /proc/<pid>/maps supplies the region list and a best-effort
// directory classification: the target executable's mappings map to
// the main kind, [stack] and [heap] to stacks and the main heap,
// other file-backed mappings to sections, and readable anonymous
// mappings to virtual allocations. Kernel pseudo-mappings ([vdso],
// [vvar], [vsyscall]) and unreadable anonymous mappings stay
// unclassified so the snapshot policy skips them instead of failing
// the read.
//
// Region content comes from /proc/<pid>/mem, the entrypoint from
// AT_ENTRY in /proc/<pid>/auxv.
package procmaps
