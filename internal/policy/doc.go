// Package policy decides which memory regions belong in a snapshot.
//
// Classification runs two gates in a fixed order:
//
//  1. Inclusion rules (Classify): a whitelist over the region's
//     directory (kind, name) pair. Main-image mappings, stacks, the
//     main heap, virtual allocations, and loaded sections get a
//     synthesized section; everything else is skipped without reading
//     memory.
//  2. Noise/size filter (BadSection): applied only to regions that
//     passed the whitelist and were read. Rejects sections larger than
//     downstream consumers can load and sections that are effectively
//     all zeros. The filter judges the full raw read even when the
//     section keeps only the truncated main-heap window.
//
// The order matters: a skipped region is never filtered, and a region
// that matched a rule still counts for base-address selection even if
// the filter later drops its content.
package policy
