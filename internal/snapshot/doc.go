// Package snapshot orchestrates the memory snapshot pipeline.
//
// One call runs a single linear pass:
//
//	┌─────────────────────────────────────────┐
//	│   AddressSpace.Regions()                │
//	└─────────────────┬───────────────────────┘
//	                  │  sort ascending, annotate via Directory,
//	                  │  hard-exclude the descriptor-table region
//	                  ▼
//	┌─────────────────────────────────────────┐
//	│   policy.Classifier                     │  ← inclusion rules,
//	│   - synthesizes section name/perms      │    reads memory,
//	│   - main-heap truncation                │    first match sets
//	│   - noise/size filter                   │    base_address
//	└─────────────────┬───────────────────────┘
//	                  │  surviving sections, enumeration order
//	                  ▼
//	┌─────────────────────────────────────────┐
//	│   artifact.Document                     │  ← + tracer comments,
//	│   "DISAS" header + canonical JSON       │    + traced functions
//	└─────────────────────────────────────────┘
//
// The document is assembled fully in memory and written to the sink in
// one pass, so a failed snapshot never leaves a partial artifact. No
// retries, no resumption: any stage failure aborts the whole snapshot.
package snapshot
