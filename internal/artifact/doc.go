// Package artifact defines the snapshot document and its serialized
// form.
//
// The on-disk artifact is a literal "DISAS" header line followed by the
// document as pretty-printed JSON (indent 4, object keys sorted, binary
// data base64-encoded). Key ordering is fixed by declaring struct
// fields in alphabetical key order, so encoding is deterministic
// without a canonicalization round-trip; Decode exists for consumers
// and for verifying that encode/decode/encode is byte-stable.
package artifact
