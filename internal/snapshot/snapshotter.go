package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"zmudump/internal/artifact"
	"zmudump/internal/emu"
	"zmudump/internal/output"
	"zmudump/internal/policy"
)

// ArtifactExtension is appended to the loaded binary's name when the
// snapshot is triggered by the host's shutdown hook.
const ArtifactExtension = ".zmu"

// userCodeCeiling splits likely user code from higher-range addresses;
// traced functions at or above it are left out of the artifact.
const userCodeCeiling = 0x10000000

// Snapshotter captures the host's memory state into a snapshot
// artifact. Build one with New; a single instance may produce multiple
// snapshots, each assembled from scratch.
type Snapshotter struct {
	engine     emu.Engine
	mem        emu.AddressSpace
	dir        emu.Directory
	tracer     emu.Tracer
	classifier *policy.Classifier
	printer    *output.RegionPrinter
	log        *zap.Logger
}

// Options tune diagnostics. The zero value is usable: region lines go
// to stdout and logging is disabled.
type Options struct {
	// DiagnosticWriter receives one line per enumerated region.
	// Defaults to os.Stdout.
	DiagnosticWriter io.Writer
	// NoColor disables bold highlighting of dumped regions.
	NoColor bool
	// Logger receives advisory and policy-rejection messages.
	Logger *zap.Logger
}

// New wires a snapshotter to its host collaborators. tracer may be nil
// when the host has no execution tracer; heap may be nil when there is
// no managed heap.
func New(engine emu.Engine, mem emu.AddressSpace, dir emu.Directory,
	heap emu.Heap, tracer emu.Tracer, opts Options) *Snapshotter {

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	diag := opts.DiagnosticWriter
	if diag == nil {
		diag = os.Stdout
	}

	return &Snapshotter{
		engine:     engine,
		mem:        mem,
		dir:        dir,
		tracer:     tracer,
		classifier: policy.NewClassifier(mem, heap, log),
		printer:    output.NewRegionPrinter(diag, opts.NoColor),
		log:        log,
	}
}

// RegisterShutdownHook arranges for a snapshot to be written when the
// host shuts down, via the host's own callback registration. The
// artifact lands next to the originally loaded binary. A verbosity
// advisory is logged immediately: without verbose tracing the artifact
// will carry no instruction comments.
func (s *Snapshotter) RegisterShutdownHook(register func(func())) {
	if s.engine.Verbosity() == 0 {
		s.log.Warn("tracing verbosity is 0; snapshot will have no instruction comments")
	}

	register(func() {
		path := s.engine.OriginalFileName() + ArtifactExtension
		if err := s.SnapshotToFile(path); err != nil {
			s.log.Error("shutdown snapshot failed", zap.Error(err))
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		s.log.Info("wrote snapshot", zap.String("path", abs))
	})
}

// Snapshot captures the current memory state and writes the artifact
// to w. The document is fully assembled before the first byte is
// written; on error nothing reaches w.
func (s *Snapshotter) Snapshot(w io.Writer) error {
	doc, err := s.buildDocument()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}

// SnapshotToFile captures the current memory state into the file at
// path, or artifact.DefaultFileName when path is empty. A write
// failure removes the partial file; no artifact outlives a failed
// snapshot.
func (s *Snapshotter) SnapshotToFile(path string) error {
	if path == "" {
		path = artifact.DefaultFileName
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating artifact %s: %w", path, err)
	}

	if err := s.Snapshot(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("closing artifact %s: %w", path, err)
	}
	return nil
}

// buildDocument runs the enumerate → classify → filter → assemble
// pass and returns the complete in-memory document.
func (s *Snapshotter) buildDocument() (*artifact.Document, error) {
	doc := artifact.NewDocument(s.engine.Entrypoint())

	regions, err := s.enumerate()
	if err != nil {
		return nil, err
	}

	for _, r := range regions {
		res, err := s.classifier.Classify(r)
		if err != nil {
			return nil, err
		}

		dumped := res != nil
		if res != nil {
			// base_address is claimed by the first rule match even if
			// the filter drops the section's content below. The filter
			// sees the raw read, not truncated section content.
			doc.SetBaseAddress(r.Address)
			if s.classifier.BadSection(res.Raw) {
				dumped = false
			}
		}

		s.printer.Print(r, dumped)
		if dumped {
			doc.Sections = append(doc.Sections, res.Section)
		}
	}

	if s.tracer != nil {
		for _, c := range s.tracer.Comments() {
			doc.Comments = append(doc.Comments, artifact.Comment{
				Address:  c.Address,
				Text:     c.Text,
				ThreadID: c.ThreadID,
			})
		}
		for _, addr := range s.tracer.CalledFunctions() {
			if addr < userCodeCeiling {
				doc.Functions = append(doc.Functions, artifact.TracedFunction(addr))
			}
		}
	}

	return doc, nil
}
