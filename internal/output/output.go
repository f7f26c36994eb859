// Package output renders per-region diagnostic lines for operator
// visibility. Every enumerated region gets one line; regions that made
// it into the artifact are bolded when writing to a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"zmudump/internal/emu"
)

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// RegionPrinter writes one diagnostic line per enumerated region.
type RegionPrinter struct {
	w     io.Writer
	color bool
}

// NewRegionPrinter builds a printer for w. Bold highlighting is used
// only when w is a terminal and noColor is false. A nil w silences the
// printer.
func NewRegionPrinter(w io.Writer, noColor bool) *RegionPrinter {
	if w == nil {
		return &RegionPrinter{w: io.Discard}
	}
	color := false
	if f, ok := w.(*os.File); ok && !noColor {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &RegionPrinter{w: w, color: color}
}

// Print writes the line for one region. dumped marks regions whose
// section was written to the artifact.
func (p *RegionPrinter) Print(r emu.Region, dumped bool) {
	line := FormatRegion(r)
	if dumped && p.color {
		line = ansiBold + line + ansiReset
	}
	fmt.Fprintln(p.w, line)
}

// FormatRegion renders the fixed-layout diagnostic line for a region.
func FormatRegion(r emu.Region) string {
	return fmt.Sprintf("Region: 0x%08x Size: 0x%08x Perm: 0x%x \t%s\t\t%s",
		r.Address, r.Size, int(r.Perm), r.Kind, r.Name)
}
