package policy

import "go.uber.org/zap"

// maxSectionBytes is the size above which downstream consumers cannot
// load the artifact.
const maxSectionBytes uint64 = 0x100000000

// zeroNoiseThreshold is the zero-byte fraction above which a region is
// treated as content-free.
const zeroNoiseThreshold = 0.999999

// BadSection reports whether a region's content should be dropped from
// the artifact. It judges the raw region read, never truncated section
// content. Rejections are logged at info level for operator diagnosis;
// they are policy, not errors.
func (c *Classifier) BadSection(data []byte) bool {
	if tooLarge(uint64(len(data))) {
		c.log.Info("section too large, dropping",
			zap.Uint64("bytes", uint64(len(data))))
		return true
	}

	if pct := zeroFraction(data); pct > zeroNoiseThreshold {
		c.log.Info("section is mostly zeros, dropping",
			zap.Float64("zero_fraction", pct))
		return true
	}

	return false
}

func tooLarge(n uint64) bool {
	return n > maxSectionBytes
}

// zeroFraction returns the fraction of zero bytes. Region reads are
// never empty (regions have non-zero size), but empty data counts as
// all zeros so a degenerate caller falls to the noise filter rather
// than dividing by zero.
func zeroFraction(data []byte) float64 {
	if len(data) == 0 {
		return 1.0
	}
	zeros := 0
	for _, b := range data {
		if b == 0 {
			zeros++
		}
	}
	return float64(zeros) / float64(len(data))
}
