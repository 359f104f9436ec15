package report

import (
	"fmt"

	"github.com/vmsizer/vmsizer/internal/model"
)

// formatQuantity renders a dimension quantity for humans: memory as
// GiB/MiB/bytes, everything else as a plain count.
func formatQuantity(d model.Dimension, q int64) string {
	if d != model.DimMemory {
		return fmt.Sprintf("%d", q)
	}
	return formatBytes(q)
}

func formatBytes(b int64) string {
	neg := ""
	if b < 0 {
		neg = "-"
		b = -b
	}
	switch {
	case b >= model.GiB:
		return fmt.Sprintf("%s%.1f GiB", neg, float64(b)/float64(model.GiB))
	case b >= model.MiB:
		return fmt.Sprintf("%s%.1f MiB", neg, float64(b)/float64(model.MiB))
	default:
		return fmt.Sprintf("%s%d B", neg, b)
	}
}

// formatVector renders a vector as "memory=20.0 GiB cpus=8".
func formatVector(v model.ResourceVector) string {
	out := ""
	for _, d := range model.CanonicalDimensions(v) {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s=%s", d, formatQuantity(d, v.Get(d)))
	}
	if out == "" {
		return "none"
	}
	return out
}

// formatDelta renders a signed delta, prefixing surpluses with "+".
func formatDelta(delta model.ResourceDelta) string {
	out := ""
	for _, d := range delta.Dimensions() {
		if out != "" {
			out += " "
		}
		q := delta[d]
		sign := ""
		if q > 0 {
			sign = "+"
		}
		out += fmt.Sprintf("%s=%s%s", d, sign, formatQuantity(d, q))
	}
	if out == "" {
		return "none"
	}
	return out
}
