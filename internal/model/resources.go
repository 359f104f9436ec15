// Package model holds the core domain types: resource vectors, cluster
// topologies, instance types, and the estimate/fit/sizing result shapes.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"k8s.io/apimachinery/pkg/api/resource"
)

// Byte size units.
const (
	MiB int64 = 1024 * 1024
	GiB int64 = 1024 * MiB
)

// Dimension names one axis of resource capacity. Quantities are integral
// base units: bytes for memory, logical cores for cpus.
type Dimension string

const (
	DimMemory Dimension = "memory"
	DimCPUs   Dimension = "cpus"
)

// canonicalRank orders the well-known dimensions; anything else sorts
// lexicographically after them. The order matters for binding-constraint
// tie-breaks and for stable output.
func canonicalRank(d Dimension) int {
	switch d {
	case DimMemory:
		return 0
	case DimCPUs:
		return 1
	default:
		return 2
	}
}

// ResourceVector is a non-negative quantity per dimension. A missing
// dimension means zero. Vectors are open: arithmetic works over the union of
// dimensions, so new axes (e.g. hugepages) need no type changes.
type ResourceVector map[Dimension]int64

// NewResourceVector builds a vector from the two common dimensions.
func NewResourceVector(memoryBytes, cpus int64) ResourceVector {
	return ResourceVector{
		DimMemory: memoryBytes,
		DimCPUs:   cpus,
	}
}

// Get returns the quantity for a dimension, zero when absent.
func (v ResourceVector) Get(d Dimension) int64 {
	return v[d]
}

// Clone returns an independent copy.
func (v ResourceVector) Clone() ResourceVector {
	out := make(ResourceVector, len(v))
	for d, q := range v {
		out[d] = q
	}
	return out
}

// IsZero reports whether every dimension is zero or absent.
func (v ResourceVector) IsZero() bool {
	for _, q := range v {
		if q != 0 {
			return false
		}
	}
	return true
}

// Dimensions returns the vector's non-zero dimensions in canonical order.
func (v ResourceVector) Dimensions() []Dimension {
	return CanonicalDimensions(v)
}

// Equal reports whether the vectors carry the same quantity in every
// dimension, treating missing dimensions as zero.
func (v ResourceVector) Equal(o ResourceVector) bool {
	for d, q := range v {
		if o[d] != q {
			return false
		}
	}
	for d, q := range o {
		if v[d] != q {
			return false
		}
	}
	return true
}

// Add returns the element-wise sum over the union of dimensions.
func (v ResourceVector) Add(o ResourceVector) ResourceVector {
	out := v.Clone()
	for d, q := range o {
		out[d] += q
	}
	return out
}

// Sub returns the element-wise difference, clamped at zero per dimension.
// Capacity arithmetic never goes negative; use Delta for signed results.
func (v ResourceVector) Sub(o ResourceVector) ResourceVector {
	out := v.Clone()
	for d, q := range o {
		r := out[d] - q
		if r < 0 {
			r = 0
		}
		out[d] = r
	}
	return out
}

// Delta returns the signed element-wise difference v - o over the union of
// dimensions. Negative entries mean o exceeds v there.
func (v ResourceVector) Delta(o ResourceVector) ResourceDelta {
	out := make(ResourceDelta, len(v))
	for d, q := range v {
		out[d] = q
	}
	for d, q := range o {
		out[d] -= q
	}
	return out
}

// ScaleCount multiplies every dimension by an integer count.
func (v ResourceVector) ScaleCount(n int64) ResourceVector {
	out := make(ResourceVector, len(v))
	for d, q := range v {
		out[d] = q * n
	}
	return out
}

// ScaleDimension multiplies a single dimension by a factor, flooring the
// result. Other dimensions pass through unchanged.
func (v ResourceVector) ScaleDimension(d Dimension, factor float64) ResourceVector {
	out := v.Clone()
	out[d] = int64(math.Floor(float64(out[d]) * factor))
	return out
}

// FitsWithin reports whether every dimension of v is covered by have.
func (v ResourceVector) FitsWithin(have ResourceVector) bool {
	for d, q := range v {
		if q > have[d] {
			return false
		}
	}
	return true
}

// Ratio returns floor(v / need) for every dimension need constrains
// (positive quantity). Dimensions need has no demand for never appear.
func (v ResourceVector) Ratio(need ResourceVector) map[Dimension]int64 {
	out := make(map[Dimension]int64)
	for d, q := range need {
		if q <= 0 {
			continue
		}
		out[d] = v[d] / q
	}
	return out
}

// ResourceDelta is a signed quantity per dimension, the result of comparing
// two vectors.
type ResourceDelta map[Dimension]int64

// Dimensions returns the delta's non-zero dimensions in canonical order.
func (d ResourceDelta) Dimensions() []Dimension {
	var dims []Dimension
	for dim, q := range d {
		if q != 0 {
			dims = append(dims, dim)
		}
	}
	sortDimensions(dims)
	return dims
}

// CanonicalDimensions returns the union of non-zero dimensions of the given
// vectors, ordered memory, cpus, then lexicographically.
func CanonicalDimensions(vs ...ResourceVector) []Dimension {
	seen := make(map[Dimension]bool)
	var dims []Dimension
	for _, v := range vs {
		for d, q := range v {
			if q == 0 || seen[d] {
				continue
			}
			seen[d] = true
			dims = append(dims, d)
		}
	}
	sortDimensions(dims)
	return dims
}

func sortDimensions(dims []Dimension) {
	sort.Slice(dims, func(i, j int) bool {
		ri, rj := canonicalRank(dims[i]), canonicalRank(dims[j])
		if ri != rj {
			return ri < rj
		}
		return dims[i] < dims[j]
	})
}

// UnmarshalJSON accepts plain numbers or humane quantity strings ("256Gi")
// and rejects negative quantities.
func (v *ResourceVector) UnmarshalJSON(data []byte) error {
	var raw map[Dimension]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(ResourceVector, len(raw))
	for d, msg := range raw {
		var n int64
		if err := json.Unmarshal(msg, &n); err == nil {
			if n < 0 {
				return fmt.Errorf("dimension %q: quantity must be non-negative, got %d", d, n)
			}
			out[d] = n
			continue
		}

		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return fmt.Errorf("dimension %q: expected a number or quantity string", d)
		}
		q, err := resource.ParseQuantity(s)
		if err != nil {
			return fmt.Errorf("dimension %q: parsing %q: %w", d, s, err)
		}
		if q.Sign() < 0 {
			return fmt.Errorf("dimension %q: quantity must be non-negative, got %s", d, s)
		}
		out[d] = q.Value()
	}

	*v = out
	return nil
}
