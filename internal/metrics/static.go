package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmsizer/vmsizer/internal/capacity"
)

// StaticCollector loads an overhead profile from a JSON file, typically one
// written by 'vmsizer measure'. Used for offline analysis and CI pipelines.
type StaticCollector struct {
	filePath string
	profile  *capacity.OverheadProfile
}

// NewStaticCollector creates a collector that reads from a JSON file.
func NewStaticCollector(filePath string) *StaticCollector {
	return &StaticCollector{filePath: filePath}
}

// NewStaticCollectorFromProfile creates a collector from a pre-built profile.
func NewStaticCollectorFromProfile(p capacity.OverheadProfile) *StaticCollector {
	return &StaticCollector{profile: &p}
}

// Ping checks that the file exists.
func (s *StaticCollector) Ping(ctx context.Context) error {
	if s.profile != nil {
		return nil
	}
	if _, err := os.Stat(s.filePath); err != nil {
		return fmt.Errorf("overhead profile file: %w", err)
	}
	return nil
}

// Source returns "static".
func (s *StaticCollector) Source() string {
	return "static"
}

// Measure loads the overhead profile from the file.
func (s *StaticCollector) Measure(ctx context.Context, opts MeasureOptions) (capacity.OverheadProfile, error) {
	if s.profile != nil {
		return *s.profile, nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return capacity.OverheadProfile{}, fmt.Errorf("reading overhead profile: %w", err)
	}

	var profile capacity.OverheadProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return capacity.OverheadProfile{}, fmt.Errorf("parsing overhead profile: %w", err)
	}

	if profile.NodeSystemTax.IsZero() && profile.ClusterBuffer.IsZero() {
		return capacity.OverheadProfile{}, ErrNoOverheadData
	}

	return profile, nil
}
