package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONReporter outputs a report as indented JSON. Field names are the
// contract surface other tooling consumes (available_to_workloads,
// reasoning, resources.memory, resources.cpus).
type JSONReporter struct {
	w io.Writer
}

func (r *JSONReporter) Report(ctx context.Context, rep Report) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
