package model

// InstanceType describes one class of workload instance: what the guest
// itself requests, the fixed platform tax each instance incurs (e.g. a
// management agent), and per-instance headroom that is reserved but not
// guest-visible.
type InstanceType struct {
	Name                string         `json:"name"`
	Guest               ResourceVector `json:"guest"`
	ConsumedBySystem    ResourceVector `json:"consumed_by_system"`
	ReservedForOverhead ResourceVector `json:"reserved_for_overhead"`
}

// Footprint returns the effective per-instance resource consumption:
// guest + consumed_by_system + reserved_for_overhead.
func (it InstanceType) Footprint() ResourceVector {
	return it.Guest.Add(it.ConsumedBySystem).Add(it.ReservedForOverhead)
}

// Workload is a desired or hypothetical number of instances of one type.
type Workload struct {
	InstanceType InstanceType `json:"instance_type"`
	VMCount      int64        `json:"vm_count"`
}

// RequiredResources returns the guest-visible resources the workload
// requests in aggregate. System tax and reserved overhead are accounted for
// by the fitting engine via Footprint, not here.
func (w Workload) RequiredResources() ResourceVector {
	return w.InstanceType.Guest.ScaleCount(w.VMCount)
}
