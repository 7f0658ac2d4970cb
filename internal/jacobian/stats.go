package jacobian

import "sync/atomic"

// Stats counts how often accumulation kept the factored form.
type Stats struct {
	FastFMA    int64 // FMA/Add calls served by summing diagonals
	SlowFMA    int64 // FMA/Add calls that fell back to sparse addition
	Structural int64 // VStack/RDot/Sum materializations
}

var fastFMA, slowFMA, structural atomic.Int64

// ReadStats returns the process-wide counters.
func ReadStats() Stats {
	return Stats{
		FastFMA:    fastFMA.Load(),
		SlowFMA:    slowFMA.Load(),
		Structural: structural.Load(),
	}
}

// ResetStats zeroes the counters.
func ResetStats() {
	fastFMA.Store(0)
	slowFMA.Store(0)
	structural.Store(0)
}
