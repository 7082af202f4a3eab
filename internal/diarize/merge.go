package diarize

import "sort"

// Merge sorts turns by start time (end time as tie-break) and merges
// consecutive turns of the same speaker whose gap is at most collar seconds.
// Overlapping same-speaker turns always merge into their union since the gap
// is negative. The result is ordered by start and idempotent under repeated
// merging with the same collar.
func Merge(turns []Turn, collar float64) []Turn {
	if len(turns) == 0 {
		return nil
	}

	sorted := make([]Turn, len(turns))
	copy(sorted, turns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := make([]Turn, 0, len(sorted))
	current := sorted[0]
	for _, t := range sorted[1:] {
		if t.Speaker == current.Speaker && t.Start-current.End <= collar {
			if t.End > current.End {
				current.End = t.End
			}
			continue
		}
		merged = append(merged, current)
		current = t
	}
	merged = append(merged, current)

	return merged
}
