package suggest

import (
	"sort"

	"flyer-studio/pkg/geometry"
)

// FilterCandidates orders candidates largest first, drops outlines nested
// inside an already kept one, and returns at most max results. Detection
// tends to find both a panel's border and the color block just inside it;
// keeping only the outermost of each pair avoids stacked duplicate zones.
func FilterCandidates(candidates []Candidate, max int) []Candidate {
	sorted := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Points) >= 3 {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area > sorted[j].Area
	})

	kept := make([]Candidate, 0, max)
	for _, c := range sorted {
		if nestedInAny(c, kept) {
			continue
		}
		kept = append(kept, c)
		if len(kept) == max {
			break
		}
	}
	return kept
}

// nestedInAny reports whether the candidate's anchor point falls inside any
// kept outline. Kept outlines are at least as large, so anchor containment
// is enough to call it a duplicate.
func nestedInAny(c Candidate, kept []Candidate) bool {
	anchor := geometry.LabelAnchor(c.Points)
	for _, k := range kept {
		if geometry.PointInPolygon(anchor, k.Points) {
			return true
		}
	}
	return false
}
