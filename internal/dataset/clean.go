package dataset

// DropReport counts rows removed by Clean, split by reason.
type DropReport struct {
	Missing    int // one or more feature values absent
	OutOfRange int // a feature value outside its valid range
}

// Total returns the total number of dropped rows.
func (r DropReport) Total() int {
	return r.Missing + r.OutOfRange
}

// Clean returns the tracks with a complete, in-range feature vector.
// Rows failing either check are dropped and counted, never imputed or
// clamped. Input order is preserved.
func Clean(tracks []Track) ([]Track, DropReport) {
	var report DropReport
	kept := make([]Track, 0, len(tracks))

	for _, t := range tracks {
		if !t.Features.Complete() {
			report.Missing++
			continue
		}
		if !t.Features.InRange() {
			report.OutOfRange++
			continue
		}
		kept = append(kept, t)
	}

	return kept, report
}

// CleanLabeled is Clean restricted to rows that also carry a valid mood
// label. Rows with a missing or unknown label count as missing.
func CleanLabeled(tracks []Track) ([]Track, DropReport) {
	cleaned, report := Clean(tracks)

	kept := make([]Track, 0, len(cleaned))
	for _, t := range cleaned {
		if !t.Mood.Valid() {
			report.Missing++
			continue
		}
		kept = append(kept, t)
	}
	return kept, report
}

// Dedupe removes tracks with a TrackID already seen earlier in the slice.
// Playlists for different moods frequently share songs; the first
// occurrence (and therefore its mood label) wins.
func Dedupe(tracks []Track) []Track {
	seen := make(map[string]bool, len(tracks))
	kept := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if seen[t.TrackID] {
			continue
		}
		seen[t.TrackID] = true
		kept = append(kept, t)
	}
	return kept
}
