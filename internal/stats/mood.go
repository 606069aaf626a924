package stats

import "sort"

// Mood bucket membership keeps at most this many example track names.
const moodSampleLimit = 3

// Classify maps tempo and major/minor mode onto one of six mood labels.
// The thresholds partition the tempo axis: strictly above 120 is fast,
// strictly below 100 is slow, everything between is medium.
func Classify(tempo float64, mode int) MoodLabel {
	switch {
	case tempo > 120 && mode == 1:
		return FastMajor
	case tempo > 120:
		return FastMinor
	case tempo < 100 && mode == 1:
		return SlowMajor
	case tempo < 100:
		return SlowMinor
	case mode == 1:
		return MediumMajor
	default:
		return MediumMinor
	}
}

// Bucketize groups analyzed tracks by mood label and computes each
// label's share of the classified total. Tracks without analysis are
// excluded rather than defaulted; if nothing is classifiable the result
// is ErrNoAnalysisAvailable. Percentages sum to 100 across the buckets,
// because every classified track lands in exactly one label.
func Bucketize(tracks []AnalyzedTrack) ([]MoodBucket, error) {
	buckets := make(map[MoodLabel]*MoodBucket)
	order := make([]MoodLabel, 0)

	classified := 0
	for _, track := range tracks {
		if !track.HasAnalysis {
			continue
		}
		classified++

		mood := Classify(track.Tempo, track.Mode)
		bucket, ok := buckets[mood]
		if !ok {
			bucket = &MoodBucket{Mood: mood}
			buckets[mood] = bucket
			order = append(order, mood)
		}
		bucket.Count++
		if len(bucket.Samples) < moodSampleLimit {
			bucket.Samples = append(bucket.Samples, track.TrackName)
		}
	}

	if classified == 0 {
		return nil, ErrNoAnalysisAvailable
	}

	result := make([]MoodBucket, 0, len(order))
	for _, mood := range order {
		bucket := *buckets[mood]
		bucket.Percentage = 100 * float64(bucket.Count) / float64(classified)
		result = append(result, bucket)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Percentage > result[j].Percentage
	})
	return result, nil
}
