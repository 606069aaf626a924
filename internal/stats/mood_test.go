package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		tempo float64
		mode  int
		want  MoodLabel
	}{
		{125, 1, FastMajor},
		{125, 0, FastMinor},
		{90, 1, SlowMajor},
		{90, 0, SlowMinor},
		{110, 1, MediumMajor},
		{110, 0, MediumMinor},
		// Boundary tempos are medium, not fast or slow.
		{120, 1, MediumMajor},
		{120, 0, MediumMinor},
		{100, 1, MediumMajor},
		{100, 0, MediumMinor},
	}
	for _, c := range cases {
		got := Classify(c.tempo, c.mode)
		assert.Equalf(t, c.want, got, "Classify(%v, %d)", c.tempo, c.mode)
	}
}

func TestBucketizeSharesSumToHundred(t *testing.T) {
	tracks := []AnalyzedTrack{
		{TrackName: "a", Tempo: 130, Mode: 1, HasAnalysis: true},
		{TrackName: "b", Tempo: 131, Mode: 1, HasAnalysis: true},
		{TrackName: "c", Tempo: 90, Mode: 0, HasAnalysis: true},
		{TrackName: "d", Tempo: 110, Mode: 1, HasAnalysis: true},
		{TrackName: "e", Tempo: 111, Mode: 0, HasAnalysis: true},
		{TrackName: "f", Tempo: 112, Mode: 0, HasAnalysis: true},
		{TrackName: "g", Tempo: 113, Mode: 0, HasAnalysis: true},
	}

	buckets, err := Bucketize(tracks)
	require.NoError(t, err)

	var total float64
	var count int
	for _, bucket := range buckets {
		total += bucket.Percentage
		count += bucket.Count
	}
	assert.InDelta(t, 100.0, total, 0.01)
	assert.Equal(t, len(tracks), count)

	// Largest bucket first.
	assert.Equal(t, MediumMinor, buckets[0].Mood)
	assert.Equal(t, 3, buckets[0].Count)
}

func TestBucketizeExcludesUnanalyzedTracks(t *testing.T) {
	tracks := []AnalyzedTrack{
		{TrackName: "a", Tempo: 130, Mode: 1, HasAnalysis: true},
		{TrackName: "b", HasAnalysis: false},
	}

	buckets, err := Bucketize(tracks)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 1, buckets[0].Count)
	assert.InDelta(t, 100.0, buckets[0].Percentage, 0.001)
}

func TestBucketizeNothingClassifiable(t *testing.T) {
	tracks := []AnalyzedTrack{
		{TrackName: "a", HasAnalysis: false},
		{TrackName: "b", HasAnalysis: false},
	}

	_, err := Bucketize(tracks)
	assert.ErrorIs(t, err, ErrNoAnalysisAvailable)

	_, err = Bucketize(nil)
	assert.ErrorIs(t, err, ErrNoAnalysisAvailable)
}

func TestBucketizeCapsSamples(t *testing.T) {
	var tracks []AnalyzedTrack
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		tracks = append(tracks, AnalyzedTrack{TrackName: name, Tempo: 130, Mode: 1, HasAnalysis: true})
	}

	buckets, err := Bucketize(tracks)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 5, buckets[0].Count)
	assert.Equal(t, []string{"a", "b", "c"}, buckets[0].Samples)
}
