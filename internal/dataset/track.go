// Package dataset defines the track schema shared by every pipeline stage
// and the CSV files that carry it between them.
package dataset

// Mood is a categorical label summarizing a song's emotional tone.
type Mood string

// The closed set of mood labels. Training data carries one of these;
// catalog tracks carry one once predicted.
const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodEnergetic Mood = "energetic"
	MoodCalm      Mood = "calm"
)

// Moods lists all valid mood labels in canonical (lexicographic) order.
func Moods() []Mood {
	return []Mood{MoodCalm, MoodEnergetic, MoodHappy, MoodSad}
}

// Valid reports whether m is one of the known mood labels.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodEnergetic, MoodCalm:
		return true
	}
	return false
}

// FeatureNames lists the audio features used as the model feature vector,
// in vector order. Every stage keys on this order.
var FeatureNames = []string{
	"danceability",
	"energy",
	"loudness",
	"speechiness",
	"acousticness",
	"instrumentalness",
	"liveness",
	"valence",
	"tempo",
}

// NumFeatures is the fixed dimensionality of the audio feature vector.
const NumFeatures = 9

// Features holds a track's audio features. Fields are nil when the value
// was absent from the API response or the CSV cell was empty.
type Features struct {
	Danceability     *float64
	Energy           *float64
	Loudness         *float64
	Speechiness      *float64
	Acousticness     *float64
	Instrumentalness *float64
	Liveness         *float64
	Valence          *float64
	Tempo            *float64
}

// fields returns the feature fields in vector order.
func (f *Features) fields() []*float64 {
	return []*float64{
		f.Danceability,
		f.Energy,
		f.Loudness,
		f.Speechiness,
		f.Acousticness,
		f.Instrumentalness,
		f.Liveness,
		f.Valence,
		f.Tempo,
	}
}

// Complete reports whether every feature value is present.
func (f *Features) Complete() bool {
	for _, v := range f.fields() {
		if v == nil {
			return false
		}
	}
	return true
}

// Vector returns the feature values in vector order.
// The second return is false when any value is missing.
func (f *Features) Vector() ([]float64, bool) {
	vec := make([]float64, 0, NumFeatures)
	for _, v := range f.fields() {
		if v == nil {
			return nil, false
		}
		vec = append(vec, *v)
	}
	return vec, true
}

// InRange reports whether every present feature value lies in its valid
// range: proportions in [0, 1], loudness in [-60, 0] dB, tempo in (0, 300] BPM.
func (f *Features) InRange() bool {
	proportions := []*float64{
		f.Danceability, f.Energy, f.Speechiness,
		f.Acousticness, f.Instrumentalness, f.Liveness, f.Valence,
	}
	for _, v := range proportions {
		if v != nil && (*v < 0 || *v > 1) {
			return false
		}
	}
	if f.Loudness != nil && (*f.Loudness < -60 || *f.Loudness > 0) {
		return false
	}
	if f.Tempo != nil && (*f.Tempo <= 0 || *f.Tempo > 300) {
		return false
	}
	return true
}

// Track is one song with its metadata and audio features.
// Mood is empty until assigned during acquisition or predicted by the
// classifier. TimeRange is only set for user top-track rows.
type Track struct {
	TrackID    string
	Name       string
	ArtistID   string
	ArtistName string
	AlbumID    string
	AlbumName  string
	Popularity int
	Genres     []string
	Mood       Mood
	TimeRange  string
	Features   Features
}

// Artist is the weak artist reference written to artists.csv.
type Artist struct {
	ArtistID string
	Name     string
	Genres   []string
}

// Float64 returns a pointer to v. Convenience for building Features values.
func Float64(v float64) *float64 {
	return &v
}
