package domain

const (
	// TimeoutToken settles a race when the round clock runs out or the round is stopped.
	TimeoutToken = "TIMEOUT"
	// MissToken is supplied by the map collaborator when a click hits no known country.
	MissToken = "MISS"
	// Unknown replaces any record field that was absent from the feeds.
	Unknown = "Unknown"
	// NoBorders is the borders value for countries without resolvable neighbours.
	NoBorders = "none"
)

// CountryInfo is one entry of the country-info feed. Pointer fields keep
// "absent" apart from zero values.
type CountryInfo struct {
	Code       string   `json:"cca3"`
	Name       string   `json:"name,omitempty"`
	Capitals   []string `json:"capital,omitempty"`
	Region     string   `json:"region,omitempty"`
	Borders    []any    `json:"borders,omitempty"`
	Population *int64   `json:"population,omitempty"`
	Area       *float64 `json:"area,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	Currencies []string `json:"currencies,omitempty"`
	Timezones  []string `json:"timezones,omitempty"`
}

// CountryShape is one feature of the border/shape dataset.
type CountryShape struct {
	Code    string
	Name    string
	Borders []any
}

// CountryRecord is the resolved, display-ready view of a country.
type CountryRecord struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Capital    string `json:"capital"`
	Region     string `json:"region"`
	Population string `json:"population"`
	Area       string `json:"area"`
	Languages  string `json:"languages"`
	Currencies string `json:"currencies"`
	Timezones  string `json:"timezones"`
	Borders    string `json:"borders"`
}

// Values exposes the record as template placeholders keyed by field name.
func (r CountryRecord) Values() map[string]any {
	return map[string]any{
		"code":       r.Code,
		"name":       r.Name,
		"capital":    r.Capital,
		"region":     r.Region,
		"population": r.Population,
		"area":       r.Area,
		"languages":  r.Languages,
		"currencies": r.Currencies,
		"timezones":  r.Timezones,
		"borders":    r.Borders,
	}
}

// QAPair is a generated question and the canonical country name that answers it.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"-"`
}

// RoundStatus is a read-only snapshot of a quiz session.
type RoundStatus struct {
	SessionID string `json:"sessionId"`
	Running   bool   `json:"running"`
	Score     int    `json:"score"`
	Remaining int    `json:"remaining"`
	Question  string `json:"question,omitempty"`
}

// Event types pushed to the presentation layer.
const (
	EventQuestion   = "question"
	EventTime       = "time"
	EventScore      = "score"
	EventFeedback   = "feedback"
	EventRoundEnded = "roundEnded"
)

// Event is a presentation update produced by a running session.
type Event struct {
	Type     string `json:"type"`
	Question string `json:"question,omitempty"`
	Seconds  int    `json:"seconds"`
	Score    int    `json:"score"`
	Correct  bool   `json:"correct"`
}
