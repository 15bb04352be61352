package itinerary

import (
	"encoding/json"
	"strings"
	"time"

	"wanderwise/utils"
)

// PreferenceVocabulary lists the trip preference tags the form offers.
var PreferenceVocabulary = map[string]bool{
	"historical":    true,
	"museums":       true,
	"restaurants":   true,
	"natural":       true,
	"shops":         true,
	"entertainment": true,
	"party":         true,
}

// TripRequest is the user-authored trip input. Field names and JSON keys
// are the wire shape forwarded to the generation service unchanged.
type TripRequest struct {
	Location    string   `json:"location"`
	Budget      float64  `json:"budget"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Preferences []string `json:"preferences"`
}

// FieldError reports a validation failure on a single form field. It is
// surfaced to the user and never reaches the network.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate enforces the submission guards: required fields, date order,
// no past dates, non-negative budget, known preference tags. now anchors
// the date checks.
func (t *TripRequest) Validate(now time.Time) error {
	if strings.TrimSpace(t.Location) == "" {
		return &FieldError{Field: "location", Message: "Location is required"}
	}

	start := utils.ParseDate(t.Start)
	if start == nil {
		return &FieldError{Field: "start", Message: "Start date must be in YYYY-MM-DD format"}
	}
	end := utils.ParseDate(t.End)
	if end == nil {
		return &FieldError{Field: "end", Message: "End date must be in YYYY-MM-DD format"}
	}

	if end.Before(*start) {
		return &FieldError{Field: "end", Message: "End date must not be before start date"}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return &FieldError{Field: "start", Message: "Start date must not be in the past"}
	}

	if t.Budget < 0 {
		return &FieldError{Field: "budget", Message: "Budget must not be negative"}
	}

	for _, p := range t.Preferences {
		if !PreferenceVocabulary[p] {
			return &FieldError{Field: "preferences", Message: "Unknown preference: " + p}
		}
	}

	return nil
}

// WireBody serializes the request for transmission. The request is
// treated as immutable from this point on.
func (t *TripRequest) WireBody() ([]byte, error) {
	if t.Preferences == nil {
		t.Preferences = []string{}
	}
	return json.Marshal(t)
}
