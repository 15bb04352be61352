package itinerary

import (
	"encoding/json"

	"wanderwise/models"
)

// SectionStatus is the explicit success/failure discriminator for the
// optional sections of a generation response. A section is ok only when
// it is present and decodes as its expected array shape; an empty array
// is ok with zero items. Absence, null, or a wrong shape means the
// upstream scraper for that section failed.
type SectionStatus string

const (
	SectionOK     SectionStatus = "ok"
	SectionFailed SectionStatus = "failed"
)

type DaySection struct {
	Status  SectionStatus    `json:"status"`
	Days    []models.DayPlan `json:"days,omitempty"`
	Message string           `json:"message,omitempty"`
}

type HotelSection struct {
	Status  SectionStatus  `json:"status"`
	Hotels  []models.Hotel `json:"hotels,omitempty"`
	Message string         `json:"message,omitempty"`
}

type ActivitySection struct {
	Status  SectionStatus `json:"status"`
	URLs    []string      `json:"urls,omitempty"`
	Message string        `json:"message,omitempty"`
}

type CoordSection struct {
	Status SectionStatus `json:"status"`
	Pairs  [][]float64   `json:"pairs,omitempty"`
}

// Result is the typed view of a generation response. Sections never
// co-occur by guarantee; each one stands or fails on its own.
type Result struct {
	Itinerary   DaySection      `json:"itinerary"`
	Hotels      HotelSection    `json:"hotels"`
	Activities  ActivitySection `json:"activities"`
	Coordinates CoordSection    `json:"coordinates"`
}

// ParseResult normalizes the upstream's loose JSON body. It never fails:
// a body that is not even a JSON object yields a Result with every
// section failed.
func ParseResult(raw json.RawMessage) Result {
	var res Result
	res.Itinerary = DaySection{Status: SectionFailed, Message: "Could not fetch itinerary"}
	res.Hotels = HotelSection{Status: SectionFailed, Message: "Could not fetch hotels"}
	res.Activities = ActivitySection{Status: SectionFailed, Message: "Could not fetch activities"}
	res.Coordinates = CoordSection{Status: SectionFailed}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return res
	}

	if sec, ok := body["itinerary"]; ok {
		var days []models.DayPlan
		if err := json.Unmarshal(sec, &days); err == nil && days != nil {
			res.Itinerary = DaySection{Status: SectionOK, Days: days}
		}
	}

	if sec, ok := body["hotels"]; ok {
		var hotels []models.Hotel
		if err := json.Unmarshal(sec, &hotels); err == nil && hotels != nil {
			res.Hotels = HotelSection{Status: SectionOK, Hotels: hotels}
		}
	}

	if sec, ok := body["activities"]; ok {
		var urls []string
		if err := json.Unmarshal(sec, &urls); err == nil && urls != nil {
			res.Activities = ActivitySection{Status: SectionOK, URLs: urls}
		}
	}

	if sec, ok := body["coordinates"]; ok {
		var pairs [][]float64
		if err := json.Unmarshal(sec, &pairs); err == nil && pairs != nil {
			res.Coordinates = CoordSection{Status: SectionOK, Pairs: pairs}
		}
	}

	return res
}
