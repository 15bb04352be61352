package itinerary

import (
	"strings"
	"testing"

	"wanderwise/models"
)

func TestSummarizeTruncatesNarrative(t *testing.T) {
	long := strings.Repeat("See the old town and nearby beaches. ", 20)
	rec := models.SavedItinerary{
		ItineraryID: "abc",
		UserID:      "u1",
		Place:       "Porto",
		Budget:      900,
		Preferences: []string{"historical"},
		Itinerary: []models.DayPlan{
			{DayNum: 1, Narrative: long, ApproxCost: 100},
			{DayNum: 2, Narrative: "Second day.", ApproxCost: 80},
		},
	}

	sum := Summarize(rec)

	if sum.Days != 2 {
		t.Errorf("expected 2 days, got %d", sum.Days)
	}
	if !strings.HasSuffix(sum.Preview, "...") {
		t.Errorf("expected trailing ellipsis, got %q", sum.Preview)
	}
	if len([]rune(sum.Preview)) > previewLength+3 {
		t.Errorf("preview too long: %d runes", len([]rune(sum.Preview)))
	}
	if !strings.HasPrefix(sum.Preview, "See the old town") {
		t.Errorf("preview should start with the first day narrative, got %q", sum.Preview)
	}
}

func TestSummarizeStripsMarkdown(t *testing.T) {
	rec := models.SavedItinerary{
		Itinerary: []models.DayPlan{
			{DayNum: 1, Narrative: "**Visit** the `castle` and *gardens*."},
		},
	}

	sum := Summarize(rec)
	if strings.ContainsAny(sum.Preview, "*`") {
		t.Errorf("markdown markers not stripped: %q", sum.Preview)
	}
}

func TestSummarizeShortNarrativeUntouched(t *testing.T) {
	rec := models.SavedItinerary{
		Itinerary: []models.DayPlan{{DayNum: 1, Narrative: "Short day."}},
	}

	sum := Summarize(rec)
	if sum.Preview != "Short day." {
		t.Errorf("short narrative should pass through, got %q", sum.Preview)
	}
}

func TestSummarizeEmptyItinerary(t *testing.T) {
	sum := Summarize(models.SavedItinerary{ItineraryID: "x"})
	if sum.Preview != "" {
		t.Errorf("expected empty preview, got %q", sum.Preview)
	}
	if sum.Days != 0 {
		t.Errorf("expected zero days, got %d", sum.Days)
	}
}
