package itinerary

import (
	"context"
	"net/http"
	"time"

	"wanderwise/db"
	"wanderwise/models"
	"wanderwise/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// previewLength caps the narrative preview shown on a history card.
const previewLength = 300

// Summary is a card-sized view of one saved itinerary.
type Summary struct {
	ItineraryID string    `json:"itineraryid"`
	Place       string    `json:"place"`
	Budget      float64   `json:"budget"`
	Preferences []string  `json:"preferences"`
	Days        int       `json:"days"`
	Preview     string    `json:"preview"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summarize builds the history card for a record: the first day's
// narrative, markdown-stripped and truncated with a trailing ellipsis.
func Summarize(rec models.SavedItinerary) Summary {
	preview := ""
	if len(rec.Itinerary) > 0 {
		preview = utils.Truncate(utils.StripMarkdown(rec.Itinerary[0].Narrative), previewLength)
	}

	return Summary{
		ItineraryID: rec.ItineraryID,
		Place:       rec.Place,
		Budget:      rec.Budget,
		Preferences: rec.Preferences,
		Days:        len(rec.Itinerary),
		Preview:     preview,
		CreatedAt:   rec.CreatedAt,
	}
}

// GET /api/itineraries
// Saved itineraries for the signed-in user, newest first.
func GetItineraries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := db.ItineraryCollection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching itineraries")
		return
	}
	defer cursor.Close(ctx)

	summaries := []Summary{}
	for cursor.Next(ctx) {
		var rec models.SavedItinerary
		if err := cursor.Decode(&rec); err == nil {
			summaries = append(summaries, Summarize(rec))
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, summaries)
}

// GET /api/itineraries/:id
func GetItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var rec models.SavedItinerary
	err := db.ItineraryCollection.FindOne(ctx, bson.M{"itineraryid": ps.ByName("id")}).Decode(&rec)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}

	if rec.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, rec)
}
