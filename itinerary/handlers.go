package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"wanderwise/db"
	"wanderwise/models"
	"wanderwise/utils"

	"github.com/julienschmidt/httprouter"
)

// MongoSaver writes SavedItinerary records to the itineraries collection.
type MongoSaver struct{}

func (MongoSaver) Save(ctx context.Context, rec models.SavedItinerary) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.ItineraryCollection.InsertOne(ctx, rec)
	return err
}

var defaultRegistry = NewRegistry(NewClient(), MongoSaver{})

// anonKey identifies a signed-out client by host alone; the remote
// address carries an ephemeral port that changes per connection.
func anonKey(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// POST /api/itinerary
// The same-origin relay: validates the trip request, forwards it to the
// generation service, and returns the upstream body verbatim. Signed-in
// callers additionally get a SavedItinerary record written.
func GenerateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	sess := Session{UserID: userID, Authenticated: userID != ""}

	key := userID
	if key == "" {
		key = anonKey(r.RemoteAddr)
	}
	flow := defaultRegistry.Get(key)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	raw, err := flow.Submit(ctx, req, sess)
	if err != nil {
		var fieldErr *FieldError
		switch {
		case errors.As(err, &fieldErr):
			utils.RespondWithJSON(w, http.StatusBadRequest, map[string]string{
				"message": fieldErr.Message,
				"field":   fieldErr.Field,
			})
		case errors.Is(err, ErrInFlight):
			utils.RespondWithError(w, http.StatusTooManyRequests, "An itinerary request is already in progress")
		default:
			log.Printf("itinerary generation failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Error generating itinerary")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
