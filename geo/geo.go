package geo

import (
	"encoding/json"
	"math"
	"net/http"

	"wanderwise/utils"

	"github.com/julienschmidt/httprouter"
)

// Coordinate is a [latitude, longitude] pair.
type Coordinate [2]float64

// Bounds is the box the map viewport fits around the markers.
type Bounds struct {
	SouthWest Coordinate `json:"southWest"`
	NorthEast Coordinate `json:"northEast"`
}

// Valid reports whether a raw pair is plottable: exactly two finite
// values inside the latitude/longitude ranges.
func Valid(pair []float64) bool {
	if len(pair) != 2 {
		return false
	}
	lat, lng := pair[0], pair[1]
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Filter keeps only plottable pairs, preserving order.
func Filter(raw [][]float64) []Coordinate {
	coords := []Coordinate{}
	for _, pair := range raw {
		if Valid(pair) {
			coords = append(coords, Coordinate{pair[0], pair[1]})
		}
	}
	return coords
}

// Fit computes the bounding box around the markers.
func Fit(coords []Coordinate) Bounds {
	b := Bounds{
		SouthWest: Coordinate{90, 180},
		NorthEast: Coordinate{-90, -180},
	}
	for _, c := range coords {
		b.SouthWest[0] = math.Min(b.SouthWest[0], c[0])
		b.SouthWest[1] = math.Min(b.SouthWest[1], c[1])
		b.NorthEast[0] = math.Max(b.NorthEast[0], c[0])
		b.NorthEast[1] = math.Max(b.NorthEast[1], c[1])
	}
	return b
}

// POST /api/map/markers
// Validates a coordinate list and returns the marker set with fitted
// bounds, or a placeholder payload when nothing is plottable.
func GetMarkers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	valid := Filter(body.Coordinates)
	if len(valid) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"markers": []Coordinate{},
			"message": "No valid destinations available.",
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"markers": valid,
		"bounds":  Fit(valid),
		"center":  valid[0],
	})
}
