package itinerary

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wanderwise/db"
	"wanderwise/models"
	"wanderwise/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// GET /api/itineraries/:id/print
// Renders a saved itinerary as a printable PDF with a QR share code.
func PrintItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itineraryID := ps.ByName("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var rec models.SavedItinerary
	err := db.ItineraryCollection.FindOne(ctx, bson.M{"itineraryid": itineraryID}).Decode(&rec)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}

	if rec.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	buf, err := renderPDF(rec)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary-"+itineraryID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func renderPDF(rec models.SavedItinerary) (*bytes.Buffer, error) {
	qrPNG, err := qrcode.Encode("wanderwise:itinerary:"+rec.ItineraryID, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Trip to "+rec.Place)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Budget: USD %.0f", rec.Budget))
	pdf.Ln(8)
	if len(rec.Preferences) > 0 {
		pdf.Cell(0, 8, "Preferences: "+strings.Join(rec.Preferences, ", "))
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, "Saved: "+rec.CreatedAt.Format("2006-01-02"))
	pdf.Ln(12)

	for _, day := range rec.Itinerary {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("Day %d", day.DayNum))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, utils.StripMarkdown(day.Narrative), "", "L", false)
		pdf.Ln(2)
		pdf.Cell(0, 6, fmt.Sprintf("Approximate cost: USD %.0f", day.ApproxCost))
		pdf.Ln(10)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
