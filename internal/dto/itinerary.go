package dto

import (
	"finguard/internal/models"
)

// DateLayout is the wire format for itinerary dates, shared by request
// parsing and response formatting.
const DateLayout = "2006-01-02"

type SaveItineraryRequest struct {
	Location  string `json:"location"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

type ItineraryResponse struct {
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func NewItineraryResponse(itin *models.Itinerary) ItineraryResponse {
	return ItineraryResponse{
		Location:  itin.Location,
		StartDate: itin.StartDate.Format(DateLayout),
		EndDate:   itin.EndDate.Format(DateLayout),
	}
}
