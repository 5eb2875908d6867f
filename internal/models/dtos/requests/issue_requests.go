package requests

import (
	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/geo"
	"civic-commons/townhall/internal/services"
)

// LocationRequest carries the caller's current position. Both fields are required.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *LocationRequest) Coordinate() (geo.Coordinate, error) {
	if r.Latitude == nil || r.Longitude == nil {
		return geo.Coordinate{}, apperrors.Validation("latitude and longitude are required")
	}
	c := geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
	if err := c.Validate(); err != nil {
		return geo.Coordinate{}, apperrors.Validation(err.Error())
	}
	return c, nil
}

type ReportIssueRequest struct {
	LocationRequest
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Urgency     string  `json:"urgency"`
}

func (r *ReportIssueRequest) ToInput() (services.ReportIssueInput, error) {
	c, err := r.Coordinate()
	if err != nil {
		return services.ReportIssueInput{}, err
	}
	return services.ReportIssueInput{
		Coordinate:  c,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Urgency:     constants.Urgency(r.Urgency),
	}, nil
}
