package handler

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"yookye/backend/internal/travel/domain"
)

type submitRequest struct {
	Passions              []string `json:"passions"`
	SpecificPlaces        string   `json:"specific_places"`
	PlacesToVisit         string   `json:"places_to_visit"`
	PreferredDestinations string   `json:"preferred_destinations"`
	TravelPace            string   `json:"travel_pace"`
	AccommodationLevel    string   `json:"accommodation_level"`
	AccommodationType     string   `json:"accommodation_type"`
	Adults                int      `json:"adults"`
	Children              int      `json:"children"`
	Infants               int      `json:"infants"`
	Rooms                 int      `json:"rooms"`
	TravelerType          string   `json:"traveler_type"`
	CheckIn               string   `json:"check_in"`
	CheckOut              string   `json:"check_out"`
	TransportationKnown   string   `json:"transportation_known"`
	ArrivalDeparture      string   `json:"arrival_departure"`
	Budget                string   `json:"budget"`
	SpecialServices       string   `json:"special_services"`
	Email                 string   `json:"email"`
}

func (r submitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Passions, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.Adults, validation.Required, validation.Min(1)),
		validation.Field(&r.Children, validation.Min(0)),
		validation.Field(&r.Infants, validation.Min(0)),
		validation.Field(&r.Rooms, validation.Required, validation.Min(1)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.CheckIn, validation.Date("2006-01-02")),
		validation.Field(&r.CheckOut, validation.Date("2006-01-02")),
	)
}

func (r submitRequest) toForm() domain.Form {
	return domain.Form{
		Passions:              r.Passions,
		SpecificPlaces:        r.SpecificPlaces,
		PlacesToVisit:         r.PlacesToVisit,
		PreferredDestinations: r.PreferredDestinations,
		TravelPace:            r.TravelPace,
		AccommodationLevel:    r.AccommodationLevel,
		AccommodationType:     r.AccommodationType,
		Travelers: domain.Travelers{
			Adults:   r.Adults,
			Children: r.Children,
			Infants:  r.Infants,
			Rooms:    r.Rooms,
		},
		TravelerType: r.TravelerType,
		Dates: domain.Dates{
			CheckIn:  r.CheckIn,
			CheckOut: r.CheckOut,
		},
		Transportation: domain.Transportation{
			Known:            r.TransportationKnown,
			ArrivalDeparture: r.ArrivalDeparture,
		},
		Budget:          r.Budget,
		SpecialServices: r.SpecialServices,
		ContactEmail:    r.Email,
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (r updateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

type travelSummary struct {
	ID           string           `json:"id"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	Passions     []string         `json:"passions"`
	Travelers    domain.Travelers `json:"travelers"`
	Budget       string           `json:"budget,omitempty"`
	ContactEmail string           `json:"contact_email"`
}

func newTravelSummary(t *domain.TravelRequest) travelSummary {
	return travelSummary{
		ID:           t.ID,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
		Passions:     t.Form.Passions,
		Travelers:    t.Form.Travelers,
		Budget:       t.Form.Budget,
		ContactEmail: t.Form.ContactEmail,
	}
}

type travelDetail struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	UpdatedBy string      `json:"updated_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Form      domain.Form `json:"form"`
}

func newTravelDetail(t *domain.TravelRequest) travelDetail {
	return travelDetail{
		ID:        t.ID,
		Status:    string(t.Status),
		UpdatedBy: t.UpdatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Form:      t.Form,
	}
}
