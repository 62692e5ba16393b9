package domain

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a travel request, advanced by local
// experts after submission.
type Status string

const (
	StatusSubmitted     Status = "submitted"
	StatusProcessing    Status = "processing"
	StatusProposalsSent Status = "proposals_sent"
	StatusBooked        Status = "booked"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusSubmitted, StatusProcessing, StatusProposalsSent, StatusBooked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Travelers is the party composition of a request.
type Travelers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
	Rooms    int `json:"rooms"`
}

// Dates is the requested stay window. Either bound may be empty when the
// traveler is flexible.
type Dates struct {
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
}

// Transportation captures how the traveler plans to arrive.
type Transportation struct {
	Known            string `json:"known,omitempty"`
	ArrivalDeparture string `json:"arrival_departure,omitempty"`
}

// Form is the traveler's submitted configuration, persisted as a document.
type Form struct {
	Passions              []string       `json:"passions"`
	SpecificPlaces        string         `json:"specific_places,omitempty"`
	PlacesToVisit         string         `json:"places_to_visit,omitempty"`
	PreferredDestinations string         `json:"preferred_destinations,omitempty"`
	TravelPace            string         `json:"travel_pace,omitempty"`
	AccommodationLevel    string         `json:"accommodation_level,omitempty"`
	AccommodationType     string         `json:"accommodation_type,omitempty"`
	Travelers             Travelers      `json:"travelers"`
	TravelerType          string         `json:"traveler_type,omitempty"`
	Dates                 Dates          `json:"dates"`
	Transportation        Transportation `json:"transportation"`
	Budget                string         `json:"budget,omitempty"`
	SpecialServices       string         `json:"special_services,omitempty"`
	ContactEmail          string         `json:"contact_email"`
}

// TravelRequest is one submitted form with its lifecycle state. UserID is
// empty for anonymous submissions.
type TravelRequest struct {
	ID        string
	UserID    string
	Form      Form
	Status    Status
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *TravelRequest) Validate() error {
	if t.ID == "" {
		return errors.New("travel: id is required")
	}
	if len(t.Form.Passions) == 0 {
		return errors.New("travel: at least one passion is required")
	}
	if t.Form.Travelers.Adults < 1 {
		return errors.New("travel: at least one adult is required")
	}
	if t.Form.Travelers.Rooms < 1 {
		return errors.New("travel: at least one room is required")
	}
	if t.Form.ContactEmail == "" {
		return errors.New("travel: contact email is required")
	}
	if !ValidStatus(t.Status) {
		return errors.New("travel: invalid status")
	}
	return nil
}

// Destination is one bookable Italian region in the public catalogue.
type Destination struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Destinations returns the public catalogue, grouped by macro-area.
func Destinations() []Destination {
	return []Destination{
		{ID: "sardegna", Name: "Sardegna", Region: "Isole"},
		{ID: "toscana", Name: "Toscana", Region: "Centro"},
		{ID: "sicilia", Name: "Sicilia", Region: "Isole"},
		{ID: "piemonte", Name: "Piemonte", Region: "Nord"},
		{ID: "trentino-alto-adige", Name: "Trentino-Alto Adige", Region: "Nord"},
		{ID: "campania", Name: "Campania", Region: "Sud"},
		{ID: "veneto", Name: "Veneto", Region: "Nord"},
		{ID: "liguria", Name: "Liguria", Region: "Nord"},
		{ID: "puglia", Name: "Puglia", Region: "Sud"},
		{ID: "friuli-venezia-giulia", Name: "Friuli-Venezia Giulia", Region: "Nord"},
		{ID: "valle-d-aosta", Name: "Valle d'Aosta", Region: "Nord"},
		{ID: "lombardia", Name: "Lombardia", Region: "Nord"},
		{ID: "emilia-romagna", Name: "Emilia-Romagna", Region: "Nord"},
		{ID: "lazio", Name: "Lazio", Region: "Centro"},
		{ID: "calabria", Name: "Calabria", Region: "Sud"},
		{ID: "molise", Name: "Molise", Region: "Sud"},
		{ID: "basilicata", Name: "Basilicata", Region: "Sud"},
		{ID: "marche", Name: "Marche", Region: "Centro"},
		{ID: "umbria", Name: "Umbria", Region: "Centro"},
	}
}
