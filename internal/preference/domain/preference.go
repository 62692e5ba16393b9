package domain

import "time"

// Preferences is the traveler's saved profile, used to pre-fill forms and
// tune proposals.
type Preferences struct {
	TravelStyle              string   `json:"travel_style,omitempty"`
	BudgetRange              string   `json:"budget_range,omitempty"`
	AccommodationPreferences []string `json:"accommodation_preferences,omitempty"`
	ActivityPreferences      []string `json:"activity_preferences,omitempty"`
	DietaryRestrictions      []string `json:"dietary_restrictions,omitempty"`
	AccessibilityNeeds       string   `json:"accessibility_needs,omitempty"`
}

// Record is the stored preferences document, one per user.
type Record struct {
	UserID      string
	Preferences Preferences
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
