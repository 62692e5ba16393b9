package handler

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	preferencedomain "yookye/backend/internal/preference/domain"
	userdomain "yookye/backend/internal/user/domain"
)

type updateProfileRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (r updateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, 200)),
		validation.Field(&r.Username, validation.Required, validation.Length(3, 64)),
	)
}

type preferencesRequest struct {
	TravelStyle              string   `json:"travel_style"`
	BudgetRange              string   `json:"budget_range"`
	AccommodationPreferences []string `json:"accommodation_preferences"`
	ActivityPreferences      []string `json:"activity_preferences"`
	DietaryRestrictions      []string `json:"dietary_restrictions"`
	AccessibilityNeeds       string   `json:"accessibility_needs"`
}

func (r preferencesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TravelStyle, validation.Length(0, 100)),
		validation.Field(&r.BudgetRange, validation.Length(0, 100)),
		validation.Field(&r.AccessibilityNeeds, validation.Length(0, 500)),
	)
}

func (r preferencesRequest) toPreferences() preferencedomain.Preferences {
	return preferencedomain.Preferences{
		TravelStyle:              r.TravelStyle,
		BudgetRange:              r.BudgetRange,
		AccommodationPreferences: r.AccommodationPreferences,
		ActivityPreferences:      r.ActivityPreferences,
		DietaryRestrictions:      r.DietaryRestrictions,
		AccessibilityNeeds:       r.AccessibilityNeeds,
	}
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

func (r deleteAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProfileResponse(u *userdomain.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
