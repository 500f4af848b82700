package models

import "time"

// User is an account with the outreach profile used to personalize AI-drafted
// email content. Authentication itself lives in the external auth provider;
// this service only reads the identity columns.
type User struct {
	ID            string
	Name          string
	Email         string
	EmailVerified *time.Time
	Image         string

	// Outreach profile, all optional.
	Job          string
	Company      string
	Product      string
	Description  string
	SellingPoint string
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	Job          *string
	Company      *string
	Product      *string
	Description  *string
	SellingPoint *string
}

// ProfileSuggest carries AI-derived suggestions for the outreach profile
// fields, one candidate list per field.
type ProfileSuggest struct {
	Company      []string `json:"company"`
	Product      []string `json:"product"`
	Description  []string `json:"description"`
	SellingPoint []string `json:"sellingPoint"`
}
