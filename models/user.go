package models

import "time"

// UserProfile is the single users/{uid} document
type UserProfile struct {
	UID                string     `json:"uid"`
	Email              string     `json:"email"`
	Gender             string     `json:"gender,omitempty"`
	Age                *int       `json:"age,omitempty"`
	CurrentWeight      *float64   `json:"currentWeight,omitempty"` // kg
	Height             *float64   `json:"height,omitempty"`        // cm
	GoalWeight         *float64   `json:"goalWeight,omitempty"`
	Goal               string     `json:"goal,omitempty"`      // "lose" | "maintain" | "gain"
	Timeframe          *int       `json:"timeframe,omitempty"` // weeks
	ActivityLevel      string     `json:"activityLevel,omitempty"`
	TrackingPreference string     `json:"trackingPreference,omitempty"`
	Premium            *bool      `json:"premium,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}
