package models

import "time"

type Athlete struct {
	BaseModel
	AthleteNumber string        `gorm:"uniqueIndex;not null" json:"athlete_number"` // ATH-NNN
	FullName      string        `gorm:"not null" json:"full_name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Status        AthleteStatus `gorm:"not null;default:'PENDING';index" json:"status"`
	// NextBillingDate is a cache maintained by the subscription
	// lifecycle; the subscription row stays authoritative.
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
}

// AthleteSequence is a single-row counter behind athlete numbers.
// It is incremented with one atomic read-modify-write statement,
// unlike the day-scoped document counters which reset daily.
type AthleteSequence struct {
	ID    int   `gorm:"primaryKey" json:"id"`
	Value int64 `gorm:"not null" json:"value"`
}
