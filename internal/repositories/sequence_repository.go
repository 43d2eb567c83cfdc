package repositories

import (
	"time"

	"academy_backend/internal/billing"

	"gorm.io/gorm"
)

// SequenceRepository hands out document and athlete numbers. Every
// allocation is a single atomic upsert-and-return statement, so two
// transactions bumping the same counter can never read the same value.
type SequenceRepository interface {
	NextDocumentNumber(tx *gorm.DB, family string, day time.Time) (string, error)
	NextAthleteNumber(tx *gorm.DB) (string, error)
}

type SequenceRepositoryImpl struct{}

func NewSequenceRepository() SequenceRepository {
	return &SequenceRepositoryImpl{}
}

// NextDocumentNumber allocates the next number in the day-scoped
// family counter and renders it as <PREFIX>-<YYYYMMDD>-<NNN>.
// Counters restart at 001 on each new calendar day.
func (r *SequenceRepositoryImpl) NextDocumentNumber(tx *gorm.DB, family string, day time.Time) (string, error) {
	dayKey := billing.DayKey(day)

	var value int64
	err := tx.Raw(`
		INSERT INTO document_sequences (day, family, value) VALUES (?, ?, 1)
		ON CONFLICT (day, family) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value
	`, dayKey, family).Scan(&value).Error
	if err != nil {
		return "", err
	}

	return billing.FormatDocumentNumber(family, day, value), nil
}

// NextAthleteNumber bumps the global athlete counter. Unlike the
// document counters it never resets.
func (r *SequenceRepositoryImpl) NextAthleteNumber(tx *gorm.DB) (string, error) {
	var value int64
	err := tx.Raw(`
		INSERT INTO athlete_sequences (id, value) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET value = athlete_sequences.value + 1
		RETURNING value
	`).Scan(&value).Error
	if err != nil {
		return "", err
	}

	return billing.FormatAthleteNumber(value), nil
}
