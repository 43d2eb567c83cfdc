package billing

import (
	"testing"
	"time"

	"academy_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextBillingDate_Daily(t *testing.T) {
	next := NextBillingDate(date(2025, time.March, 14), models.BillingIntervalDaily)
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.March, 15), *next)
}

func TestNextBillingDate_Weekly(t *testing.T) {
	next := NextBillingDate(date(2025, time.March, 14), models.BillingIntervalWeekly)
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.March, 21), *next)
}

func TestNextBillingDate_MonthlyClampsToEndOfFebruary(t *testing.T) {
	next := NextBillingDate(date(2025, time.January, 31), models.BillingIntervalMonthly)
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.February, 28), *next)
}

func TestNextBillingDate_MonthlyClampsToLeapFebruary(t *testing.T) {
	next := NextBillingDate(date(2024, time.January, 31), models.BillingIntervalMonthly)
	require.NotNil(t, next)
	assert.Equal(t, date(2024, time.February, 29), *next)
}

func TestNextBillingDate_MonthlyKeepsDayWhenValid(t *testing.T) {
	next := NextBillingDate(date(2025, time.April, 15), models.BillingIntervalMonthly)
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.May, 15), *next)
}

func TestNextBillingDate_MonthlyAcrossYearBoundary(t *testing.T) {
	next := NextBillingDate(date(2025, time.December, 31), models.BillingIntervalMonthly)
	require.NotNil(t, next)
	assert.Equal(t, date(2026, time.January, 31), *next)
}

func TestNextBillingDate_Yearly(t *testing.T) {
	next := NextBillingDate(date(2025, time.June, 1), models.BillingIntervalYearly)
	require.NotNil(t, next)
	assert.Equal(t, date(2026, time.June, 1), *next)
}

func TestNextBillingDate_YearlyFromLeapDay(t *testing.T) {
	next := NextBillingDate(date(2024, time.February, 29), models.BillingIntervalYearly)
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.February, 28), *next)
}

func TestNextBillingDate_OnceHasNoRecurrence(t *testing.T) {
	assert.Nil(t, NextBillingDate(date(2025, time.March, 14), models.BillingIntervalOnce))
}

func TestNextBillingDate_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2025, time.January, 31, 23, 59, 59, 0, time.UTC)
	next := NextBillingDate(late, models.BillingIntervalMonthly)
	require.NotNil(t, next)
	assert.Equal(t, date(2025, time.February, 28), *next)
}

func TestNextBillingDate_DoesNotMutateAnchor(t *testing.T) {
	anchor := date(2025, time.January, 31)
	before := anchor
	_ = NextBillingDate(anchor, models.BillingIntervalMonthly)
	_ = NextBillingDate(anchor, models.BillingIntervalYearly)
	assert.Equal(t, before, anchor)
}

func TestPeriodFor_Monthly(t *testing.T) {
	start, end := PeriodFor(date(2025, time.March, 1), models.BillingIntervalMonthly)
	assert.Equal(t, date(2025, time.March, 1), start)
	assert.Equal(t, date(2025, time.April, 1), end)
}

func TestPeriodFor_OnceCollapses(t *testing.T) {
	start, end := PeriodFor(date(2025, time.March, 1), models.BillingIntervalOnce)
	assert.Equal(t, start, end)
}
