package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// CLOSED ENUMS
// ============================================================================

type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyNGN, CurrencyUSD, CurrencyEUR, CurrencyGBP:
		return true
	}
	return false
}

type Month string

const (
	January   Month = "JANUARY"
	February  Month = "FEBRUARY"
	March     Month = "MARCH"
	April     Month = "APRIL"
	May       Month = "MAY"
	June      Month = "JUNE"
	July      Month = "JULY"
	August    Month = "AUGUST"
	September Month = "SEPTEMBER"
	October   Month = "OCTOBER"
	November  Month = "NOVEMBER"
	December  Month = "DECEMBER"
)

var months = [12]Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

func (m Month) Valid() bool {
	for _, known := range months {
		if m == known {
			return true
		}
	}
	return false
}

// MonthOf maps a calendar month to its enum name.
func MonthOf(m time.Month) Month {
	return months[int(m)-1]
}

// ============================================================================
// TRACKERS (discretionary spend records)
// ============================================================================

type Tracker struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Currency    Currency        `json:"currency"`
	Month       Month           `json:"month"`
	Year        int             `json:"year"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateTrackerRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Label       string          `json:"label" binding:"required"`
	Description string          `json:"description,omitempty"`
	Currency    Currency        `json:"currency" binding:"required"`
}

type CreateTrackersRequest struct {
	Trackers []CreateTrackerRequest `json:"trackers" binding:"required,min=1,dive"`
}

type UpdateTrackerRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Label       *string          `json:"label,omitempty"`
	Description *string          `json:"description,omitempty"`
	Currency    *Currency        `json:"currency,omitempty"`
	Month       *Month           `json:"month,omitempty"`
}

// ============================================================================
// EARNINGS (income records)
// ============================================================================

type Earning struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  Currency        `json:"currency"`
	PayDate   time.Time       `json:"pay_date"`
	Month     Month           `json:"month"`
	Year      int             `json:"year"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateEarningRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency Currency        `json:"currency" binding:"required"`
	PayDate  string          `json:"pay_date" binding:"required"` // YYYY-MM-DD
	Month    Month           `json:"month" binding:"required"`
}

type CreateEarningsRequest struct {
	Earnings []CreateEarningRequest `json:"earnings" binding:"required,min=1,dive"`
}

type UpdateEarningRequest struct {
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency *Currency        `json:"currency,omitempty"`
	PayDate  *string          `json:"pay_date,omitempty"`
	Month    *Month           `json:"month,omitempty"`
}

// ============================================================================
// DASHBOARD
// ============================================================================

// MonetaryRecord is the aggregation view shared by trackers and earnings.
type MonetaryRecord struct {
	Amount   decimal.Decimal
	Currency Currency
	Month    Month
	Year     int
}

func (t Tracker) Record() MonetaryRecord {
	return MonetaryRecord{Amount: t.Amount, Currency: t.Currency, Month: t.Month, Year: t.Year}
}

func (e Earning) Record() MonetaryRecord {
	return MonetaryRecord{Amount: e.Amount, Currency: e.Currency, Month: e.Month, Year: e.Year}
}

type MonthCell struct {
	Amount decimal.Decimal `json:"amount"`
	// PercentageChange is reserved; it is not yet computed from history.
	PercentageChange decimal.Decimal `json:"percentage_change"`
}

type Dashboard struct {
	Summary     map[Currency]map[int]decimal.Decimal      `json:"summary"`
	YearlyChart map[int]map[Currency]map[Month]*MonthCell `json:"yearly_chart"`
}
