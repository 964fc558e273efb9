package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// PLATFORM (investment provider tracked by a group)
// ============================================================================

const (
	PlatformTypeApp = "APP"
	PlatformTypeWeb = "WEB"
)

// AccessCredential holds the sign-in details stored for a platform. Fields
// are plaintext in requests and opaque signed tokens at rest; IsEncoded says
// which state the envelope is in.
type AccessCredential struct {
	Email          string `json:"email,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password" binding:"required"`
	TransactionPin string `json:"transaction_pin,omitempty"`
	IsEncoded      bool   `json:"is_encoded"`
}

type Platform struct {
	ID               string           `json:"id"`
	GroupID          string           `json:"group_id"`
	Name             string           `json:"name"`
	Website          string           `json:"website"`
	PlatformType     string           `json:"platform_type"`
	AccessCredential AccessCredential `json:"access_credential"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type CreatePlatformRequest struct {
	Name             string           `json:"name" binding:"required"`
	Website          string           `json:"website" binding:"required"`
	PlatformType     string           `json:"platform_type" binding:"required,oneof=APP WEB"`
	AccessCredential AccessCredential `json:"access_credential" binding:"required"`
}

type UpdatePlatformRequest struct {
	Name         *string `json:"name,omitempty"`
	Website      *string `json:"website,omitempty"`
	PlatformType *string `json:"platform_type,omitempty" binding:"omitempty,oneof=APP WEB"`
}

type DecodePlatformRequest struct {
	Password string `json:"password" binding:"required"`
}

// ============================================================================
// INVESTMENT PLANS
// ============================================================================

const (
	RiskLow    = "LOW_RISK"
	RiskMedium = "MEDIUM_RISK"
	RiskHigh   = "HIGH_RISK"
)

type Investment struct {
	ID                 string          `json:"id"`
	PlatformID         string          `json:"platform_id"`
	PlanName           string          `json:"plan_name"`
	ReturnOnInvestment decimal.Decimal `json:"return_on_investment"`
	Nature             string          `json:"nature"`
	IsStillOpen        bool            `json:"is_still_open"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type CreateInvestmentRequest struct {
	PlanName           string          `json:"plan_name" binding:"required"`
	ReturnOnInvestment decimal.Decimal `json:"return_on_investment" binding:"required"`
	Nature             string          `json:"nature" binding:"required,oneof=LOW_RISK MEDIUM_RISK HIGH_RISK"`
}

type UpdateInvestmentRequest struct {
	ReturnOnInvestment *decimal.Decimal `json:"return_on_investment,omitempty"`
	Nature             *string          `json:"nature,omitempty" binding:"omitempty,oneof=LOW_RISK MEDIUM_RISK HIGH_RISK"`
	IsStillOpen        *bool            `json:"is_still_open,omitempty"`
}

// ============================================================================
// INVESTMENT ACTIVITIES (cash movements on a plan)
// ============================================================================

const (
	TransactionDebit  = "DEBIT"
	TransactionCredit = "CREDIT"
)

type InvestmentActivity struct {
	ID              string          `json:"id"`
	InvestmentID    string          `json:"investment_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	Currency        Currency        `json:"currency"`
	CreatedAt       time.Time       `json:"created_at"`
}

type CreateActivityRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionType string          `json:"transaction_type" binding:"required,oneof=DEBIT CREDIT"`
	Currency        Currency        `json:"currency" binding:"required"`
}

type UpdateActivityRequest struct {
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	TransactionType *string          `json:"transaction_type,omitempty" binding:"omitempty,oneof=DEBIT CREDIT"`
	Currency        *Currency        `json:"currency,omitempty"`
}

// PlatformCashflow is the per-platform rollup on the investment dashboard.
type PlatformCashflow struct {
	CashIn  map[Currency]decimal.Decimal `json:"cash_in"`
	CashOut map[Currency]decimal.Decimal `json:"cash_out"`
}

type InvestmentDashboard struct {
	Result map[string]*PlatformCashflow `json:"result"`
}
