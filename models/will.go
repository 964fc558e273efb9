package models

import "time"

// ============================================================================
// WILL (binding of an investment plan to a beneficiary)
// ============================================================================

type Will struct {
	ID           string     `json:"id"`
	InvestmentID string     `json:"investment_id"`
	InvitationID string     `json:"invitation_id"`
	OwnerID      string     `json:"owner_id"`
	AssignedID   *string    `json:"assigned_id,omitempty"`
	IsClaimed    bool       `json:"is_claimed"`
	DateClaimed  *time.Time `json:"date_claimed,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// WillDetail includes the investment the will covers, for listings.
type WillDetail struct {
	Will
	Investment *Investment `json:"investment,omitempty"`
}

type CreateWillRequest struct {
	InvestmentID string `json:"investment_id" binding:"required,uuid"`
	InvitationID string `json:"invitation_id" binding:"required,uuid"`
}

type ReassignWillRequest struct {
	InvitationID string `json:"invitation_id" binding:"required,uuid"`
}

type ClaimWillRequest struct {
	IsClaimed bool `json:"is_claimed"`
}
