package models

import "time"

// ============================================================================
// USER GROUP (household)
// ============================================================================

type UserGroup struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type GroupMember struct {
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ============================================================================
// INVITATIONS (dependants)
// ============================================================================

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

type Invitation struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InviteDependentsRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,email"`
}

type UpdateDependentRequest struct {
	Email string `json:"email" binding:"required,email"`
}
