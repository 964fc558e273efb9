package services

import (
	"context"
	"errors"
	"time"

	"accountant-api/models"
)

// WillRepository is the storage contract for will assignments. Lookups that
// match nothing return ErrNotFound; conditional writes that affect no row do
// the same, which is the only concurrency signal the service relies on.
type WillRepository interface {
	// InvestmentGroup resolves the group that owns an investment plan
	// through its platform.
	InvestmentGroup(ctx context.Context, investmentID string) (string, error)
	Invitation(ctx context.Context, groupID, invitationID string) (*models.Invitation, error)
	UserIDByEmail(ctx context.Context, email string) (string, error)

	WillByInvestment(ctx context.Context, investmentID string) (*models.Will, error)
	Will(ctx context.Context, willID string) (*models.Will, error)
	CreateWill(ctx context.Context, will *models.Will) (*models.Will, error)
	SetInvitation(ctx context.Context, willID, invitationID string, assignedID *string) (*models.Will, error)
	MarkClaimed(ctx context.Context, willID string, date time.Time) (*models.Will, error)
	DeleteWill(ctx context.Context, willID, ownerID string) error

	WillsByOwner(ctx context.Context, ownerID string) ([]models.WillDetail, error)
	WillsByAssignee(ctx context.Context, userID string) ([]models.WillDetail, error)
	// BackfillAssignee links unclaimed wills whose invitation e-mail matches
	// a newly registered user. Returns the number of wills linked.
	BackfillAssignee(ctx context.Context, email, userID string) (int64, error)
}

// WillService runs the assignment lifecycle:
// unassigned -> assigned (unclaimed) -> assigned (claimed), never backwards.
type WillService struct {
	repo WillRepository
}

func NewWillService(repo WillRepository) *WillService {
	return &WillService{repo: repo}
}

// Create wills an investment plan to an invited dependant. The plan must
// belong to the caller's group, must not already be willed, and the
// invitation must belong to the same group. If the invited e-mail already
// has an account, the assignment is linked to it immediately.
func (s *WillService) Create(ctx context.Context, groupID, ownerID, investmentID, invitationID string) (*models.Will, error) {
	investmentGroup, err := s.repo.InvestmentGroup(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if investmentGroup != groupID {
		// Plans outside the caller's group are invisible, not forbidden.
		return nil, ErrNotFound
	}

	invitation, err := s.repo.Invitation(ctx, groupID, invitationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.WillByInvestment(ctx, investmentID); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	will := &models.Will{
		InvestmentID: investmentID,
		InvitationID: invitationID,
		OwnerID:      ownerID,
	}

	if assignedID, err := s.repo.UserIDByEmail(ctx, invitation.Email); err == nil {
		will.AssignedID = &assignedID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return s.repo.CreateWill(ctx, will)
}

func (s *WillService) Get(ctx context.Context, willID string) (*models.Will, error) {
	return s.repo.Will(ctx, willID)
}

// Reassign points an unclaimed will at a different invitation. Re-sending
// the current invitation is a no-op; a claimed will can no longer be moved.
func (s *WillService) Reassign(ctx context.Context, groupID, userID, willID, invitationID string) (*models.Will, error) {
	will, err := s.repo.Will(ctx, willID)
	if err != nil {
		return nil, err
	}

	if will.OwnerID != userID {
		return nil, ErrForbidden
	}
	if will.InvitationID == invitationID {
		return will, nil
	}
	if will.IsClaimed {
		return nil, ErrConflict
	}

	invitation, err := s.repo.Invitation(ctx, groupID, invitationID)
	if err != nil {
		return nil, err
	}

	var assignedID *string
	if uid, err := s.repo.UserIDByEmail(ctx, invitation.Email); err == nil {
		assignedID = &uid
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return s.repo.SetInvitation(ctx, willID, invitationID, assignedID)
}

// Claim marks the will claimed by its assigned beneficiary. Claiming is
// monotonic: once claimed, further calls return the claimed state untouched,
// and a false flag cannot undo it.
func (s *WillService) Claim(ctx context.Context, userID, willID string, claim bool) (*models.Will, error) {
	will, err := s.repo.Will(ctx, willID)
	if err != nil {
		return nil, err
	}

	if will.AssignedID == nil || *will.AssignedID != userID {
		return nil, ErrForbidden
	}
	if will.IsClaimed || !claim {
		return will, nil
	}

	claimed, err := s.repo.MarkClaimed(ctx, willID, time.Now())
	if errors.Is(err, ErrNotFound) {
		// Another claim landed between the read and the write; the stored
		// state wins.
		return s.repo.Will(ctx, willID)
	}
	return claimed, err
}

func (s *WillService) Delete(ctx context.Context, userID, willID string) error {
	return s.repo.DeleteWill(ctx, willID, userID)
}

func (s *WillService) ListOwned(ctx context.Context, ownerID string) ([]models.WillDetail, error) {
	return s.repo.WillsByOwner(ctx, ownerID)
}

func (s *WillService) ListAllotments(ctx context.Context, userID string) ([]models.WillDetail, error) {
	return s.repo.WillsByAssignee(ctx, userID)
}

// ResolveAssignee is the entry point the signup flow calls so that wills
// addressed to a pending invitation attach to the account that just
// registered with that e-mail.
func (s *WillService) ResolveAssignee(ctx context.Context, email, userID string) (int64, error) {
	return s.repo.BackfillAssignee(ctx, email, userID)
}
