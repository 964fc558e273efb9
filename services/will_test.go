package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"accountant-api/models"
)

// fakeWillRepo keeps everything in maps so the lifecycle rules can be
// exercised without a database.
type fakeWillRepo struct {
	investmentGroups map[string]string             // investment id -> group id
	invitations      map[string]*models.Invitation // invitation id -> invitation
	usersByEmail     map[string]string             // email -> user id
	wills            map[string]*models.Will       // will id -> will

	nextID int
}

func newFakeWillRepo() *fakeWillRepo {
	return &fakeWillRepo{
		investmentGroups: make(map[string]string),
		invitations:      make(map[string]*models.Invitation),
		usersByEmail:     make(map[string]string),
		wills:            make(map[string]*models.Will),
	}
}

func (f *fakeWillRepo) InvestmentGroup(_ context.Context, investmentID string) (string, error) {
	groupID, ok := f.investmentGroups[investmentID]
	if !ok {
		return "", ErrNotFound
	}
	return groupID, nil
}

func (f *fakeWillRepo) Invitation(_ context.Context, groupID, invitationID string) (*models.Invitation, error) {
	inv, ok := f.invitations[invitationID]
	if !ok || inv.GroupID != groupID {
		return nil, ErrNotFound
	}
	return inv, nil
}

func (f *fakeWillRepo) UserIDByEmail(_ context.Context, email string) (string, error) {
	userID, ok := f.usersByEmail[email]
	if !ok {
		return "", ErrNotFound
	}
	return userID, nil
}

func (f *fakeWillRepo) WillByInvestment(_ context.Context, investmentID string) (*models.Will, error) {
	for _, w := range f.wills {
		if w.InvestmentID == investmentID {
			return w, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeWillRepo) Will(_ context.Context, willID string) (*models.Will, error) {
	w, ok := f.wills[willID]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

func (f *fakeWillRepo) CreateWill(_ context.Context, will *models.Will) (*models.Will, error) {
	f.nextID++
	stored := *will
	stored.ID = string(rune('a' + f.nextID))
	stored.CreatedAt = time.Now()
	f.wills[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeWillRepo) SetInvitation(_ context.Context, willID, invitationID string, assignedID *string) (*models.Will, error) {
	w, ok := f.wills[willID]
	if !ok || w.IsClaimed {
		return nil, ErrNotFound
	}
	w.InvitationID = invitationID
	w.AssignedID = assignedID
	return w, nil
}

func (f *fakeWillRepo) MarkClaimed(_ context.Context, willID string, date time.Time) (*models.Will, error) {
	w, ok := f.wills[willID]
	if !ok || w.IsClaimed {
		// The conditional write matches nothing once claimed.
		return nil, ErrNotFound
	}
	w.IsClaimed = true
	w.DateClaimed = &date
	return w, nil
}

func (f *fakeWillRepo) DeleteWill(_ context.Context, willID, ownerID string) error {
	w, ok := f.wills[willID]
	if !ok || w.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.wills, willID)
	return nil
}

func (f *fakeWillRepo) WillsByOwner(_ context.Context, ownerID string) ([]models.WillDetail, error) {
	var out []models.WillDetail
	for _, w := range f.wills {
		if w.OwnerID == ownerID {
			out = append(out, models.WillDetail{Will: *w})
		}
	}
	return out, nil
}

func (f *fakeWillRepo) WillsByAssignee(_ context.Context, userID string) ([]models.WillDetail, error) {
	var out []models.WillDetail
	for _, w := range f.wills {
		if w.AssignedID != nil && *w.AssignedID == userID {
			out = append(out, models.WillDetail{Will: *w})
		}
	}
	return out, nil
}

func (f *fakeWillRepo) BackfillAssignee(_ context.Context, email, userID string) (int64, error) {
	var linked int64
	for _, w := range f.wills {
		inv, ok := f.invitations[w.InvitationID]
		if !ok || inv.Email != email {
			continue
		}
		if w.AssignedID == nil && !w.IsClaimed {
			w.AssignedID = &userID
			linked++
		}
	}
	return linked, nil
}

func seedWillRepo() *fakeWillRepo {
	repo := newFakeWillRepo()
	repo.investmentGroups["inv-1"] = "grp-1"
	repo.investmentGroups["inv-2"] = "grp-1"
	repo.investmentGroups["inv-other"] = "grp-2"
	repo.invitations["invite-1"] = &models.Invitation{
		ID: "invite-1", GroupID: "grp-1", Email: "kid@example.com", Status: models.InvitationPending,
	}
	repo.invitations["invite-2"] = &models.Invitation{
		ID: "invite-2", GroupID: "grp-1", Email: "cousin@example.com", Status: models.InvitationPending,
	}
	return repo
}

func TestWillCreate_AssignsExistingAccount(t *testing.T) {
	repo := seedWillRepo()
	repo.usersByEmail["kid@example.com"] = "user-kid"
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if will.AssignedID == nil || *will.AssignedID != "user-kid" {
		t.Fatalf("expected will assigned to user-kid, got %v", will.AssignedID)
	}
	if will.IsClaimed {
		t.Fatal("new will must start unclaimed")
	}
}

func TestWillCreate_UnregisteredEmailStaysUnassigned(t *testing.T) {
	repo := seedWillRepo()
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if will.AssignedID != nil {
		t.Fatalf("expected no assignee for unregistered email, got %q", *will.AssignedID)
	}
}

func TestWillCreate_SecondWillOnSameInvestmentConflicts(t *testing.T) {
	repo := seedWillRepo()
	svc := NewWillService(repo)

	if _, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-2")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestWillCreate_ForeignInvestmentIsInvisible(t *testing.T) {
	repo := seedWillRepo()
	svc := NewWillService(repo)

	_, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-other", "invite-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for investment outside the group, got %v", err)
	}
}

func TestWillClaim_OnlyAssigneeMayClaim(t *testing.T) {
	repo := seedWillRepo()
	repo.usersByEmail["kid@example.com"] = "user-kid"
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Claim(context.Background(), "user-stranger", will.ID, true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	// The owner is not the beneficiary either.
	if _, err := svc.Claim(context.Background(), "owner-1", will.ID, true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for owner, got %v", err)
	}

	claimed, err := svc.Claim(context.Background(), "user-kid", will.ID, true)
	if err != nil {
		t.Fatalf("assignee claim failed: %v", err)
	}
	if !claimed.IsClaimed || claimed.DateClaimed == nil {
		t.Fatal("expected will marked claimed with a claim date")
	}
}

func TestWillClaim_UnassignedWillCannotBeClaimed(t *testing.T) {
	repo := seedWillRepo()
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Claim(context.Background(), "user-kid", will.ID, true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on unassigned will, got %v", err)
	}
}

func TestWillClaim_RepeatedClaimIsIdempotent(t *testing.T) {
	repo := seedWillRepo()
	repo.usersByEmail["kid@example.com"] = "user-kid"
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, err := svc.Claim(context.Background(), "user-kid", will.ID, true)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	second, err := svc.Claim(context.Background(), "user-kid", will.ID, true)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if !second.IsClaimed {
		t.Fatal("claim must never be undone")
	}
	if !second.DateClaimed.Equal(*first.DateClaimed) {
		t.Fatal("repeated claim must not move the claim date")
	}
}

func TestWillClaim_FalseFlagLeavesWillUnclaimed(t *testing.T) {
	repo := seedWillRepo()
	repo.usersByEmail["kid@example.com"] = "user-kid"
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.Claim(context.Background(), "user-kid", will.ID, false)
	if err != nil {
		t.Fatalf("claim with false flag failed: %v", err)
	}
	if got.IsClaimed {
		t.Fatal("a false flag must not mark the will claimed")
	}

	// After a real claim the false flag reads the claimed state back.
	if _, err := svc.Claim(context.Background(), "user-kid", will.ID, true); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	got, err = svc.Claim(context.Background(), "user-kid", will.ID, false)
	if err != nil {
		t.Fatalf("readback failed: %v", err)
	}
	if !got.IsClaimed {
		t.Fatal("a false flag must not undo a claim")
	}
}

// staleWillRepo serves one stale unclaimed snapshot from Will before
// delegating, mimicking a claim that lands between the read and the write.
type staleWillRepo struct {
	*fakeWillRepo
	stale *models.Will
}

func (s *staleWillRepo) Will(ctx context.Context, willID string) (*models.Will, error) {
	if s.stale != nil && s.stale.ID == willID {
		w := *s.stale
		s.stale = nil
		return &w, nil
	}
	return s.fakeWillRepo.Will(ctx, willID)
}

func TestWillClaim_LostRaceReturnsStoredState(t *testing.T) {
	repo := seedWillRepo()
	repo.usersByEmail["kid@example.com"] = "user-kid"
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A second claimer holds the unclaimed snapshot before the first claim
	// lands.
	stale := *will

	first, err := svc.Claim(context.Background(), "user-kid", will.ID, true)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	raced := NewWillService(&staleWillRepo{fakeWillRepo: repo, stale: &stale})

	got, err := raced.Claim(context.Background(), "user-kid", will.ID, true)
	if err != nil {
		t.Fatalf("racing claim failed: %v", err)
	}
	if !got.IsClaimed {
		t.Fatal("losing the race must still surface the claimed state")
	}
	if !got.DateClaimed.Equal(*first.DateClaimed) {
		t.Fatal("losing the race must not move the claim date")
	}
}

func TestWillReassign_OwnerOnly(t *testing.T) {
	repo := seedWillRepo()
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Reassign(context.Background(), "grp-1", "user-stranger", will.ID, "invite-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestWillReassign_MovesAssigneeWithInvitation(t *testing.T) {
	repo := seedWillRepo()
	repo.usersByEmail["cousin@example.com"] = "user-cousin"
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	moved, err := svc.Reassign(context.Background(), "grp-1", "owner-1", will.ID, "invite-2")
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if moved.InvitationID != "invite-2" {
		t.Fatalf("expected invitation invite-2, got %s", moved.InvitationID)
	}
	if moved.AssignedID == nil || *moved.AssignedID != "user-cousin" {
		t.Fatalf("expected assignee user-cousin, got %v", moved.AssignedID)
	}
}

func TestWillReassign_SameInvitationIsNoOp(t *testing.T) {
	repo := seedWillRepo()
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	same, err := svc.Reassign(context.Background(), "grp-1", "owner-1", will.ID, "invite-1")
	if err != nil {
		t.Fatalf("reassign to same invitation failed: %v", err)
	}
	if same.InvitationID != "invite-1" {
		t.Fatalf("expected will unchanged, got invitation %s", same.InvitationID)
	}
}

func TestWillReassign_ClaimedWillConflicts(t *testing.T) {
	repo := seedWillRepo()
	repo.usersByEmail["kid@example.com"] = "user-kid"
	svc := NewWillService(repo)

	will, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Claim(context.Background(), "user-kid", will.ID, true); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if _, err := svc.Reassign(context.Background(), "grp-1", "owner-1", will.ID, "invite-2"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for claimed will, got %v", err)
	}
}

func TestResolveAssignee_LinksUnclaimedWillsOnly(t *testing.T) {
	repo := seedWillRepo()
	svc := NewWillService(repo)

	if _, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-1", "invite-1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "grp-1", "owner-1", "inv-2", "invite-2"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	linked, err := svc.ResolveAssignee(context.Background(), "kid@example.com", "user-kid")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if linked != 1 {
		t.Fatalf("expected 1 will linked, got %d", linked)
	}

	allotments, err := svc.ListAllotments(context.Background(), "user-kid")
	if err != nil {
		t.Fatalf("list allotments failed: %v", err)
	}
	if len(allotments) != 1 || allotments[0].InvestmentID != "inv-1" {
		t.Fatalf("expected the inv-1 will allotted to user-kid, got %+v", allotments)
	}
}
