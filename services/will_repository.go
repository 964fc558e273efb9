package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"accountant-api/models"
)

// PostgresWillRepository backs WillService with the wills table.
type PostgresWillRepository struct {
	db *sql.DB
}

func NewPostgresWillRepository(db *sql.DB) *PostgresWillRepository {
	return &PostgresWillRepository{db: db}
}

const willColumns = `id, investment_id, invitation_id, owner_id, assigned_id, is_claimed, date_claimed, created_at`

func scanWill(row *sql.Row) (*models.Will, error) {
	var will models.Will
	var assignedID sql.NullString
	var dateClaimed sql.NullTime

	err := row.Scan(&will.ID, &will.InvestmentID, &will.InvitationID, &will.OwnerID,
		&assignedID, &will.IsClaimed, &dateClaimed, &will.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if assignedID.Valid {
		will.AssignedID = &assignedID.String
	}
	if dateClaimed.Valid {
		will.DateClaimed = &dateClaimed.Time
	}
	return &will, nil
}

func (r *PostgresWillRepository) InvestmentGroup(ctx context.Context, investmentID string) (string, error) {
	var groupID string
	err := r.db.QueryRowContext(ctx, `
		SELECT p.group_id
		FROM investments i
		INNER JOIN platforms p ON i.platform_id = p.id
		WHERE i.id = $1
	`, investmentID).Scan(&groupID)

	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return groupID, nil
}

func (r *PostgresWillRepository) Invitation(ctx context.Context, groupID, invitationID string) (*models.Invitation, error) {
	var inv models.Invitation
	err := r.db.QueryRowContext(ctx, `
		SELECT id, group_id, email, status, created_at, updated_at
		FROM invitations
		WHERE id = $1 AND group_id = $2
	`, invitationID, groupID).Scan(&inv.ID, &inv.GroupID, &inv.Email, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresWillRepository) UserIDByEmail(ctx context.Context, email string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *PostgresWillRepository) WillByInvestment(ctx context.Context, investmentID string) (*models.Will, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+willColumns+` FROM wills WHERE investment_id = $1`, investmentID)
	return scanWill(row)
}

func (r *PostgresWillRepository) Will(ctx context.Context, willID string) (*models.Will, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+willColumns+` FROM wills WHERE id = $1`, willID)
	return scanWill(row)
}

func (r *PostgresWillRepository) CreateWill(ctx context.Context, will *models.Will) (*models.Will, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO wills (investment_id, invitation_id, owner_id, assigned_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+willColumns, will.InvestmentID, will.InvitationID, will.OwnerID, will.AssignedID)
	created, err := scanWill(row)
	if isUniqueViolation(err) {
		// The unique index on investment_id caught a concurrent insert.
		return nil, ErrConflict
	}
	return created, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *PostgresWillRepository) SetInvitation(ctx context.Context, willID, invitationID string, assignedID *string) (*models.Will, error) {
	// The is_claimed filter makes the guard atomic with the write.
	row := r.db.QueryRowContext(ctx, `
		UPDATE wills
		SET invitation_id = $2, assigned_id = $3
		WHERE id = $1 AND is_claimed = FALSE
		RETURNING `+willColumns, willID, invitationID, assignedID)
	return scanWill(row)
}

func (r *PostgresWillRepository) MarkClaimed(ctx context.Context, willID string, date time.Time) (*models.Will, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE wills
		SET is_claimed = TRUE, date_claimed = $2
		WHERE id = $1 AND is_claimed = FALSE
		RETURNING `+willColumns, willID, date)
	return scanWill(row)
}

func (r *PostgresWillRepository) DeleteWill(ctx context.Context, willID, ownerID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM wills WHERE id = $1 AND owner_id = $2`, willID, ownerID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresWillRepository) listWills(ctx context.Context, where string, arg string) ([]models.WillDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.investment_id, w.invitation_id, w.owner_id, w.assigned_id,
		       w.is_claimed, w.date_claimed, w.created_at,
		       i.id, i.platform_id, i.plan_name, i.return_on_investment,
		       i.nature, i.is_still_open, i.created_at, i.updated_at
		FROM wills w
		INNER JOIN investments i ON w.investment_id = i.id
		WHERE `+where+`
		ORDER BY w.created_at DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wills := []models.WillDetail{}
	for rows.Next() {
		var detail models.WillDetail
		var investment models.Investment
		var assignedID sql.NullString
		var dateClaimed sql.NullTime

		err := rows.Scan(&detail.ID, &detail.InvestmentID, &detail.InvitationID, &detail.OwnerID,
			&assignedID, &detail.IsClaimed, &dateClaimed, &detail.CreatedAt,
			&investment.ID, &investment.PlatformID, &investment.PlanName, &investment.ReturnOnInvestment,
			&investment.Nature, &investment.IsStillOpen, &investment.CreatedAt, &investment.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if assignedID.Valid {
			detail.AssignedID = &assignedID.String
		}
		if dateClaimed.Valid {
			detail.DateClaimed = &dateClaimed.Time
		}
		detail.Investment = &investment
		wills = append(wills, detail)
	}

	return wills, rows.Err()
}

func (r *PostgresWillRepository) WillsByOwner(ctx context.Context, ownerID string) ([]models.WillDetail, error) {
	return r.listWills(ctx, "w.owner_id = $1", ownerID)
}

func (r *PostgresWillRepository) WillsByAssignee(ctx context.Context, userID string) ([]models.WillDetail, error) {
	return r.listWills(ctx, "w.assigned_id = $1", userID)
}

func (r *PostgresWillRepository) BackfillAssignee(ctx context.Context, email, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE wills w
		SET assigned_id = $2
		FROM invitations iv
		WHERE w.invitation_id = iv.id
		  AND iv.email = $1
		  AND w.assigned_id IS NULL
		  AND w.is_claimed = FALSE
	`, email, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
