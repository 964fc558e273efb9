package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"accountant-api/services"
)

// groupIDForOwner resolves the household the user owns. Every account gets
// one at signup, so a miss means the token outlived the account.
func groupIDForOwner(ctx context.Context, db *sql.DB, userID string) (string, error) {
	var groupID string
	err := db.QueryRowContext(ctx,
		`SELECT id FROM user_groups WHERE owner_id = $1`, userID).Scan(&groupID)
	if err == sql.ErrNoRows {
		return "", services.ErrNotFound
	}
	return groupID, err
}

// abortDomainError converts the three domain error kinds to their status
// codes; everything else is an internal error. Business-rule violations
// answer 400, not 409.
func abortDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access for this action"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
