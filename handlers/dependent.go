package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"accountant-api/middleware"
	"accountant-api/models"
	"accountant-api/services"
	"accountant-api/utils"
)

// DependentHandler manages the household's invitation list ("dependants").
type DependentHandler struct {
	DB    *sql.DB
	Email *services.EmailService
}

func (h *DependentHandler) Invite(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.InviteDependentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	var inviterName string
	if err := h.DB.QueryRow(`SELECT name FROM users WHERE id = $1`, userID).Scan(&inviterName); err != nil {
		inviterName = "A household member"
	}

	// The whole batch lands or none of it does; a duplicate anywhere in the
	// list rolls back every insert.
	invitations := []models.Invitation{}
	var dupEmail string
	err = utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		for _, email := range req.Emails {
			email = strings.ToLower(email)

			var inv models.Invitation
			err := tx.QueryRow(`
				INSERT INTO invitations (group_id, email)
				VALUES ($1, $2)
				RETURNING id, group_id, email, status, created_at, updated_at
			`, groupID, email).Scan(&inv.ID, &inv.GroupID, &inv.Email, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)

			if err != nil {
				if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
					dupEmail = email
				}
				return err
			}
			invitations = append(invitations, inv)
		}
		return nil
	})
	if err != nil {
		if dupEmail != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already invited: " + dupEmail})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitations"})
		return
	}

	// Mail only goes out once the batch is committed.
	for _, inv := range invitations {
		if err := h.Email.SendInvitation(inv.Email, inviterName); err != nil {
			log.Printf("❌ Failed to send invitation email to %s: %v", inv.Email, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"result_set":  invitations,
		"result_size": len(invitations),
	})
}

func (h *DependentHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, group_id, email, status, created_at, updated_at
		FROM invitations
		WHERE group_id = $1
		ORDER BY created_at DESC
	`, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.GroupID, &inv.Email, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		invitations = append(invitations, inv)
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  invitations,
		"result_size": len(invitations),
	})
}

func (h *DependentHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	dependentID := c.Param("id")

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	var inv models.Invitation
	err = h.DB.QueryRow(`
		SELECT id, group_id, email, status, created_at, updated_at
		FROM invitations
		WHERE id = $1 AND group_id = $2
	`, dependentID, groupID).Scan(&inv.ID, &inv.GroupID, &inv.Email, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dependant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// Update corrects a pending invitation's e-mail address.
func (h *DependentHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	dependentID := c.Param("id")

	var req models.UpdateDependentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	var inv models.Invitation
	err = h.DB.QueryRow(`
		UPDATE invitations
		SET email = $3, updated_at = NOW()
		WHERE id = $1 AND group_id = $2 AND status = 'pending'
		RETURNING id, group_id, email, status, created_at, updated_at
	`, dependentID, groupID, strings.ToLower(req.Email)).Scan(
		&inv.ID, &inv.GroupID, &inv.Email, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending dependant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dependant"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *DependentHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	dependentID := c.Param("id")

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM invitations WHERE id = $1 AND group_id = $2
	`, dependentID, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dependant"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dependant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *DependentHandler) Members(c *gin.Context) {
	userID := middleware.GetUserID(c)

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	rows, err := h.DB.Query(`
		SELECT gm.group_id, gm.user_id, u.name, u.email, gm.joined_at
		FROM group_members gm
		INNER JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	members := []models.GroupMember{}
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.UserName, &m.UserEmail, &m.JoinedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		members = append(members, m)
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  members,
		"result_size": len(members),
	})
}
