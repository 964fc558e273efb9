package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"accountant-api/middleware"
	"accountant-api/models"
	"accountant-api/services"
)

// WillHandler fronts the will assignment lifecycle.
type WillHandler struct {
	DB    *sql.DB
	Wills *services.WillService
}

func (h *WillHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateWillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	will, err := h.Wills.Create(c.Request.Context(), groupID, userID, req.InvestmentID, req.InvitationID)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Investment has already been willed out"})
			return
		}
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, will)
}

// ListOwned returns the wills the caller has written.
func (h *WillHandler) ListOwned(c *gin.Context) {
	userID := middleware.GetUserID(c)

	wills, err := h.Wills.ListOwned(c.Request.Context(), userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  wills,
		"result_size": len(wills),
	})
}

// ListAllotments returns the wills assigned to the caller as beneficiary.
func (h *WillHandler) ListAllotments(c *gin.Context) {
	userID := middleware.GetUserID(c)

	wills, err := h.Wills.ListAllotments(c.Request.Context(), userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  wills,
		"result_size": len(wills),
	})
}

func (h *WillHandler) Get(c *gin.Context) {
	will, err := h.Wills.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, will)
}

// Reassign points the will at a different dependant (owner only, unclaimed
// only).
func (h *WillHandler) Reassign(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.ReassignWillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	will, err := h.Wills.Reassign(c.Request.Context(), groupID, userID, c.Param("id"), req.InvitationID)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Will has been claimed by the assigned"})
			return
		}
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, will)
}

// Claim marks the will claimed by its beneficiary when the flag is set. A
// false flag reads the current state back; a repeated claim returns the
// claimed state unchanged.
func (h *WillHandler) Claim(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.ClaimWillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	will, err := h.Wills.Claim(c.Request.Context(), userID, c.Param("id"), req.IsClaimed)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, will)
}

func (h *WillHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.Wills.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
