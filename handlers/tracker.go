package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"accountant-api/middleware"
	"accountant-api/models"
	"accountant-api/services"
	"accountant-api/utils"
)

// TrackerHandler manages discretionary spend records.
type TrackerHandler struct {
	DB *sql.DB
	WS *WSHandler
}

const trackerColumns = `id, user_id, amount, label, COALESCE(description, ''), currency, month, year, created_at, updated_at`

func scanTracker(scan func(dest ...any) error) (models.Tracker, error) {
	var t models.Tracker
	err := scan(&t.ID, &t.UserID, &t.Amount, &t.Label, &t.Description,
		&t.Currency, &t.Month, &t.Year, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (h *TrackerHandler) notify(c *gin.Context, updateType string) {
	userID := middleware.GetUserID(c)
	if groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID); err == nil {
		h.WS.BroadcastUpdate(groupID, updateType, userID)
	}
}

// validateTrackerEntries checks the whole batch before anything is written.
// An empty return means every entry is acceptable.
func validateTrackerEntries(entries []models.CreateTrackerRequest) string {
	for _, entry := range entries {
		if entry.Amount.IsNegative() {
			return "Amount must not be negative"
		}
		if !entry.Currency.Valid() {
			return "Unknown currency"
		}
	}
	return ""
}

// Create inserts a batch of records stamped with the current month and year.
// The batch lands whole or not at all.
func (h *TrackerHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTrackersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateTrackerEntries(req.Trackers); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	now := time.Now()
	month := models.MonthOf(now.Month())
	year := now.Year()

	trackers := []models.Tracker{}
	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		for _, entry := range req.Trackers {
			row := tx.QueryRow(`
				INSERT INTO trackers (user_id, amount, label, description, currency, month, year)
				VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
				RETURNING `+trackerColumns,
				userID, entry.Amount, entry.Label, entry.Description, entry.Currency, month, year)

			tracker, err := scanTracker(row.Scan)
			if err != nil {
				return err
			}
			trackers = append(trackers, tracker)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trackers"})
		return
	}

	h.notify(c, "tracker_created")

	c.JSON(http.StatusCreated, gin.H{
		"result_set":  trackers,
		"result_size": len(trackers),
	})
}

func (h *TrackerHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT `+trackerColumns+` FROM trackers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	trackers := []models.Tracker{}
	for rows.Next() {
		tracker, err := scanTracker(rows.Scan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		trackers = append(trackers, tracker)
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  trackers,
		"result_size": len(trackers),
	})
}

func (h *TrackerHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	trackerID := c.Param("id")

	row := h.DB.QueryRow(`
		SELECT `+trackerColumns+` FROM trackers WHERE id = $1 AND user_id = $2
	`, trackerID, userID)

	tracker, err := scanTracker(row.Scan)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tracker not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, tracker)
}

func (h *TrackerHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	trackerID := c.Param("id")

	var req models.UpdateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		return
	}
	if req.Currency != nil && !req.Currency.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown currency"})
		return
	}
	if req.Month != nil && !req.Month.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown month"})
		return
	}

	row := h.DB.QueryRow(`
		UPDATE trackers
		SET amount = COALESCE($3, amount),
		    label = COALESCE($4, label),
		    description = COALESCE($5, description),
		    currency = COALESCE($6, currency),
		    month = COALESCE($7, month),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+trackerColumns,
		trackerID, userID, req.Amount, req.Label, req.Description, req.Currency, req.Month)

	tracker, err := scanTracker(row.Scan)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tracker not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tracker"})
		return
	}

	h.notify(c, "tracker_updated")
	c.JSON(http.StatusOK, tracker)
}

func (h *TrackerHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	trackerID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE FROM trackers WHERE id = $1 AND user_id = $2
	`, trackerID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tracker"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tracker not found"})
		return
	}

	h.notify(c, "tracker_deleted")
	c.JSON(http.StatusOK, gin.H{})
}

// Dashboard folds the caller's trackers into the summary and yearly chart.
func (h *TrackerHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT amount, currency, month, year FROM trackers WHERE user_id = $1
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	records := []models.MonetaryRecord{}
	for rows.Next() {
		var record models.MonetaryRecord
		if err := rows.Scan(&record.Amount, &record.Currency, &record.Month, &record.Year); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		records = append(records, record)
	}

	c.JSON(http.StatusOK, services.BuildDashboard(records))
}
