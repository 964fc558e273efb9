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

// EarningHandler manages income records.
type EarningHandler struct {
	DB *sql.DB
	WS *WSHandler
}

const earningColumns = `id, user_id, amount, currency, pay_date, month, year, created_at, updated_at`

func scanEarning(scan func(dest ...any) error) (models.Earning, error) {
	var e models.Earning
	err := scan(&e.ID, &e.UserID, &e.Amount, &e.Currency, &e.PayDate,
		&e.Month, &e.Year, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (h *EarningHandler) notify(c *gin.Context, updateType string) {
	userID := middleware.GetUserID(c)
	if groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID); err == nil {
		h.WS.BroadcastUpdate(groupID, updateType, userID)
	}
}

// validateEarningEntries checks the whole batch before anything is written,
// returning the parsed pay dates. A non-empty message means the batch is
// rejected as a whole.
func validateEarningEntries(entries []models.CreateEarningRequest) ([]time.Time, string) {
	payDates := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		if entry.Amount.IsNegative() {
			return nil, "Amount must not be negative"
		}
		if !entry.Currency.Valid() {
			return nil, "Unknown currency"
		}
		if !entry.Month.Valid() {
			return nil, "Unknown month"
		}
		payDate, err := time.Parse("2006-01-02", entry.PayDate)
		if err != nil {
			return nil, "pay_date must be YYYY-MM-DD"
		}
		payDates = append(payDates, payDate)
	}
	return payDates, ""
}

// Create inserts a batch of earnings stamped with the current year. The
// batch lands whole or not at all.
func (h *EarningHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateEarningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payDates, msg := validateEarningEntries(req.Earnings)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	year := time.Now().Year()

	earnings := []models.Earning{}
	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		for i, entry := range req.Earnings {
			row := tx.QueryRow(`
				INSERT INTO earnings (user_id, amount, currency, pay_date, month, year)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING `+earningColumns,
				userID, entry.Amount, entry.Currency, payDates[i], entry.Month, year)

			earning, err := scanEarning(row.Scan)
			if err != nil {
				return err
			}
			earnings = append(earnings, earning)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create earnings"})
		return
	}

	h.notify(c, "earning_created")

	c.JSON(http.StatusCreated, gin.H{
		"result_set":  earnings,
		"result_size": len(earnings),
	})
}

func (h *EarningHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT `+earningColumns+` FROM earnings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	earnings := []models.Earning{}
	for rows.Next() {
		earning, err := scanEarning(rows.Scan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		earnings = append(earnings, earning)
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  earnings,
		"result_size": len(earnings),
	})
}

func (h *EarningHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	earningID := c.Param("id")

	row := h.DB.QueryRow(`
		SELECT `+earningColumns+` FROM earnings WHERE id = $1 AND user_id = $2
	`, earningID, userID)

	earning, err := scanEarning(row.Scan)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Earning not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, earning)
}

func (h *EarningHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	earningID := c.Param("id")

	var req models.UpdateEarningRequest
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

	var payDate *time.Time
	if req.PayDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.PayDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pay_date must be YYYY-MM-DD"})
			return
		}
		payDate = &parsed
	}

	row := h.DB.QueryRow(`
		UPDATE earnings
		SET amount = COALESCE($3, amount),
		    currency = COALESCE($4, currency),
		    pay_date = COALESCE($5, pay_date),
		    month = COALESCE($6, month),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+earningColumns,
		earningID, userID, req.Amount, req.Currency, payDate, req.Month)

	earning, err := scanEarning(row.Scan)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Earning not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update earning"})
		return
	}

	h.notify(c, "earning_updated")
	c.JSON(http.StatusOK, earning)
}

func (h *EarningHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	earningID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE FROM earnings WHERE id = $1 AND user_id = $2
	`, earningID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete earning"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Earning not found"})
		return
	}

	h.notify(c, "earning_deleted")
	c.JSON(http.StatusOK, gin.H{})
}

// Dashboard folds the caller's earnings into the summary and yearly chart.
func (h *EarningHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT amount, currency, month, year FROM earnings WHERE user_id = $1
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
