package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"accountant-api/middleware"
	"accountant-api/models"
	"accountant-api/services"
)

type InvestmentHandler struct {
	DB *sql.DB
}

var hundred = decimal.NewFromInt(100)

// planName normalizes stored plan names: first letter upper, rest lower.
func planName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}

// platformInGroup confirms the platform belongs to the caller's household.
func (h *InvestmentHandler) platformInGroup(c *gin.Context, platformID string) bool {
	userID := middleware.GetUserID(c)

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return false
	}

	var exists bool
	err = h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM platforms WHERE id = $1 AND group_id = $2)
	`, platformID, groupID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return false
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
		return false
	}

	return true
}

const investmentColumns = `id, platform_id, plan_name, return_on_investment, nature, is_still_open, created_at, updated_at`

func scanInvestment(scan func(dest ...any) error) (models.Investment, error) {
	var inv models.Investment
	err := scan(&inv.ID, &inv.PlatformID, &inv.PlanName, &inv.ReturnOnInvestment,
		&inv.Nature, &inv.IsStillOpen, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

func (h *InvestmentHandler) Create(c *gin.Context) {
	platformID := c.Param("id")

	var req models.CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.PlanName = planName(req.PlanName)

	if req.ReturnOnInvestment.IsNegative() || req.ReturnOnInvestment.GreaterThan(hundred) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "return_on_investment must be between 0 and 100"})
		return
	}

	if !h.platformInGroup(c, platformID) {
		return
	}

	var exists bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM investments WHERE platform_id = $1 AND plan_name = $2)
	`, platformID, req.PlanName).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan already exists"})
		return
	}

	row := h.DB.QueryRow(`
		INSERT INTO investments (platform_id, plan_name, return_on_investment, nature)
		VALUES ($1, $2, $3, $4)
		RETURNING `+investmentColumns,
		platformID, req.PlanName, req.ReturnOnInvestment, req.Nature)

	investment, err := scanInvestment(row.Scan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create investment"})
		return
	}

	c.JSON(http.StatusCreated, investment)
}

func (h *InvestmentHandler) List(c *gin.Context) {
	platformID := c.Param("id")

	if !h.platformInGroup(c, platformID) {
		return
	}

	rows, err := h.DB.Query(`
		SELECT `+investmentColumns+` FROM investments
		WHERE platform_id = $1
		ORDER BY created_at DESC
	`, platformID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	investments := []models.Investment{}
	for rows.Next() {
		investment, err := scanInvestment(rows.Scan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		investments = append(investments, investment)
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  investments,
		"result_size": len(investments),
	})
}

// investmentInGroup loads an investment after confirming group ownership
// through its platform.
func (h *InvestmentHandler) investmentInGroup(c *gin.Context, investmentID string) (models.Investment, bool) {
	userID := middleware.GetUserID(c)

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return models.Investment{}, false
	}

	row := h.DB.QueryRow(`
		SELECT i.id, i.platform_id, i.plan_name, i.return_on_investment, i.nature, i.is_still_open, i.created_at, i.updated_at
		FROM investments i
		INNER JOIN platforms p ON i.platform_id = p.id
		WHERE i.id = $1 AND p.group_id = $2
	`, investmentID, groupID)

	investment, err := scanInvestment(row.Scan)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investment plan not found"})
		return models.Investment{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return models.Investment{}, false
	}

	return investment, true
}

func (h *InvestmentHandler) Get(c *gin.Context) {
	investment, ok := h.investmentInGroup(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, investment)
}

func (h *InvestmentHandler) Update(c *gin.Context) {
	investmentID := c.Param("id")

	var req models.UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ReturnOnInvestment != nil &&
		(req.ReturnOnInvestment.IsNegative() || req.ReturnOnInvestment.GreaterThan(hundred)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "return_on_investment must be between 0 and 100"})
		return
	}

	if _, ok := h.investmentInGroup(c, investmentID); !ok {
		return
	}

	row := h.DB.QueryRow(`
		UPDATE investments
		SET return_on_investment = COALESCE($2, return_on_investment),
		    nature = COALESCE($3, nature),
		    is_still_open = COALESCE($4, is_still_open),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+investmentColumns,
		investmentID, req.ReturnOnInvestment, req.Nature, req.IsStillOpen)

	investment, err := scanInvestment(row.Scan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update investment"})
		return
	}

	c.JSON(http.StatusOK, investment)
}

func (h *InvestmentHandler) Delete(c *gin.Context) {
	investmentID := c.Param("id")

	if _, ok := h.investmentInGroup(c, investmentID); !ok {
		return
	}

	if _, err := h.DB.Exec(`DELETE FROM investments WHERE id = $1`, investmentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete investment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// ============================================================================
// ACTIVITIES
// ============================================================================

const activityColumns = `id, investment_id, amount, transaction_type, currency, created_at`

func scanActivity(scan func(dest ...any) error) (models.InvestmentActivity, error) {
	var a models.InvestmentActivity
	err := scan(&a.ID, &a.InvestmentID, &a.Amount, &a.TransactionType, &a.Currency, &a.CreatedAt)
	return a, err
}

func (h *InvestmentHandler) CreateActivity(c *gin.Context) {
	investmentID := c.Param("id")

	var req models.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		return
	}
	if !req.Currency.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown currency"})
		return
	}

	if _, ok := h.investmentInGroup(c, investmentID); !ok {
		return
	}

	row := h.DB.QueryRow(`
		INSERT INTO investment_activities (investment_id, amount, transaction_type, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING `+activityColumns,
		investmentID, req.Amount, req.TransactionType, req.Currency)

	activity, err := scanActivity(row.Scan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusCreated, activity)
}

func (h *InvestmentHandler) ListActivities(c *gin.Context) {
	investmentID := c.Param("id")

	if _, ok := h.investmentInGroup(c, investmentID); !ok {
		return
	}

	rows, err := h.DB.Query(`
		SELECT `+activityColumns+` FROM investment_activities
		WHERE investment_id = $1
		ORDER BY created_at DESC
	`, investmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	activities := []models.InvestmentActivity{}
	for rows.Next() {
		activity, err := scanActivity(rows.Scan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		activities = append(activities, activity)
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  activities,
		"result_size": len(activities),
	})
}

func (h *InvestmentHandler) UpdateActivity(c *gin.Context) {
	investmentID := c.Param("id")
	activityID := c.Param("activity_id")

	var req models.UpdateActivityRequest
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

	if _, ok := h.investmentInGroup(c, investmentID); !ok {
		return
	}

	row := h.DB.QueryRow(`
		UPDATE investment_activities
		SET amount = COALESCE($3, amount),
		    transaction_type = COALESCE($4, transaction_type),
		    currency = COALESCE($5, currency)
		WHERE id = $1 AND investment_id = $2
		RETURNING `+activityColumns,
		activityID, investmentID, req.Amount, req.TransactionType, req.Currency)

	activity, err := scanActivity(row.Scan)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
		return
	}

	c.JSON(http.StatusOK, activity)
}

func (h *InvestmentHandler) DeleteActivity(c *gin.Context) {
	investmentID := c.Param("id")
	activityID := c.Param("activity_id")

	if _, ok := h.investmentInGroup(c, investmentID); !ok {
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM investment_activities WHERE id = $1 AND investment_id = $2
	`, activityID, investmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// Dashboard rolls every activity in the household up into cash-in/cash-out
// per currency under each platform.
func (h *InvestmentHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	rows, err := h.DB.Query(`
		SELECT p.name, a.transaction_type, a.currency, a.amount
		FROM investment_activities a
		INNER JOIN investments i ON a.investment_id = i.id
		INNER JOIN platforms p ON i.platform_id = p.id
		WHERE p.group_id = $1
	`, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	activityRows := []services.ActivityRow{}
	for rows.Next() {
		var row services.ActivityRow
		if err := rows.Scan(&row.Platform, &row.TransactionType, &row.Currency, &row.Amount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		activityRows = append(activityRows, row)
	}

	c.JSON(http.StatusOK, services.BuildInvestmentDashboard(activityRows))
}
