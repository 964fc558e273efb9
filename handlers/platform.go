package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"accountant-api/middleware"
	"accountant-api/models"
	"accountant-api/services"
	"accountant-api/utils"
)

type PlatformHandler struct {
	DB *sql.DB
}

const platformColumns = `id, group_id, name, website, platform_type,
	COALESCE(cred_email, ''), COALESCE(cred_username, ''), cred_password,
	COALESCE(cred_transaction_pin, ''), cred_encoded, created_at, updated_at`

func scanPlatform(scan func(dest ...any) error) (models.Platform, error) {
	var p models.Platform
	err := scan(&p.ID, &p.GroupID, &p.Name, &p.Website, &p.PlatformType,
		&p.AccessCredential.Email, &p.AccessCredential.Username, &p.AccessCredential.Password,
		&p.AccessCredential.TransactionPin, &p.AccessCredential.IsEncoded,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (h *PlatformHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Name = strings.ToLower(strings.TrimSpace(req.Name))

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	var exists bool
	err = h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM platforms WHERE group_id = $1 AND name = $2)
	`, groupID, req.Name).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Platform already added"})
		return
	}

	// Credential fields are signed exactly once, here, before they touch
	// the database.
	encoded, err := services.EncodeCredential(req.AccessCredential, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to protect credentials"})
		return
	}

	row := h.DB.QueryRow(`
		INSERT INTO platforms (group_id, name, website, platform_type,
			cred_email, cred_username, cred_password, cred_transaction_pin, cred_encoded)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), $9)
		RETURNING `+platformColumns,
		groupID, req.Name, req.Website, req.PlatformType,
		encoded.Email, encoded.Username, encoded.Password, encoded.TransactionPin, encoded.IsEncoded)

	platform, err := scanPlatform(row.Scan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create platform"})
		return
	}

	c.JSON(http.StatusCreated, platform)
}

func (h *PlatformHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	rows, err := h.DB.Query(`
		SELECT `+platformColumns+` FROM platforms
		WHERE group_id = $1
		ORDER BY created_at DESC
	`, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	platforms := []models.Platform{}
	for rows.Next() {
		platform, err := scanPlatform(rows.Scan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		platforms = append(platforms, platform)
	}

	c.JSON(http.StatusOK, gin.H{
		"result_set":  platforms,
		"result_size": len(platforms),
	})
}

func (h *PlatformHandler) get(c *gin.Context, platformID string) (models.Platform, bool) {
	userID := middleware.GetUserID(c)

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return models.Platform{}, false
	}

	row := h.DB.QueryRow(`
		SELECT `+platformColumns+` FROM platforms WHERE id = $1 AND group_id = $2
	`, platformID, groupID)

	platform, err := scanPlatform(row.Scan)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
		return models.Platform{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return models.Platform{}, false
	}

	return platform, true
}

func (h *PlatformHandler) Get(c *gin.Context) {
	platform, ok := h.get(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, platform)
}

func (h *PlatformHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	platformID := c.Param("id")

	var req models.UpdatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	if req.Name != nil {
		lowered := strings.ToLower(strings.TrimSpace(*req.Name))
		req.Name = &lowered
	}

	row := h.DB.QueryRow(`
		UPDATE platforms
		SET name = COALESCE($3, name),
		    website = COALESCE($4, website),
		    platform_type = COALESCE($5, platform_type),
		    updated_at = NOW()
		WHERE id = $1 AND group_id = $2
		RETURNING `+platformColumns,
		platformID, groupID, req.Name, req.Website, req.PlatformType)

	platform, err := scanPlatform(row.Scan)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update platform"})
		return
	}

	c.JSON(http.StatusOK, platform)
}

func (h *PlatformHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	platformID := c.Param("id")

	groupID, err := groupIDForOwner(c.Request.Context(), h.DB, userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM platforms WHERE id = $1 AND group_id = $2
	`, platformID, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete platform"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// Decode returns the platform with its credential fields in plaintext. The
// caller proves account access by re-sending their password.
func (h *PlatformHandler) Decode(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.DecodePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var passwordHash string
	if err := h.DB.QueryRow(`SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&passwordHash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !utils.CheckPassword(req.Password, passwordHash) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access credential is invalid"})
		return
	}

	platform, ok := h.get(c, c.Param("id"))
	if !ok {
		return
	}

	decoded, err := services.DecodeCredential(platform.AccessCredential, platform.GroupID)
	if err != nil {
		// A bad MAC means the stored tokens no longer match the group key;
		// never hand back raw ciphertext.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode credentials"})
		return
	}
	platform.AccessCredential = decoded

	c.JSON(http.StatusOK, platform)
}
