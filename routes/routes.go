package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"accountant-api/handlers"
	"accountant-api/services"
	"accountant-api/utils"
)

// Deps carries the shared services the handlers are built from.
type Deps struct {
	DB        *sql.DB
	JWTSecret string
	Signer    *utils.Signer
	Tokens    *services.TokenStore
	Email     *services.EmailService
	Wills     *services.WillService
	WS        *handlers.WSHandler
}

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, d *Deps) {
	authHandler := &handlers.AuthHandler{
		DB:        d.DB,
		JWTSecret: d.JWTSecret,
		Signer:    d.Signer,
		Tokens:    d.Tokens,
		Email:     d.Email,
		Wills:     d.Wills,
	}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
	rg.POST("/auth/logout", authHandler.Logout)
	rg.GET("/auth/verify", authHandler.VerifyEmail)
	rg.POST("/auth/forgot-password", authHandler.ForgotPassword)
	rg.POST("/auth/reset-password", authHandler.ResetPassword)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, d *Deps) {
	userHandler := &handlers.UserHandler{DB: d.DB}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupDependentRoutes sets up household membership and invitation routes.
func SetupDependentRoutes(rg *gin.RouterGroup, d *Deps) {
	dependentHandler := &handlers.DependentHandler{DB: d.DB, Email: d.Email}

	rg.POST("/dependents", dependentHandler.Invite)
	rg.GET("/dependents", dependentHandler.List)
	rg.GET("/dependents/:id", dependentHandler.Get)
	rg.PUT("/dependents/:id", dependentHandler.Update)
	rg.DELETE("/dependents/:id", dependentHandler.Delete)
	rg.GET("/dependents/members", dependentHandler.Members)
}

// SetupPlatformRoutes sets up investment platform routes, including the
// credential decode endpoint.
func SetupPlatformRoutes(rg *gin.RouterGroup, d *Deps) {
	platformHandler := &handlers.PlatformHandler{DB: d.DB}

	rg.POST("/platforms", platformHandler.Create)
	rg.GET("/platforms", platformHandler.List)
	rg.GET("/platforms/:id", platformHandler.Get)
	rg.PUT("/platforms/:id", platformHandler.Update)
	rg.DELETE("/platforms/:id", platformHandler.Delete)
	rg.POST("/platforms/:id/decode", platformHandler.Decode)
}

// SetupInvestmentRoutes sets up investment and activity routes.
func SetupInvestmentRoutes(rg *gin.RouterGroup, d *Deps) {
	investmentHandler := &handlers.InvestmentHandler{DB: d.DB}

	rg.POST("/platforms/:id/investments", investmentHandler.Create)
	rg.GET("/platforms/:id/investments", investmentHandler.List)
	rg.GET("/investments/dashboard", investmentHandler.Dashboard)
	rg.GET("/investments/:id", investmentHandler.Get)
	rg.PUT("/investments/:id", investmentHandler.Update)
	rg.DELETE("/investments/:id", investmentHandler.Delete)

	rg.POST("/investments/:id/activities", investmentHandler.CreateActivity)
	rg.GET("/investments/:id/activities", investmentHandler.ListActivities)
	rg.PUT("/investments/:id/activities/:activity_id", investmentHandler.UpdateActivity)
	rg.DELETE("/investments/:id/activities/:activity_id", investmentHandler.DeleteActivity)
}

// SetupRecordRoutes sets up expense tracker and earning routes.
func SetupRecordRoutes(rg *gin.RouterGroup, d *Deps) {
	trackerHandler := &handlers.TrackerHandler{DB: d.DB, WS: d.WS}
	earningHandler := &handlers.EarningHandler{DB: d.DB, WS: d.WS}

	rg.POST("/trackers", trackerHandler.Create)
	rg.GET("/trackers", trackerHandler.List)
	rg.GET("/trackers/dashboard", trackerHandler.Dashboard)
	rg.GET("/trackers/:id", trackerHandler.Get)
	rg.PUT("/trackers/:id", trackerHandler.Update)
	rg.DELETE("/trackers/:id", trackerHandler.Delete)

	rg.POST("/earnings", earningHandler.Create)
	rg.GET("/earnings", earningHandler.List)
	rg.GET("/earnings/dashboard", earningHandler.Dashboard)
	rg.GET("/earnings/:id", earningHandler.Get)
	rg.PUT("/earnings/:id", earningHandler.Update)
	rg.DELETE("/earnings/:id", earningHandler.Delete)
}

// SetupWillRoutes sets up will assignment and claim routes.
func SetupWillRoutes(rg *gin.RouterGroup, d *Deps) {
	willHandler := &handlers.WillHandler{DB: d.DB, Wills: d.Wills}

	rg.POST("/wills", willHandler.Create)
	rg.GET("/wills", willHandler.ListOwned)
	rg.GET("/wills/allotments", willHandler.ListAllotments)
	rg.GET("/wills/:id", willHandler.Get)
	rg.PUT("/wills/:id/reassign", willHandler.Reassign)
	rg.POST("/wills/:id/claim", willHandler.Claim)
	rg.DELETE("/wills/:id", willHandler.Delete)
}
