package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/patil-piyush/OceanGuard/auth"
	"github.com/patil-piyush/OceanGuard/controllers"
)

// Register attaches all API endpoints to the app.
func Register(app *fiber.App, rc *controllers.ReportController, ac *controllers.AuthorityController, identity auth.Provider) {
	api := app.Group("/api")

	// Reporter endpoints
	user := api.Group("", auth.Middleware(identity, auth.RoleUser))
	user.Post("/reports", rc.HandleCreateReport)
	user.Get("/reports/mine", rc.HandleMyReports)

	// Authority endpoints
	authority := api.Group("", auth.Middleware(identity, auth.RoleAuthority))
	authority.Post("/reports/:id/decision", rc.HandleDecide)
	authority.Post("/reports/:id/status", rc.HandleUpdateStatus)
	authority.Get("/reports/pending", rc.HandlePendingReports)
	authority.Get("/reports/completed", rc.HandleCompletedReports)
	authority.Put("/authorities/availability", ac.HandleAvailability)

	// Either role
	shared := api.Group("", auth.Middleware(identity, ""))
	shared.Get("/authorities/nearby", rc.HandleNearbyAuthorities)
	shared.Post("/trajectory/preview", rc.HandleTrajectoryPreview)
}
