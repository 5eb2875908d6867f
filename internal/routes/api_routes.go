package routes

import (
	"civic-commons/townhall/internal/api"
	"civic-commons/townhall/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const (
	authRatePerSecond = 1
	authBurst         = 10
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {
	authLimiter := middleware.NewIPRateLimiter(authRatePerSecond, authBurst)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public
		v1.Route("/auth", func(public chi.Router) {
			public.Use(authLimiter.Middleware)
			public.Post("/register", handlers.Register())
			public.Post("/login", handlers.Login())
		})

		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(deps.Services.Tokens))

			authed.Get("/users/me", handlers.Me())
			authed.Post("/users/location", handlers.UpdateLocation())
			authed.Get("/notifications", handlers.ListNotifications())
			authed.Post("/notifications/{id}/read", handlers.MarkNotificationRead())
			authed.Get("/issues", handlers.ListIssues())
			authed.Get("/issues/{id}", handlers.GetIssue())
			authed.Get("/leaderboard", handlers.Leaderboard())
			authed.Get("/community/stats", handlers.CommunityStats())

			// Member-only group
			authed.Group(func(member chi.Router) {
				member.Use(middleware.IsMemberMiddleware())
				member.Post("/issues", handlers.ReportIssue())
				member.Post("/issues/{id}/verify", handlers.VerifyExistence())
				member.Post("/issues/{id}/verify-resolution", handlers.VerifyResolution())
			})

			// Admin-only group
			authed.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())
				admin.Post("/issues/{id}/approve", handlers.ApproveIssue())
				admin.Post("/issues/{id}/reject", handlers.RejectIssue())
				admin.Post("/issues/{id}/progress", handlers.MarkInProgress())
				admin.Post("/issues/{id}/resolve", handlers.MarkResolved())
				admin.Post("/issues/{id}/close", handlers.CloseIssue())
				admin.Post("/issues/{id}/false-alarm", handlers.MarkFalseAlarm())
				admin.Get("/issues/{id}/audit", handlers.IssueAuditLog())

				// Background jobs management
				admin.Post("/admin/jobs/weekly-reset", handlers.TriggerWeeklyReset())
				admin.Get("/admin/jobs/status", handlers.JobStatus())
			})
		})
	})
}
