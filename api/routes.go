package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public read surface and the admin-gated write
// surface under /api.
func setupRoutes(r chi.Router, handlers *routeHandlers, admin adminMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public read surface
		r.Get("/health", handlers.debugHandler.health())
		r.Get("/projects", handlers.projectHandler.getProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/debug", handlers.debugHandler.debug())
		r.Get("/debug/properties", handlers.debugHandler.debugProperties())
		r.Get("/data/status", handlers.dataHandler.getStatus())
		r.Post("/send-email", handlers.emailHandler.sendEmail())
		r.Post("/auth/token", handlers.authHandler.mintToken())

		// Admin-gated write surface
		r.Group(func(r chi.Router) {
			r.Use(admin.authenticate)

			r.Post("/data/sync", handlers.dataHandler.runSync())
			r.Post("/data/backup", handlers.dataHandler.runBackup())
			r.Post("/data/migrate", handlers.dataHandler.runMigrate())

			r.Post("/notion/sync", handlers.notionHandler.runSync())
			r.Post("/notion/backup", handlers.notionHandler.runBackup())
			r.Get("/notion/backup-history", handlers.notionHandler.getBackupHistory())
			r.Post("/notion/restore", handlers.notionHandler.runRestore())

			r.Get("/drive/auth-url", handlers.driveHandler.getAuthURL())
			r.Post("/drive/exchange", handlers.driveHandler.exchangeCode())
			r.Post("/drive/backup", handlers.driveHandler.runBackup())
			r.Get("/drive/backups", handlers.driveHandler.listBackups())
			r.Post("/drive/restore", handlers.driveHandler.runRestore())
		})
	})
}
