package api

import (
	"github.com/rpupo63/portfolio-sync-backend/drive"
	"github.com/rpupo63/portfolio-sync-backend/github"
	"github.com/rpupo63/portfolio-sync-backend/services"
)

// Dependencies carries every collaborator the HTTP surface needs. All of
// them are constructed in main and injected here.
type Dependencies struct {
	Projects *services.ProjectService
	Sync     *services.SyncService
	Backup   *services.BackupService
	Migrate  *services.MigrateService
	Email    *services.EmailService
	Drive    *drive.Adapter
	Github   *github.Client
}

type routeHandlers struct {
	projectHandler projectHandler
	dataHandler    dataHandler
	notionHandler  notionHandler
	driveHandler   driveHandler
	debugHandler   debugHandler
	emailHandler   emailHandler
	authHandler    authHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, cfg map[string]string) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(deps.Projects),
		dataHandler:    newDataHandler(deps.Sync, deps.Backup, deps.Migrate, deps.Github),
		notionHandler:  newNotionHandler(deps.Sync, deps.Backup),
		driveHandler:   newDriveHandler(deps.Drive, deps.Backup),
		debugHandler:   newDebugHandler(deps.Projects, cfg),
		emailHandler:   newEmailHandler(deps.Email),
		authHandler:    newAuthHandler(cfg),
	}
}
