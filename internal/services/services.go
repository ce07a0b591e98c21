package services

import (
	"gorm.io/gorm"

	"autodocgen/internal/repositories"
	"autodocgen/internal/trello"
)

// Services aggregates all domain services backed by the database.
// Fields use plural names (e.g., Workflows) to align with Go conventions
// seen in service/store containers.
type Services struct {
	Notifications NotificationService
	Boards        BoardService
	Workflows     WorkflowService
	Templates     TemplateService
}

// Config carries the non-database collaborator settings.
type Config struct {
	AppKey  string
	BaseURL string
}

// NewServices constructs the service container using repositories backed by
// db, the shared Trello client, and the generation pipeline.
func NewServices(db *gorm.DB, client *trello.Client, pipeline PipelineRunner, cfg Config) *Services {
	notificationRepo := repositories.NewNotificationRepository(db)
	mappingRepo := repositories.NewBoardMappingRepository(db)
	tokenRepo := repositories.NewUserTokenRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)

	return &Services{
		Notifications: NewNotificationService(notificationRepo, mappingRepo),
		Boards: NewBoardService(BoardConfig{
			Tokens:   tokenRepo,
			Mappings: mappingRepo,
			Docs:     docRepo,
			Client:   client,
			AppKey:   cfg.AppKey,
			BaseURL:  cfg.BaseURL,
		}),
		Workflows: NewWorkflowService(WorkflowConfig{
			Tokens:   tokenRepo,
			Docs:     docRepo,
			Pipeline: pipeline,
			Boards:   client,
			AppKey:   cfg.AppKey,
		}),
		Templates: NewTemplateService(templateRepo),
	}
}
