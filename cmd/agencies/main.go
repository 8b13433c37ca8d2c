package main

import (
	"tourdesk/internal/agencies/handler"
	"tourdesk/internal/agencies/repository"
	"tourdesk/internal/agencies/service"
	"tourdesk/internal/agencies/validator"
	"tourdesk/pkg/app"
	"tourdesk/pkg/config"
	"tourdesk/pkg/contracts"
)

const ServiceName = "agencies"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Agencies service")
	handlers := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	serverApp.Run()
}

// The agencies service hosts both the agency CRUD and the agency
// unavailable-schedule endpoints; they share one validator and database.
func initServices(cfg *config.Config) []contracts.Handler {
	agencyValidator := validator.NewAgencyValidator(cfg.Log)
	agencyRepo := repository.NewMongoAgencyRepository(cfg)
	scheduleRepo := repository.NewMongoUnavailableScheduleRepository(cfg)

	agencyService := service.NewAgencyService(
		agencyRepo,
		agencyValidator,
		cfg,
	)
	scheduleService := service.NewUnavailableScheduleService(
		scheduleRepo,
		agencyRepo,
		agencyValidator,
		cfg,
	)

	cfg.Log.Info("Agency services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		handler.NewAgencyHandler(agencyService, cfg.Log),
		handler.NewUnavailableScheduleHandler(scheduleService, cfg.Log),
	}
}
