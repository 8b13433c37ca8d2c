package main

import (
	"tourdesk/internal/activities/handler"
	"tourdesk/internal/activities/repository"
	"tourdesk/internal/activities/service"
	"tourdesk/internal/activities/validator"
	"tourdesk/pkg/app"
	"tourdesk/pkg/config"
)

const ServiceName = "activities"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Activities service")
	activityService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewActivityHandler(activityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ActivityService {
	activityValidator := validator.NewActivityValidator(cfg.Log)
	activityRepo := repository.NewMongoActivityRepository(cfg)
	activityService := service.NewActivityService(
		activityRepo,
		activityValidator,
		cfg,
	)

	cfg.Log.Info("Activity service initialized", "database", cfg.MongoDatabaseName)
	return activityService
}
