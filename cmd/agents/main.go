package main

import (
	"tourdesk/internal/agents/handler"
	"tourdesk/internal/agents/repository"
	"tourdesk/internal/agents/service"
	"tourdesk/internal/agents/validator"
	"tourdesk/pkg/app"
	"tourdesk/pkg/config"
)

const ServiceName = "agents"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Agents service")
	agentService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewAgentHandler(agentService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AgentService {
	agentValidator := validator.NewAgentValidator(cfg.Log)
	agentRepo := repository.NewMongoAgentRepository(cfg)
	agentService := service.NewAgentService(
		agentRepo,
		agentValidator,
		cfg,
	)

	cfg.Log.Info("Agent service initialized", "database", cfg.MongoDatabaseName)
	return agentService
}
