package service

import (
	"context"

	"tourdesk/pkg/model"
)

// The booking engine reads activities, agents and agency blackouts owned by
// other services. These narrow interfaces are satisfied by the concrete
// repositories and by test fakes.

type ActivityReader interface {
	FindByID(ctx context.Context, id string) (*model.Activity, error)
}

type AgentReader interface {
	FindByID(ctx context.Context, id string) (*model.Agent, error)
}

type AgencyBlackoutReader interface {
	ExistsActiveForDate(ctx context.Context, agencyID string, date string) (bool, error)
}
