package service

import (
	"context"

	"matching-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// The services consume the repositories through these interfaces so the
// lifecycle logic can be exercised against in-memory fakes.

type AgentStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.AgentProfile, error)
	UpsertGigLink(ctx context.Context, agentID bson.ObjectID, link models.GigLink) error
	RemoveGigLink(ctx context.Context, agentID, gigID bson.ObjectID) error
	ReplaceGigLinks(ctx context.Context, agentID bson.ObjectID, links []models.GigLink) error
}

type GigStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.GigProfile, error)
	AddEnrolledAgent(ctx context.Context, gigID, agentID bson.ObjectID) error
	UpsertAgentLink(ctx context.Context, gigID bson.ObjectID, link models.AgentLink) error
	RemoveAgentLink(ctx context.Context, gigID, agentID bson.ObjectID) error
	ReplaceAgentLinks(ctx context.Context, gigID bson.ObjectID, links []models.AgentLink) error
}

type RelationshipStore interface {
	New(ctx context.Context, rel *models.GigAgent) (*models.GigAgent, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.GigAgent, error)
	FindByPair(ctx context.Context, agentID, gigID bson.ObjectID) (*models.GigAgent, error)
	Update(ctx context.Context, id bson.ObjectID, rel *models.GigAgent) (*models.GigAgent, error)
	UpdateEnrollment(ctx context.Context, id bson.ObjectID, from, to models.EnrollmentStatus, set bson.M) (*models.GigAgent, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	FindByAgent(ctx context.Context, agentID bson.ObjectID) ([]*models.GigAgent, error)
	FindByGig(ctx context.Context, gigID bson.ObjectID) ([]*models.GigAgent, error)
	FindExpiredInvitations(ctx context.Context, now int64) ([]*models.GigAgent, error)
}

// ViewCache is implemented by the Redis projection cache. A nil cache is
// valid; the sync service then rebuilds from the canonical records on
// every read.
type ViewCache interface {
	GetAgentViews(ctx context.Context, agentID string) ([]models.RelationshipView, error)
	SetAgentViews(ctx context.Context, agentID string, views []models.RelationshipView) error
	GetGigViews(ctx context.Context, gigID string) ([]models.RelationshipView, error)
	SetGigViews(ctx context.Context, gigID string, views []models.RelationshipView) error
	Invalidate(ctx context.Context, agentID, gigID string) error
}
