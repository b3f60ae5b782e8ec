package service

import (
	"context"
	"fmt"
	"log"

	"matching-service/internal/event"
	"matching-service/internal/matching"
	"matching-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MatchService computes and maintains match results. Scoring itself is
// pure; only resolving profiles and persisting rescores touch the store.
type MatchService struct {
	agentRepo AgentStore
	gigRepo   GigStore
	relRepo   RelationshipStore
	publisher event.Publisher
}

func NewMatchService(agentRepo AgentStore, gigRepo GigStore, relRepo RelationshipStore, publisher event.Publisher) *MatchService {
	return &MatchService{
		agentRepo: agentRepo,
		gigRepo:   gigRepo,
		relRepo:   relRepo,
		publisher: publisher,
	}
}

// ComputeMatch scores one agent against one gig. No side effects.
func (s *MatchService) ComputeMatch(agent *models.AgentProfile, gig *models.GigProfile, weights models.Weights) (models.MatchResult, error) {
	engine, err := matching.NewEngine(weights)
	if err != nil {
		return models.MatchResult{}, err
	}
	return engine.Score(agent, gig), nil
}

// ComputeMatchByIDs resolves both profiles and scores them.
func (s *MatchService) ComputeMatchByIDs(ctx context.Context, agentID, gigID string, weights *models.Weights) (models.MatchResult, error) {
	agent, gig, err := s.resolvePair(ctx, agentID, gigID)
	if err != nil {
		return models.MatchResult{}, err
	}

	w := models.DefaultWeights()
	if weights != nil {
		w = *weights
	}
	return s.ComputeMatch(agent, gig, w)
}

// RescoreRelationship recomputes a stored match result with the weight
// vector persisted on the record.
func (s *MatchService) RescoreRelationship(ctx context.Context, relationshipID string) (*models.GigAgent, error) {
	objectID, err := bson.ObjectIDFromHex(relationshipID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid relationship ID format", models.ErrValidation)
	}

	rel, err := s.relRepo.FindByID(ctx, objectID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: relationship %s", models.ErrNotFound, relationshipID)
		}
		return nil, fmt.Errorf("failed to get relationship: %w", err)
	}

	return s.rescore(ctx, rel)
}

// RescoreAgent recomputes every relationship of an agent after a profile
// change. Individual failures are logged and do not stop the sweep.
func (s *MatchService) RescoreAgent(ctx context.Context, agentID string) error {
	objectID, err := bson.ObjectIDFromHex(agentID)
	if err != nil {
		return fmt.Errorf("%w: invalid agent ID format", models.ErrValidation)
	}

	rels, err := s.relRepo.FindByAgent(ctx, objectID)
	if err != nil {
		return fmt.Errorf("failed to load relationships for agent %s: %w", agentID, err)
	}
	return s.rescoreAll(ctx, rels)
}

// RescoreGig mirrors RescoreAgent for a gig change.
func (s *MatchService) RescoreGig(ctx context.Context, gigID string) error {
	objectID, err := bson.ObjectIDFromHex(gigID)
	if err != nil {
		return fmt.Errorf("%w: invalid gig ID format", models.ErrValidation)
	}

	rels, err := s.relRepo.FindByGig(ctx, objectID)
	if err != nil {
		return fmt.Errorf("failed to load relationships for gig %s: %w", gigID, err)
	}
	return s.rescoreAll(ctx, rels)
}

func (s *MatchService) rescoreAll(ctx context.Context, rels []*models.GigAgent) error {
	for _, rel := range rels {
		if _, err := s.rescore(ctx, rel); err != nil {
			log.Printf("Failed to rescore relationship %s: %v", rel.ID.Hex(), err)
		}
	}
	return nil
}

func (s *MatchService) rescore(ctx context.Context, rel *models.GigAgent) (*models.GigAgent, error) {
	agent, err := s.agentRepo.FindByID(ctx, rel.AgentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	gig, err := s.gigRepo.FindByID(ctx, rel.GigID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gig: %w", err)
	}

	result, err := s.ComputeMatch(agent, gig, rel.Weights)
	if err != nil {
		return nil, err
	}

	updated := *rel
	updated.MatchScore = result.Score
	updated.MatchStatus = result.Status
	updated.MatchDetails = result.Details

	saved, err := s.relRepo.Update(ctx, rel.ID, &updated)
	if err != nil {
		return nil, fmt.Errorf("failed to store rescored relationship: %w", err)
	}

	if err := s.publisher.PublishGigAgentEvent(event.NewGigAgentEvent(models.EventTypeRelationshipRescored, saved)); err != nil {
		log.Printf("Failed to publish rescored event: %v", err)
	}
	return saved, nil
}

// GetAgentProfile returns one agent document.
func (s *MatchService) GetAgentProfile(ctx context.Context, agentID string) (*models.AgentProfile, error) {
	objectID, err := bson.ObjectIDFromHex(agentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid agent ID format", models.ErrValidation)
	}

	agent, err := s.agentRepo.FindByID(ctx, objectID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: agent %s", models.ErrNotFound, agentID)
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return agent, nil
}

// GetGigProfile returns one gig document.
func (s *MatchService) GetGigProfile(ctx context.Context, gigID string) (*models.GigProfile, error) {
	objectID, err := bson.ObjectIDFromHex(gigID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gig ID format", models.ErrValidation)
	}

	gig, err := s.gigRepo.FindByID(ctx, objectID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: gig %s", models.ErrNotFound, gigID)
		}
		return nil, fmt.Errorf("failed to get gig: %w", err)
	}
	return gig, nil
}

func (s *MatchService) resolvePair(ctx context.Context, agentID, gigID string) (*models.AgentProfile, *models.GigProfile, error) {
	agentObjectID, err := bson.ObjectIDFromHex(agentID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid agent ID format", models.ErrValidation)
	}
	gigObjectID, err := bson.ObjectIDFromHex(gigID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid gig ID format", models.ErrValidation)
	}

	agent, err := s.agentRepo.FindByID(ctx, agentObjectID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, fmt.Errorf("%w: agent %s", models.ErrNotFound, agentID)
		}
		return nil, nil, fmt.Errorf("failed to get agent: %w", err)
	}

	gig, err := s.gigRepo.FindByID(ctx, gigObjectID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, fmt.Errorf("%w: gig %s", models.ErrNotFound, gigID)
		}
		return nil, nil, fmt.Errorf("failed to get gig: %w", err)
	}

	return agent, gig, nil
}
