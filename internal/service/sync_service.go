package service

import (
	"context"
	"fmt"
	"log"

	"matching-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// SyncService keeps the denormalized relationship entries embedded on
// agent and gig profiles aligned with the canonical GigAgent records.
// The embedded arrays are written best-effort after every transition;
// the read path never trusts them and rebuilds views from the canonical
// collection, so a failed sync self-heals on the next read.
type SyncService struct {
	agentRepo AgentStore
	gigRepo   GigStore
	relRepo   RelationshipStore
	viewCache ViewCache
}

func NewSyncService(agentRepo AgentStore, gigRepo GigStore, relRepo RelationshipStore, viewCache ViewCache) *SyncService {
	return &SyncService{
		agentRepo: agentRepo,
		gigRepo:   gigRepo,
		relRepo:   relRepo,
		viewCache: viewCache,
	}
}

// SyncLinks upserts the relationship entry into both embedded arrays.
// Idempotent under retry: an existing entry for the pair is updated in
// place, otherwise one is appended.
func (s *SyncService) SyncLinks(ctx context.Context, rel *models.GigAgent) error {
	agentErr := s.agentRepo.UpsertGigLink(ctx, rel.AgentID, models.GigLink{
		GigID:     rel.GigID,
		Status:    rel.EnrollmentStatus,
		CreatedAt: rel.Metadata.CreatedAt,
	})
	gigErr := s.gigRepo.UpsertAgentLink(ctx, rel.GigID, models.AgentLink{
		AgentID:   rel.AgentID,
		Status:    rel.EnrollmentStatus,
		CreatedAt: rel.Metadata.CreatedAt,
	})
	if agentErr != nil || gigErr != nil {
		return fmt.Errorf("failed to sync relationship links (agent: %v, gig: %v)", agentErr, gigErr)
	}
	return nil
}

// RemoveLinks drops the relationship entry from both embedded arrays.
func (s *SyncService) RemoveLinks(ctx context.Context, rel *models.GigAgent) error {
	agentErr := s.agentRepo.RemoveGigLink(ctx, rel.AgentID, rel.GigID)
	gigErr := s.gigRepo.RemoveAgentLink(ctx, rel.GigID, rel.AgentID)
	if agentErr != nil || gigErr != nil {
		return fmt.Errorf("failed to remove relationship links (agent: %v, gig: %v)", agentErr, gigErr)
	}
	return nil
}

// InvalidateViews drops both cached projections after a transition.
func (s *SyncService) InvalidateViews(ctx context.Context, rel *models.GigAgent) {
	if s.viewCache == nil {
		return
	}
	if err := s.viewCache.Invalidate(ctx, rel.AgentID.Hex(), rel.GigID.Hex()); err != nil {
		log.Printf("Failed to invalidate view cache for relationship %s: %v", rel.ID.Hex(), err)
	}
}

// AgentViews returns the agent's relationship view rebuilt from the
// canonical collection, served from cache when fresh. The rebuild also
// reconciles the embedded array on the agent document.
func (s *SyncService) AgentViews(ctx context.Context, agentID string) ([]models.RelationshipView, error) {
	objectID, err := bson.ObjectIDFromHex(agentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid agent ID format", models.ErrValidation)
	}

	if s.viewCache != nil {
		views, err := s.viewCache.GetAgentViews(ctx, agentID)
		if err != nil {
			log.Printf("View cache read failed for agent %s: %v", agentID, err)
		} else if views != nil {
			return views, nil
		}
	}

	rels, err := s.relRepo.FindByAgent(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships for agent %s: %w", agentID, err)
	}

	views := make([]models.RelationshipView, 0, len(rels))
	links := make([]models.GigLink, 0, len(rels))
	for _, rel := range rels {
		views = append(views, buildView(rel))
		links = append(links, models.GigLink{
			GigID:     rel.GigID,
			Status:    rel.EnrollmentStatus,
			CreatedAt: rel.Metadata.CreatedAt,
			UpdatedAt: rel.Metadata.UpdatedAt,
		})
	}

	// Reconcile the embedded projection from the canonical records.
	if err := s.agentRepo.ReplaceGigLinks(ctx, objectID, links); err != nil && err != mongo.ErrNoDocuments {
		log.Printf("Failed to reconcile gig links for agent %s: %v", agentID, err)
	}

	if s.viewCache != nil {
		if err := s.viewCache.SetAgentViews(ctx, agentID, views); err != nil {
			log.Printf("View cache write failed for agent %s: %v", agentID, err)
		}
	}
	return views, nil
}

// GigViews mirrors AgentViews for the gig side.
func (s *SyncService) GigViews(ctx context.Context, gigID string) ([]models.RelationshipView, error) {
	objectID, err := bson.ObjectIDFromHex(gigID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gig ID format", models.ErrValidation)
	}

	if s.viewCache != nil {
		views, err := s.viewCache.GetGigViews(ctx, gigID)
		if err != nil {
			log.Printf("View cache read failed for gig %s: %v", gigID, err)
		} else if views != nil {
			return views, nil
		}
	}

	rels, err := s.relRepo.FindByGig(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships for gig %s: %w", gigID, err)
	}

	views := make([]models.RelationshipView, 0, len(rels))
	links := make([]models.AgentLink, 0, len(rels))
	for _, rel := range rels {
		views = append(views, buildView(rel))
		links = append(links, models.AgentLink{
			AgentID:   rel.AgentID,
			Status:    rel.EnrollmentStatus,
			CreatedAt: rel.Metadata.CreatedAt,
			UpdatedAt: rel.Metadata.UpdatedAt,
		})
	}

	if err := s.gigRepo.ReplaceAgentLinks(ctx, objectID, links); err != nil && err != mongo.ErrNoDocuments {
		log.Printf("Failed to reconcile agent links for gig %s: %v", gigID, err)
	}

	if s.viewCache != nil {
		if err := s.viewCache.SetGigViews(ctx, gigID, views); err != nil {
			log.Printf("View cache write failed for gig %s: %v", gigID, err)
		}
	}
	return views, nil
}

func buildView(rel *models.GigAgent) models.RelationshipView {
	return models.RelationshipView{
		RelationshipID:   rel.ID.Hex(),
		AgentID:          rel.AgentID.Hex(),
		GigID:            rel.GigID.Hex(),
		EnrollmentStatus: rel.EnrollmentStatus,
		Status:           rel.CoarseStatus(),
		MatchScore:       rel.MatchScore,
		CreatedAt:        rel.Metadata.CreatedAt,
		UpdatedAt:        rel.Metadata.UpdatedAt,
	}
}
