package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"matching-service/internal/event"
	"matching-service/internal/lifecycle"
	"matching-service/internal/matching"
	"matching-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// EnrollmentService drives the relationship lifecycle. Domain errors
// (NotFound, Conflict, InvalidState, Validation) are returned before any
// write; collaborator side effects (events, link sync, onboarding) run
// after the canonical write and never roll it back.
type EnrollmentService struct {
	agentRepo     AgentStore
	gigRepo       GigStore
	relRepo       RelationshipStore
	sync          *SyncService
	publisher     event.Publisher
	invitationTTL time.Duration
}

func NewEnrollmentService(
	agentRepo AgentStore,
	gigRepo GigStore,
	relRepo RelationshipStore,
	sync *SyncService,
	publisher event.Publisher,
	invitationTTL time.Duration,
) *EnrollmentService {
	return &EnrollmentService{
		agentRepo:     agentRepo,
		gigRepo:       gigRepo,
		relRepo:       relRepo,
		sync:          sync,
		publisher:     publisher,
		invitationTTL: invitationTTL,
	}
}

// InviteAgent creates an invited relationship from a company toward an
// agent. Conflict when any record for the pair already exists; the race
// between two concurrent creates is settled by the unique pair index.
func (s *EnrollmentService) InviteAgent(ctx context.Context, gigID, agentID, notes string) (*models.GigAgent, error) {
	agent, gig, err := s.resolvePair(ctx, agentID, gigID)
	if err != nil {
		return nil, err
	}

	existing, err := s.findPair(ctx, agent.ID, gig.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: agent %s and gig %s", models.ErrConflict, agentID, gigID)
	}

	rel, err := s.newRelationship(agent, gig, notes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rel.EnrollmentStatus = models.EnrollmentStatusInvited
	rel.InvitedAt = now.Unix()
	rel.ExpiresAt = now.Add(s.invitationTTL).Unix()

	created, err := s.relRepo.New(ctx, rel)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, created, models.EventTypeAgentInvited)
	return created, nil
}

// RequestEnrollment creates a requested relationship from an agent, or
// revives a terminal record for the pair. Disallowed while an invited,
// requested or enrolled record exists.
func (s *EnrollmentService) RequestEnrollment(ctx context.Context, agentID, gigID, notes string) (*models.GigAgent, error) {
	agent, gig, err := s.resolvePair(ctx, agentID, gigID)
	if err != nil {
		return nil, err
	}

	existing, err := s.findPair(ctx, agent.ID, gig.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if !lifecycle.Can(existing.EnrollmentStatus, lifecycle.ActionRequest) {
			return nil, models.NewStateError(existing.EnrollmentStatus, string(lifecycle.ActionRequest))
		}
		// Revive the terminal record; the unique pair index forbids a
		// second insert.
		updated, err := s.relRepo.UpdateEnrollment(ctx, existing.ID,
			existing.EnrollmentStatus, models.EnrollmentStatusRequested,
			bson.M{
				"requestedAt": time.Now().Unix(),
				"notes":       notes,
				"closedAt":    int64(0),
			},
		)
		if err != nil {
			return nil, s.transitionError(ctx, existing.ID, lifecycle.ActionRequest, err)
		}
		s.afterTransition(ctx, updated, models.EventTypeEnrollmentRequested)
		return updated, nil
	}

	rel, err := s.newRelationship(agent, gig, notes)
	if err != nil {
		return nil, err
	}
	rel.EnrollmentStatus = models.EnrollmentStatusRequested
	rel.RequestedAt = time.Now().Unix()

	created, err := s.relRepo.New(ctx, rel)
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, created, models.EventTypeEnrollmentRequested)
	return created, nil
}

// AcceptInvitation enrolls an invited agent. An invitation past its
// expiry is moved to expired instead and the accept fails.
func (s *EnrollmentService) AcceptInvitation(ctx context.Context, relationshipID, notes string) (*models.GigAgent, error) {
	return s.enroll(ctx, relationshipID, notes, lifecycle.ActionAcceptInvitation)
}

// AcceptEnrollmentRequest enrolls a requesting agent on company approval.
func (s *EnrollmentService) AcceptEnrollmentRequest(ctx context.Context, relationshipID, notes string) (*models.GigAgent, error) {
	return s.enroll(ctx, relationshipID, notes, lifecycle.ActionAcceptRequest)
}

func (s *EnrollmentService) enroll(ctx context.Context, relationshipID, notes string, action lifecycle.Action) (*models.GigAgent, error) {
	rel, err := s.getRelationship(ctx, relationshipID)
	if err != nil {
		return nil, err
	}

	if err := s.enforceExpiry(ctx, rel, action); err != nil {
		return nil, err
	}

	next, err := lifecycle.Apply(rel.EnrollmentStatus, action)
	if err != nil {
		return nil, err
	}

	set := bson.M{"enrolledAt": time.Now().Unix()}
	if notes != "" {
		set["notes"] = notes
	}

	updated, err := s.relRepo.UpdateEnrollment(ctx, rel.ID, rel.EnrollmentStatus, next, set)
	if err != nil {
		return nil, s.transitionError(ctx, rel.ID, action, err)
	}

	// Enrolled side effects: the gig's enrolled set, the denormalized
	// views, and the onboarding tracker. All best-effort.
	if err := s.gigRepo.AddEnrolledAgent(ctx, updated.GigID, updated.AgentID); err != nil {
		log.Printf("Failed to add agent %s to enrolled set of gig %s: %v",
			updated.AgentID.Hex(), updated.GigID.Hex(), err)
	}
	s.afterTransition(ctx, updated, models.EventTypeAgentEnrolled)
	if err := s.publisher.PublishOnboardingEvent(event.NewOnboardingProgressEvent(updated, "enrolled")); err != nil {
		log.Printf("Failed to publish onboarding progress event: %v", err)
	}
	return updated, nil
}

// RejectInvitation removes the relationship record outright. An agent
// declining an invitation leaves no trace for the pair; this is the one
// deleting transition in the lifecycle.
func (s *EnrollmentService) RejectInvitation(ctx context.Context, relationshipID string) error {
	rel, err := s.getRelationship(ctx, relationshipID)
	if err != nil {
		return err
	}

	if err := s.enforceExpiry(ctx, rel, lifecycle.ActionRejectInvitation); err != nil {
		return err
	}

	if !lifecycle.Can(rel.EnrollmentStatus, lifecycle.ActionRejectInvitation) {
		return models.NewStateError(rel.EnrollmentStatus, string(lifecycle.ActionRejectInvitation))
	}

	if err := s.relRepo.Delete(ctx, rel.ID); err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}

	if err := s.sync.RemoveLinks(ctx, rel); err != nil {
		log.Printf("Failed to remove relationship links for %s: %v", rel.ID.Hex(), err)
	}
	s.sync.InvalidateViews(ctx, rel)

	if err := s.publisher.PublishGigAgentEvent(event.NewGigAgentEvent(models.EventTypeInvitationDeclined, rel)); err != nil {
		log.Printf("Failed to publish invitation declined event: %v", err)
	}
	return nil
}

// RejectEnrollmentRequest closes a requested relationship as rejected.
// Unlike a declined invitation the record persists, so the agent can
// request again later.
func (s *EnrollmentService) RejectEnrollmentRequest(ctx context.Context, relationshipID, reason string) (*models.GigAgent, error) {
	return s.close(ctx, relationshipID, reason, lifecycle.ActionRejectRequest, models.EventTypeRequestRejected)
}

// CancelRelationship closes a pending relationship as cancelled.
func (s *EnrollmentService) CancelRelationship(ctx context.Context, relationshipID, reason string) (*models.GigAgent, error) {
	return s.close(ctx, relationshipID, reason, lifecycle.ActionCancel, models.EventTypeRelationshipCancelled)
}

func (s *EnrollmentService) close(ctx context.Context, relationshipID, reason string, action lifecycle.Action, eventType models.EventType) (*models.GigAgent, error) {
	rel, err := s.getRelationship(ctx, relationshipID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.Apply(rel.EnrollmentStatus, action)
	if err != nil {
		return nil, err
	}

	set := bson.M{"closedAt": time.Now().Unix()}
	if reason != "" {
		set["notes"] = reason
	}

	updated, err := s.relRepo.UpdateEnrollment(ctx, rel.ID, rel.EnrollmentStatus, next, set)
	if err != nil {
		return nil, s.transitionError(ctx, rel.ID, action, err)
	}

	s.afterTransition(ctx, updated, eventType)
	return updated, nil
}

// ExpireStale moves every invitation past its expiry to expired. Invoked
// from the sweep endpoint; there is no background scheduler.
func (s *EnrollmentService) ExpireStale(ctx context.Context) (*models.ExpireSweepResult, error) {
	now := time.Now().Unix()
	stale, err := s.relRepo.FindExpiredInvitations(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired invitations: %w", err)
	}

	result := &models.ExpireSweepResult{}
	for _, rel := range stale {
		updated, err := s.relRepo.UpdateEnrollment(ctx, rel.ID,
			rel.EnrollmentStatus, models.EnrollmentStatusExpired,
			bson.M{"closedAt": now},
		)
		if err != nil {
			log.Printf("Failed to expire relationship %s: %v", rel.ID.Hex(), err)
			continue
		}
		result.Expired++
		s.afterTransition(ctx, updated, models.EventTypeInvitationExpired)
	}
	return result, nil
}

// GetRelationship loads one canonical record.
func (s *EnrollmentService) GetRelationship(ctx context.Context, relationshipID string) (*models.GigAgent, error) {
	return s.getRelationship(ctx, relationshipID)
}

// enforceExpiry transitions an overdue invitation to expired before the
// attempted action is judged, so the caller sees the real current state.
func (s *EnrollmentService) enforceExpiry(ctx context.Context, rel *models.GigAgent, action lifecycle.Action) error {
	if !rel.IsInvitationExpired(time.Now().Unix()) {
		return nil
	}

	updated, err := s.relRepo.UpdateEnrollment(ctx, rel.ID,
		rel.EnrollmentStatus, models.EnrollmentStatusExpired,
		bson.M{"closedAt": time.Now().Unix()},
	)
	if err != nil {
		log.Printf("Failed to expire overdue invitation %s: %v", rel.ID.Hex(), err)
	} else {
		rel.EnrollmentStatus = updated.EnrollmentStatus
		s.afterTransition(ctx, updated, models.EventTypeInvitationExpired)
	}
	return models.NewStateError(models.EnrollmentStatusExpired, string(action))
}

// newRelationship scores the pair with the canonical weight vector and
// builds the unsaved record.
func (s *EnrollmentService) newRelationship(agent *models.AgentProfile, gig *models.GigProfile, notes string) (*models.GigAgent, error) {
	weights := models.DefaultWeights()
	engine, err := matching.NewEngine(weights)
	if err != nil {
		return nil, err
	}
	result := engine.Score(agent, gig)

	return &models.GigAgent{
		AgentID:      agent.ID,
		GigID:        gig.ID,
		MatchScore:   result.Score,
		MatchStatus:  result.Status,
		MatchDetails: result.Details,
		Weights:      weights,
		Notes:        notes,
	}, nil
}

// afterTransition runs the common post-write side effects: link sync,
// cache invalidation and the notification event. Failures are logged and
// never surface to the caller.
func (s *EnrollmentService) afterTransition(ctx context.Context, rel *models.GigAgent, eventType models.EventType) {
	if err := s.sync.SyncLinks(ctx, rel); err != nil {
		log.Printf("Failed to sync relationship links for %s: %v", rel.ID.Hex(), err)
	}
	s.sync.InvalidateViews(ctx, rel)

	if err := s.publisher.PublishGigAgentEvent(event.NewGigAgentEvent(eventType, rel)); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
		return
	}

	rel.NotifiedAt = time.Now().Unix()
	if _, err := s.relRepo.Update(ctx, rel.ID, rel); err != nil {
		log.Printf("Failed to record notification timestamp for %s: %v", rel.ID.Hex(), err)
	}
}

// transitionError distinguishes a lost guarded update (the record moved
// concurrently) from a storage failure.
func (s *EnrollmentService) transitionError(ctx context.Context, id bson.ObjectID, action lifecycle.Action, err error) error {
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to apply %s: %w", action, err)
	}
	current, findErr := s.relRepo.FindByID(ctx, id)
	if findErr != nil {
		return fmt.Errorf("%w: relationship %s", models.ErrNotFound, id.Hex())
	}
	return models.NewStateError(current.EnrollmentStatus, string(action))
}

func (s *EnrollmentService) getRelationship(ctx context.Context, relationshipID string) (*models.GigAgent, error) {
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
	return rel, nil
}

func (s *EnrollmentService) findPair(ctx context.Context, agentID, gigID bson.ObjectID) (*models.GigAgent, error) {
	existing, err := s.relRepo.FindByPair(ctx, agentID, gigID)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to check existing relationship: %w", err)
	}
	return existing, nil
}

func (s *EnrollmentService) resolvePair(ctx context.Context, agentID, gigID string) (*models.AgentProfile, *models.GigProfile, error) {
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
