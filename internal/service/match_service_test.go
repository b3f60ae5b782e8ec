package service

import (
	"context"
	"errors"
	"testing"

	"matching-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestComputeMatchByIDs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, err := env.match.ComputeMatchByIDs(ctx, env.agent.ID.Hex(), env.gig.ID.Hex(), nil)
	if err != nil {
		t.Fatalf("ComputeMatchByIDs failed: %v", err)
	}
	if result.Score <= 0 || result.Score > 1 {
		t.Errorf("Score = %v, expected within (0, 1]", result.Score)
	}
	if result.Details.Language.Status != models.MatchStatusPerfect {
		t.Errorf("language status = %q, expected perfect for the fixture", result.Details.Language.Status)
	}

	// No relationship record is created by a pure computation.
	if len(env.relStore.records) != 0 {
		t.Errorf("ComputeMatchByIDs must not persist anything, got %d records", len(env.relStore.records))
	}
}

func TestComputeMatchByIDsCustomWeights(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	weights := models.Weights{Version: "test", Language: 1.0}
	result, err := env.match.ComputeMatchByIDs(ctx, env.agent.ID.Hex(), env.gig.ID.Hex(), &weights)
	if err != nil {
		t.Fatalf("ComputeMatchByIDs failed: %v", err)
	}
	// The fixture language dimension is a full match, so an all-language
	// vector yields exactly 1.0.
	if result.Score != 1.0 {
		t.Errorf("Score = %v, expected 1.0 under an all-language vector", result.Score)
	}

	bad := models.Weights{Version: "test", Language: 0.6}
	if _, err := env.match.ComputeMatchByIDs(ctx, env.agent.ID.Hex(), env.gig.ID.Hex(), &bad); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected validation error for an unbalanced vector, got %v", err)
	}
}

func TestComputeMatchByIDsErrors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.match.ComputeMatchByIDs(ctx, "bad-id", env.gig.ID.Hex(), nil); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := env.match.ComputeMatchByIDs(ctx, bson.NewObjectID().Hex(), env.gig.ID.Hex(), nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := env.match.ComputeMatchByIDs(ctx, env.agent.ID.Hex(), bson.NewObjectID().Hex(), nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected not found for unknown gig, got %v", err)
	}
}

func TestGetProfiles(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	agent, err := env.match.GetAgentProfile(ctx, env.agent.ID.Hex())
	if err != nil {
		t.Fatalf("GetAgentProfile failed: %v", err)
	}
	if agent.ID != env.agent.ID {
		t.Errorf("agent ID = %s, expected %s", agent.ID.Hex(), env.agent.ID.Hex())
	}

	gig, err := env.match.GetGigProfile(ctx, env.gig.ID.Hex())
	if err != nil {
		t.Fatalf("GetGigProfile failed: %v", err)
	}
	if gig.ID != env.gig.ID {
		t.Errorf("gig ID = %s, expected %s", gig.ID.Hex(), env.gig.ID.Hex())
	}

	if _, err := env.match.GetAgentProfile(ctx, "bad"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := env.match.GetGigProfile(ctx, bson.NewObjectID().Hex()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRescoreRelationship(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	rel, err := env.enrollment.InviteAgent(ctx, env.gig.ID.Hex(), env.agent.ID.Hex(), "")
	if err != nil {
		t.Fatalf("InviteAgent failed: %v", err)
	}
	originalScore := rel.MatchScore

	// Degrade the agent profile and rescore: the stored result must drop.
	env.agent.Languages = nil
	env.agent.TechnicalSkills = nil

	rescored, err := env.match.RescoreRelationship(ctx, rel.ID.Hex())
	if err != nil {
		t.Fatalf("RescoreRelationship failed: %v", err)
	}
	if rescored.MatchScore >= originalScore {
		t.Errorf("MatchScore = %v, expected below original %v", rescored.MatchScore, originalScore)
	}
	if rescored.EnrollmentStatus != models.EnrollmentStatusInvited {
		t.Errorf("rescore must not touch the lifecycle, status = %q", rescored.EnrollmentStatus)
	}
	if !env.hasPublished(models.EventTypeRelationshipRescored) {
		t.Errorf("rescored event not published, got %v", env.publishedTypes())
	}

	stored, err := env.relStore.FindByID(ctx, rel.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.MatchScore != rescored.MatchScore {
		t.Errorf("stored score %v differs from returned %v", stored.MatchScore, rescored.MatchScore)
	}
}

func TestRescoreRelationshipErrors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.match.RescoreRelationship(ctx, "nope"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := env.match.RescoreRelationship(ctx, bson.NewObjectID().Hex()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRescoreAgentSweepsAllRelationships(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	secondGig := &models.GigProfile{
		ID:        bson.NewObjectID(),
		CompanyID: "company-2",
		Title:     "Museum Guide",
		RequiredLanguages: []models.RequiredLanguage{
			{Language: env.gig.RequiredLanguages[0].Language, MinLevel: "b1"},
		},
	}
	env.gigStore.gigs[secondGig.ID] = secondGig

	if _, err := env.enrollment.InviteAgent(ctx, env.gig.ID.Hex(), env.agent.ID.Hex(), ""); err != nil {
		t.Fatalf("InviteAgent failed: %v", err)
	}
	if _, err := env.enrollment.RequestEnrollment(ctx, env.agent.ID.Hex(), secondGig.ID.Hex(), ""); err != nil {
		t.Fatalf("RequestEnrollment failed: %v", err)
	}

	env.agent.Languages = nil
	env.agent.TechnicalSkills = nil

	if err := env.match.RescoreAgent(ctx, env.agent.ID.Hex()); err != nil {
		t.Fatalf("RescoreAgent failed: %v", err)
	}

	rels, _ := env.relStore.FindByAgent(ctx, env.agent.ID)
	if len(rels) != 2 {
		t.Fatalf("expected 2 relationships, got %d", len(rels))
	}
	for _, rel := range rels {
		if rel.MatchDetails.Language.Status != models.MatchStatusNone {
			t.Errorf("relationship %s language status = %q, expected no match after profile wipe",
				rel.ID.Hex(), rel.MatchDetails.Language.Status)
		}
	}
}
