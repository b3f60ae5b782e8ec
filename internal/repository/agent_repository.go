package repository

import (
	"context"
	"fmt"
	"time"

	"matching-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type AgentRepository struct {
	collection *mongo.Collection
}

func NewAgentRepository(db *mongo.Database) *AgentRepository {
	return &AgentRepository{
		collection: db.Collection("Agent"),
	}
}

func (r *AgentRepository) New(ctx context.Context, agent *models.AgentProfile) (*models.AgentProfile, error) {
	if agent.ID.IsZero() {
		agent.ID = bson.NewObjectID()
	}

	currentTime := time.Now().Unix()
	if agent.Metadata.CreatedAt == 0 {
		agent.Metadata.CreatedAt = currentTime
	}
	agent.Metadata.UpdatedAt = currentTime

	_, err := r.collection.InsertOne(ctx, agent)
	if err != nil {
		return nil, fmt.Errorf("failed to insert agent: %w", err)
	}
	return agent, nil
}

func (r *AgentRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.AgentProfile, error) {
	var agent models.AgentProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&agent)
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *AgentRepository) FindByUserID(ctx context.Context, userID string) (*models.AgentProfile, error) {
	var agent models.AgentProfile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&agent)
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *AgentRepository) Update(ctx context.Context, id bson.ObjectID, agent *models.AgentProfile) (*models.AgentProfile, error) {
	agent.Metadata.UpdatedAt = time.Now().Unix()

	filter := bson.M{"_id": id}
	update := bson.M{"$set": agent}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.AgentProfile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}
	return &updated, nil
}

// UpsertGigLink updates the embedded gig entry in place when one exists
// for the gig, otherwise appends it. Two steps keep it idempotent under
// retry: a positional update first, then a push only when nothing matched.
func (r *AgentRepository) UpsertGigLink(ctx context.Context, agentID bson.ObjectID, link models.GigLink) error {
	now := time.Now().Unix()
	link.UpdatedAt = now
	if link.CreatedAt == 0 {
		link.CreatedAt = now
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": agentID, "gigs.gigId": link.GigID},
		bson.M{"$set": bson.M{
			"gigs.$.status":      link.Status,
			"gigs.$.updatedAt":   link.UpdatedAt,
			"metadata.updatedAt": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update gig link: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": agentID, "gigs.gigId": bson.M{"$ne": link.GigID}},
		bson.M{
			"$push": bson.M{"gigs": link},
			"$set":  bson.M{"metadata.updatedAt": now},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append gig link: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *AgentRepository) RemoveGigLink(ctx context.Context, agentID, gigID bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": agentID},
		bson.M{
			"$pull": bson.M{"gigs": bson.M{"gigId": gigID}},
			"$set":  bson.M{"metadata.updatedAt": time.Now().Unix()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove gig link: %w", err)
	}
	return nil
}

// ReplaceGigLinks overwrites the embedded view with entries rebuilt from
// the canonical relationship collection.
func (r *AgentRepository) ReplaceGigLinks(ctx context.Context, agentID bson.ObjectID, links []models.GigLink) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": agentID},
		bson.M{"$set": bson.M{
			"gigs":               links,
			"metadata.updatedAt": time.Now().Unix(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to replace gig links: %w", err)
	}
	return nil
}

func (r *AgentRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "gigs.gigId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "metadata.createdAt", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create agent indexes: %w", err)
	}
	return nil
}
