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

type GigRepository struct {
	collection *mongo.Collection
}

func NewGigRepository(db *mongo.Database) *GigRepository {
	return &GigRepository{
		collection: db.Collection("Gig"),
	}
}

func (r *GigRepository) New(ctx context.Context, gig *models.GigProfile) (*models.GigProfile, error) {
	if gig.ID.IsZero() {
		gig.ID = bson.NewObjectID()
	}

	currentTime := time.Now().Unix()
	if gig.Metadata.CreatedAt == 0 {
		gig.Metadata.CreatedAt = currentTime
	}
	gig.Metadata.UpdatedAt = currentTime

	_, err := r.collection.InsertOne(ctx, gig)
	if err != nil {
		return nil, fmt.Errorf("failed to insert gig: %w", err)
	}
	return gig, nil
}

func (r *GigRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.GigProfile, error) {
	var gig models.GigProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&gig)
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

func (r *GigRepository) Update(ctx context.Context, id bson.ObjectID, gig *models.GigProfile) (*models.GigProfile, error) {
	gig.Metadata.UpdatedAt = time.Now().Unix()

	filter := bson.M{"_id": id}
	update := bson.M{"$set": gig}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.GigProfile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update gig: %w", err)
	}
	return &updated, nil
}

// AddEnrolledAgent appends the agent to the gig's enrolled set. $addToSet
// keeps it idempotent under retry.
func (r *GigRepository) AddEnrolledAgent(ctx context.Context, gigID, agentID bson.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gigID},
		bson.M{
			"$addToSet": bson.M{"enrolledAgentIds": agentID},
			"$set":      bson.M{"metadata.updatedAt": time.Now().Unix()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add enrolled agent: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpsertAgentLink mirrors AgentRepository.UpsertGigLink for the gig-side
// embedded view.
func (r *GigRepository) UpsertAgentLink(ctx context.Context, gigID bson.ObjectID, link models.AgentLink) error {
	now := time.Now().Unix()
	link.UpdatedAt = now
	if link.CreatedAt == 0 {
		link.CreatedAt = now
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gigID, "agents.agentId": link.AgentID},
		bson.M{"$set": bson.M{
			"agents.$.status":    link.Status,
			"agents.$.updatedAt": link.UpdatedAt,
			"metadata.updatedAt": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update agent link: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": gigID, "agents.agentId": bson.M{"$ne": link.AgentID}},
		bson.M{
			"$push": bson.M{"agents": link},
			"$set":  bson.M{"metadata.updatedAt": now},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append agent link: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *GigRepository) RemoveAgentLink(ctx context.Context, gigID, agentID bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gigID},
		bson.M{
			"$pull": bson.M{"agents": bson.M{"agentId": agentID}},
			"$set":  bson.M{"metadata.updatedAt": time.Now().Unix()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove agent link: %w", err)
	}
	return nil
}

// ReplaceAgentLinks overwrites the embedded view with entries rebuilt
// from the canonical relationship collection.
func (r *GigRepository) ReplaceAgentLinks(ctx context.Context, gigID bson.ObjectID, links []models.AgentLink) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gigID},
		bson.M{"$set": bson.M{
			"agents":             links,
			"metadata.updatedAt": time.Now().Unix(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to replace agent links: %w", err)
	}
	return nil
}

func (r *GigRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "companyId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "agents.agentId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "metadata.createdAt", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create gig indexes: %w", err)
	}
	return nil
}
