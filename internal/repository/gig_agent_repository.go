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

// GigAgentRepository persists the canonical relationship records. The
// unique compound index on (agentId, gigId) is the only guard two racing
// create requests rely on: the loser surfaces ErrConflict.
type GigAgentRepository struct {
	collection *mongo.Collection
}

func NewGigAgentRepository(db *mongo.Database) *GigAgentRepository {
	return &GigAgentRepository{
		collection: db.Collection("GigAgent"),
	}
}

func (r *GigAgentRepository) New(ctx context.Context, rel *models.GigAgent) (*models.GigAgent, error) {
	if rel.ID.IsZero() {
		rel.ID = bson.NewObjectID()
	}

	currentTime := time.Now().Unix()
	if rel.Metadata.CreatedAt == 0 {
		rel.Metadata.CreatedAt = currentTime
	}
	rel.Metadata.UpdatedAt = currentTime

	_, err := r.collection.InsertOne(ctx, rel)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: agent %s and gig %s", models.ErrConflict, rel.AgentID.Hex(), rel.GigID.Hex())
		}
		return nil, fmt.Errorf("failed to insert relationship: %w", err)
	}
	return rel, nil
}

func (r *GigAgentRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.GigAgent, error) {
	var rel models.GigAgent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rel)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *GigAgentRepository) FindByPair(ctx context.Context, agentID, gigID bson.ObjectID) (*models.GigAgent, error) {
	var rel models.GigAgent
	err := r.collection.FindOne(ctx, bson.M{"agentId": agentID, "gigId": gigID}).Decode(&rel)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *GigAgentRepository) Update(ctx context.Context, id bson.ObjectID, rel *models.GigAgent) (*models.GigAgent, error) {
	rel.Metadata.UpdatedAt = time.Now().Unix()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.GigAgent
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": rel}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update relationship: %w", err)
	}
	return &updated, nil
}

// UpdateEnrollment writes a status change plus its timestamps in one
// atomic single-document update, guarded on the expected current status
// so a concurrent transition loses cleanly.
func (r *GigAgentRepository) UpdateEnrollment(ctx context.Context, id bson.ObjectID, from, to models.EnrollmentStatus, set bson.M) (*models.GigAgent, error) {
	if set == nil {
		set = bson.M{}
	}
	set["enrollmentStatus"] = to
	set["metadata.updatedAt"] = time.Now().Unix()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.GigAgent
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "enrollmentStatus": from},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *GigAgentRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *GigAgentRepository) FindByAgent(ctx context.Context, agentID bson.ObjectID) ([]*models.GigAgent, error) {
	return r.findAll(ctx, bson.M{"agentId": agentID})
}

func (r *GigAgentRepository) FindByGig(ctx context.Context, gigID bson.ObjectID) ([]*models.GigAgent, error) {
	return r.findAll(ctx, bson.M{"gigId": gigID})
}

// FindExpiredInvitations returns invited records whose expiry timestamp
// has passed.
func (r *GigAgentRepository) FindExpiredInvitations(ctx context.Context, now int64) ([]*models.GigAgent, error) {
	return r.findAll(ctx, bson.M{
		"enrollmentStatus": models.EnrollmentStatusInvited,
		"expiresAt":        bson.M{"$gt": 0, "$lt": now},
	})
}

func (r *GigAgentRepository) findAll(ctx context.Context, filter bson.M) ([]*models.GigAgent, error) {
	opts := options.Find()
	opts.SetSort(bson.M{"metadata.createdAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find relationships: %w", err)
	}
	defer cursor.Close(ctx)

	var rels []*models.GigAgent
	if err = cursor.All(ctx, &rels); err != nil {
		return nil, fmt.Errorf("failed to decode relationships: %w", err)
	}
	return rels, nil
}

func (r *GigAgentRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "agentId", Value: 1}, {Key: "gigId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "gigId", Value: 1}, {Key: "enrollmentStatus", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "enrollmentStatus", Value: 1}, {Key: "expiresAt", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create relationship indexes: %w", err)
	}
	return nil
}
