package service

import (
	"context"
	"fmt"
	"time"

	"matching-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// In-memory store implementations mirroring the repository semantics the
// services rely on: mongo.ErrNoDocuments on misses and on lost guarded
// updates, ErrConflict on a duplicate pair insert.

type fakeAgentStore struct {
	agents map[bson.ObjectID]*models.AgentProfile
}

func newFakeAgentStore(agents ...*models.AgentProfile) *fakeAgentStore {
	s := &fakeAgentStore{agents: make(map[bson.ObjectID]*models.AgentProfile)}
	for _, a := range agents {
		s.agents[a.ID] = a
	}
	return s
}

func (s *fakeAgentStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.AgentProfile, error) {
	a, ok := s.agents[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return a, nil
}

func (s *fakeAgentStore) UpsertGigLink(ctx context.Context, agentID bson.ObjectID, link models.GigLink) error {
	a, ok := s.agents[agentID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i, existing := range a.Gigs {
		if existing.GigID == link.GigID {
			link.UpdatedAt = time.Now().Unix()
			a.Gigs[i] = link
			return nil
		}
	}
	a.Gigs = append(a.Gigs, link)
	return nil
}

func (s *fakeAgentStore) RemoveGigLink(ctx context.Context, agentID, gigID bson.ObjectID) error {
	a, ok := s.agents[agentID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	kept := a.Gigs[:0]
	for _, link := range a.Gigs {
		if link.GigID != gigID {
			kept = append(kept, link)
		}
	}
	a.Gigs = kept
	return nil
}

func (s *fakeAgentStore) ReplaceGigLinks(ctx context.Context, agentID bson.ObjectID, links []models.GigLink) error {
	a, ok := s.agents[agentID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.Gigs = links
	return nil
}

type fakeGigStore struct {
	gigs map[bson.ObjectID]*models.GigProfile
}

func newFakeGigStore(gigs ...*models.GigProfile) *fakeGigStore {
	s := &fakeGigStore{gigs: make(map[bson.ObjectID]*models.GigProfile)}
	for _, g := range gigs {
		s.gigs[g.ID] = g
	}
	return s
}

func (s *fakeGigStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.GigProfile, error) {
	g, ok := s.gigs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return g, nil
}

func (s *fakeGigStore) AddEnrolledAgent(ctx context.Context, gigID, agentID bson.ObjectID) error {
	g, ok := s.gigs[gigID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for _, id := range g.EnrolledAgentIDs {
		if id == agentID {
			return nil
		}
	}
	g.EnrolledAgentIDs = append(g.EnrolledAgentIDs, agentID)
	return nil
}

func (s *fakeGigStore) UpsertAgentLink(ctx context.Context, gigID bson.ObjectID, link models.AgentLink) error {
	g, ok := s.gigs[gigID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i, existing := range g.Agents {
		if existing.AgentID == link.AgentID {
			link.UpdatedAt = time.Now().Unix()
			g.Agents[i] = link
			return nil
		}
	}
	g.Agents = append(g.Agents, link)
	return nil
}

func (s *fakeGigStore) RemoveAgentLink(ctx context.Context, gigID, agentID bson.ObjectID) error {
	g, ok := s.gigs[gigID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	kept := g.Agents[:0]
	for _, link := range g.Agents {
		if link.AgentID != agentID {
			kept = append(kept, link)
		}
	}
	g.Agents = kept
	return nil
}

func (s *fakeGigStore) ReplaceAgentLinks(ctx context.Context, gigID bson.ObjectID, links []models.AgentLink) error {
	g, ok := s.gigs[gigID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	g.Agents = links
	return nil
}

type fakeRelationshipStore struct {
	records map[bson.ObjectID]*models.GigAgent
}

func newFakeRelationshipStore() *fakeRelationshipStore {
	return &fakeRelationshipStore{records: make(map[bson.ObjectID]*models.GigAgent)}
}

func (s *fakeRelationshipStore) New(ctx context.Context, rel *models.GigAgent) (*models.GigAgent, error) {
	for _, existing := range s.records {
		if existing.AgentID == rel.AgentID && existing.GigID == rel.GigID {
			return nil, fmt.Errorf("%w: agent %s and gig %s", models.ErrConflict, rel.AgentID.Hex(), rel.GigID.Hex())
		}
	}
	if rel.ID.IsZero() {
		rel.ID = bson.NewObjectID()
	}
	now := time.Now().Unix()
	if rel.Metadata.CreatedAt == 0 {
		rel.Metadata.CreatedAt = now
	}
	rel.Metadata.UpdatedAt = now

	stored := *rel
	s.records[rel.ID] = &stored
	return rel, nil
}

func (s *fakeRelationshipStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.GigAgent, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *rec
	return &out, nil
}

func (s *fakeRelationshipStore) FindByPair(ctx context.Context, agentID, gigID bson.ObjectID) (*models.GigAgent, error) {
	for _, rec := range s.records {
		if rec.AgentID == agentID && rec.GigID == gigID {
			out := *rec
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeRelationshipStore) Update(ctx context.Context, id bson.ObjectID, rel *models.GigAgent) (*models.GigAgent, error) {
	if _, ok := s.records[id]; !ok {
		return nil, mongo.ErrNoDocuments
	}
	stored := *rel
	stored.ID = id
	stored.Metadata.UpdatedAt = time.Now().Unix()
	s.records[id] = &stored
	out := stored
	return &out, nil
}

func (s *fakeRelationshipStore) UpdateEnrollment(ctx context.Context, id bson.ObjectID, from, to models.EnrollmentStatus, set bson.M) (*models.GigAgent, error) {
	rec, ok := s.records[id]
	if !ok || rec.EnrollmentStatus != from {
		return nil, mongo.ErrNoDocuments
	}
	rec.EnrollmentStatus = to
	rec.Metadata.UpdatedAt = time.Now().Unix()
	for key, value := range set {
		switch key {
		case "enrolledAt":
			rec.EnrolledAt = value.(int64)
		case "closedAt":
			rec.ClosedAt = value.(int64)
		case "requestedAt":
			rec.RequestedAt = value.(int64)
		case "notes":
			rec.Notes = value.(string)
		}
	}
	out := *rec
	return &out, nil
}

func (s *fakeRelationshipStore) Delete(ctx context.Context, id bson.ObjectID) error {
	if _, ok := s.records[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.records, id)
	return nil
}

func (s *fakeRelationshipStore) FindByAgent(ctx context.Context, agentID bson.ObjectID) ([]*models.GigAgent, error) {
	var out []*models.GigAgent
	for _, rec := range s.records {
		if rec.AgentID == agentID {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *fakeRelationshipStore) FindByGig(ctx context.Context, gigID bson.ObjectID) ([]*models.GigAgent, error) {
	var out []*models.GigAgent
	for _, rec := range s.records {
		if rec.GigID == gigID {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *fakeRelationshipStore) FindExpiredInvitations(ctx context.Context, now int64) ([]*models.GigAgent, error) {
	var out []*models.GigAgent
	for _, rec := range s.records {
		if rec.EnrollmentStatus == models.EnrollmentStatusInvited && rec.ExpiresAt > 0 && rec.ExpiresAt < now {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}
