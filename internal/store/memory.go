package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hvacops/analytics-api/internal/models"
)

// Memory is a mutex-guarded in-process Store. It backs the service and
// handler tests so nothing in the suite needs a running Mongo.
type Memory struct {
	mu       sync.RWMutex
	metrics  []models.CampaignMetric
	contacts []models.Contact
	messages []models.ConversationMessage
}

func NewMemory() *Memory { return &Memory{} }

func (s *Memory) Ping(ctx context.Context) error { return nil }

func (s *Memory) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	if len(s.metrics) > 0 {
		out = append(out, models.CollMetrics)
	}
	if len(s.contacts) > 0 {
		out = append(out, models.CollContacts)
	}
	if len(s.messages) > 0 {
		out = append(out, models.CollMessages)
	}
	return out, nil
}

func (s *Memory) CountMetrics(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.metrics)), nil
}

func (s *Memory) InsertMetric(ctx context.Context, rec models.CampaignMetric) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = bson.NewObjectID()
	s.metrics = append(s.metrics, rec)
	return rec.ID.Hex(), nil
}

func (s *Memory) InsertMetrics(ctx context.Context, ms []models.CampaignMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range ms {
		rec.ID = bson.NewObjectID()
		s.metrics = append(s.metrics, rec)
	}
	return nil
}

func (s *Memory) Metrics(ctx context.Context, channel string) ([]models.CampaignMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CampaignMetric, 0, len(s.metrics))
	for _, rec := range s.metrics {
		if channel == "" || rec.Channel == channel {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Memory) CountContacts(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.contacts)), nil
}

func (s *Memory) InsertContact(ctx context.Context, c models.Contact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	s.contacts = append(s.contacts, c)
	return c.ID.Hex(), nil
}

func (s *Memory) Contacts(ctx context.Context, stage string) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if stage == "" || c.Stage == stage {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Memory) ContactByID(ctx context.Context, id bson.ObjectID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Memory) UpdateContactStage(ctx context.Context, id bson.ObjectID, stage string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts[i].Stage = stage
			s.contacts[i].UpdatedAt = at
			return 1, nil
		}
	}
	return 0, nil
}

func (s *Memory) InsertMessages(ctx context.Context, msgs []models.ConversationMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range msgs {
		if msg.ID.IsZero() {
			msg.ID = bson.NewObjectID()
		}
		s.messages = append(s.messages, msg)
	}
	return nil
}

func (s *Memory) MessagesByContact(ctx context.Context, id bson.ObjectID) ([]models.ConversationMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ConversationMessage
	for _, msg := range s.messages {
		if msg.ContactID == id {
			out = append(out, msg)
		}
	}
	return out, nil
}
