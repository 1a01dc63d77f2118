// Package pipeline implements the CRM side: contacts moving through
// the sales stages and their conversation transcripts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hvacops/analytics-api/internal/models"
	"github.com/hvacops/analytics-api/internal/store"
)

var (
	ErrNotFound  = errors.New("contact not found")
	ErrInvalidID = errors.New("malformed contact id")
)

// ParseID validates a transport-level contact identifier. Identifiers
// are store-generated ObjectIDs in hex form.
func ParseID(s string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

type Service struct {
	st  store.Store
	now func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{st: st, now: time.Now}
}

// CreateContact stamps timestamps and persists. Enum validity of
// channel and stage is the API boundary's job, not enforced here.
func (s *Service) CreateContact(ctx context.Context, c models.Contact) (string, error) {
	if s.st == nil {
		return "", store.ErrUnavailable
	}
	now := s.now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.st.InsertContact(ctx, c)
}

// ListContacts returns contacts in storage order, filtered by stage
// when given. No explicit sort; callers get whatever order the store
// yields.
func (s *Service) ListContacts(ctx context.Context, stage string) ([]models.Contact, error) {
	if s.st == nil {
		return nil, store.ErrUnavailable
	}
	return s.st.Contacts(ctx, stage)
}

func (s *Service) UpdateStage(ctx context.Context, rawID, stage string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}
	if s.st == nil {
		return store.ErrUnavailable
	}
	matched, err := s.st.UpdateContactStage(ctx, id, stage, s.now().UTC())
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// GetConversation returns the contact plus its transcript sorted
// ascending by message timestamp, regardless of insertion order.
func (s *Service) GetConversation(ctx context.Context, rawID string) (*models.Conversation, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if s.st == nil {
		return nil, store.ErrUnavailable
	}
	contact, err := s.st.ContactByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}
	msgs, err := s.st.MessagesByContact(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
	if msgs == nil {
		msgs = []models.ConversationMessage{}
	}
	return &models.Conversation{Contact: *contact, Messages: msgs}, nil
}
