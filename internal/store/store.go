package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hvacops/analytics-api/internal/models"
)

// ErrUnavailable means no document store was configured. Reads degrade
// to static fallback payloads at the HTTP layer; writes surface it as a
// 503.
var ErrUnavailable = errors.New("document store not available")

// Store is the seam between the services and the document database.
// The Mongo implementation is the real one; Memory backs the tests.
// A nil Store means the database is not configured.
type Store interface {
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)

	CountMetrics(ctx context.Context) (int64, error)
	InsertMetric(ctx context.Context, m models.CampaignMetric) (string, error)
	InsertMetrics(ctx context.Context, ms []models.CampaignMetric) error
	// Metrics returns all metric records, filtered by channel when
	// channel is non-empty.
	Metrics(ctx context.Context, channel string) ([]models.CampaignMetric, error)

	CountContacts(ctx context.Context) (int64, error)
	InsertContact(ctx context.Context, c models.Contact) (string, error)
	// Contacts returns contacts in storage order, filtered by stage
	// when stage is non-empty.
	Contacts(ctx context.Context, stage string) ([]models.Contact, error)
	// ContactByID returns (nil, nil) when no contact matches.
	ContactByID(ctx context.Context, id bson.ObjectID) (*models.Contact, error)
	// UpdateContactStage sets stage and updated_at, returning the
	// matched count.
	UpdateContactStage(ctx context.Context, id bson.ObjectID, stage string, at time.Time) (int64, error)

	InsertMessages(ctx context.Context, msgs []models.ConversationMessage) error
	MessagesByContact(ctx context.Context, id bson.ObjectID) ([]models.ConversationMessage, error)
}
