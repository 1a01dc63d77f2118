package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/hvacops/analytics-api/internal/models"
)

// Mongo wraps one shared client for the whole process. The driver
// serializes concurrent access internally; no client-side locking.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	if dbName == "" {
		dbName = "hvac"
	}
	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Collections(ctx context.Context) ([]string, error) {
	return m.db.ListCollectionNames(ctx, bson.M{})
}

// Generic adapter core. The typed methods below are thin wrappers so
// every collection goes through the same insert/find/update paths.

func (m *Mongo) insert(ctx context.Context, coll string, doc any) (string, error) {
	res, err := m.db.Collection(coll).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", coll, err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		return id.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

func (m *Mongo) insertMany(ctx context.Context, coll string, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := m.db.Collection(coll).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %s: %w", coll, err)
	}
	return nil
}

func (m *Mongo) find(ctx context.Context, coll string, filter bson.M, results any) error {
	cur, err := m.db.Collection(coll).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find %s: %w", coll, err)
	}
	if err := cur.All(ctx, results); err != nil {
		return fmt.Errorf("decode %s: %w", coll, err)
	}
	return nil
}

func (m *Mongo) updateOne(ctx context.Context, coll string, filter, patch bson.M) (int64, error) {
	res, err := m.db.Collection(coll).UpdateOne(ctx, filter, patch)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", coll, err)
	}
	return res.MatchedCount, nil
}

func (m *Mongo) count(ctx context.Context, coll string) (int64, error) {
	n, err := m.db.Collection(coll).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll, err)
	}
	return n, nil
}

func (m *Mongo) CountMetrics(ctx context.Context) (int64, error) {
	return m.count(ctx, models.CollMetrics)
}

func (m *Mongo) InsertMetric(ctx context.Context, rec models.CampaignMetric) (string, error) {
	return m.insert(ctx, models.CollMetrics, rec)
}

func (m *Mongo) InsertMetrics(ctx context.Context, ms []models.CampaignMetric) error {
	docs := make([]any, len(ms))
	for i := range ms {
		docs[i] = ms[i]
	}
	return m.insertMany(ctx, models.CollMetrics, docs)
}

func (m *Mongo) Metrics(ctx context.Context, channel string) ([]models.CampaignMetric, error) {
	filter := bson.M{}
	if channel != "" {
		filter["channel"] = channel
	}
	var out []models.CampaignMetric
	if err := m.find(ctx, models.CollMetrics, filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) CountContacts(ctx context.Context) (int64, error) {
	return m.count(ctx, models.CollContacts)
}

func (m *Mongo) InsertContact(ctx context.Context, c models.Contact) (string, error) {
	return m.insert(ctx, models.CollContacts, c)
}

func (m *Mongo) Contacts(ctx context.Context, stage string) ([]models.Contact, error) {
	filter := bson.M{}
	if stage != "" {
		filter["stage"] = stage
	}
	var out []models.Contact
	if err := m.find(ctx, models.CollContacts, filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) ContactByID(ctx context.Context, id bson.ObjectID) (*models.Contact, error) {
	var c models.Contact
	err := m.db.Collection(models.CollContacts).FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", models.CollContacts, err)
	}
	return &c, nil
}

func (m *Mongo) UpdateContactStage(ctx context.Context, id bson.ObjectID, stage string, at time.Time) (int64, error) {
	patch := bson.M{"$set": bson.M{"stage": stage, "updated_at": at}}
	return m.updateOne(ctx, models.CollContacts, bson.M{"_id": id}, patch)
}

func (m *Mongo) InsertMessages(ctx context.Context, msgs []models.ConversationMessage) error {
	docs := make([]any, len(msgs))
	for i := range msgs {
		docs[i] = msgs[i]
	}
	return m.insertMany(ctx, models.CollMessages, docs)
}

func (m *Mongo) MessagesByContact(ctx context.Context, id bson.ObjectID) ([]models.ConversationMessage, error) {
	var out []models.ConversationMessage
	if err := m.find(ctx, models.CollMessages, bson.M{"contact_id": id}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
