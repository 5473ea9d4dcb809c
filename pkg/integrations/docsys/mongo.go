package docsys

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/moodboard/pkg/errors"
	"github.com/matzehuels/moodboard/pkg/interchange"
)

// MongoConfig configures a [MongoSource].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string

	// ConnectTimeout bounds the initial connect and ping. Zero means 10s.
	ConnectTimeout time.Duration
}

// MongoSource reads documents from a MongoDB collection. Documents are
// matched on their "id" field, not on the collection's _id.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSource connects to MongoDB and verifies the connection.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	if cfg.URI == "" || cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo source needs uri, database and collection")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	return &MongoSource{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoSource) Get(ctx context.Context, id string) (*interchange.DocumentSchema, error) {
	if err := errors.ValidateNodeID(id); err != nil {
		return nil, err
	}
	var doc interchange.DocumentSchema
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "document %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find document %q: %w", id, err)
	}
	return &doc, nil
}

func (s *MongoSource) List(ctx context.Context) ([]interchange.DocumentSchema, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var docs []interchange.DocumentSchema
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

// Put upserts doc by id.
func (s *MongoSource) Put(ctx context.Context, doc interchange.DocumentSchema) error {
	if err := errors.ValidateNodeID(doc.ID); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("store document %q: %w", doc.ID, err)
	}
	return nil
}

func (s *MongoSource) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Source = (*MongoSource)(nil)
