package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/hawkeye/pkg/pipeline"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "hawkeye"
	DefaultMongoCollection = "scan_results"
)

// MongoSink stores every result of a run as one document. Documents carry
// the report fields plus run_id, organization and scanned_at.
type MongoSink struct {
	client       *mongo.Client
	coll         *mongo.Collection
	Organization string
}

// NewMongoSink connects to uri and verifies the server answers a ping.
// Empty database or collection names fall back to the defaults.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoSink{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *MongoSink) Write(ctx context.Context, run *pipeline.Run) error {
	if len(run.Results) == 0 {
		return nil
	}
	docs, err := documents(run, s.Organization)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert results: %w", err)
	}
	return nil
}

// Close disconnects from the server.
func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// documents converts results to BSON through their JSON form, so the
// stored fields match the file report exactly.
func documents(run *pipeline.Run, org string) ([]any, error) {
	docs := make([]any, 0, len(run.Results))
	for _, res := range run.Results {
		data, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", res.Repo, err)
		}
		var doc bson.D
		if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
			return nil, fmt.Errorf("convert %s: %w", res.Repo, err)
		}
		meta := bson.D{
			{Key: "run_id", Value: run.ID},
			{Key: "organization", Value: org},
			{Key: "scanned_at", Value: run.Finished.UTC()},
		}
		docs = append(docs, append(meta, doc...))
	}
	return docs, nil
}
