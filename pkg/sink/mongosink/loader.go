package mongosink

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/topo2graph/pkg/cache"
	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/graph"
	"github.com/matzehuels/topo2graph/pkg/observability"
)

// SinkName identifies this sink in hooks and logs.
const SinkName = "mongo"

// Defaults for [Config].
const (
	DefaultDatabase   = "topo2graph"
	DefaultCollection = "elements"
)

// Config holds connection settings.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Loader inserts element documents into one collection.
type Loader struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// Open connects to MongoDB, pings the primary, and ensures the batch index
// exists.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Loader, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeUsage, "mongo: uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if logger == nil {
		logger = log.Default()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUsage, err, "mongo: connect")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			logger.Debug("mongo not reachable", "err", err)
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "mongo: ping")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "batch", Value: 1}, {Key: "seq", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "mongo: create index")
	}
	return &Loader{client: client, coll: coll, logger: logger}, nil
}

// Load inserts one document per element, in order.
func (l *Loader) Load(ctx context.Context, elems []graph.Element, batch, source string) (int, error) {
	hooks := observability.Sink()
	hooks.OnLoadStart(ctx, SinkName, len(elems))
	start := time.Now()

	docs := Documents(elems, batch, source)
	written := 0
	var err error
	if len(docs) > 0 {
		var res *mongo.InsertManyResult
		res, err = l.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
		if res != nil {
			written = len(res.InsertedIDs)
		}
	}
	hooks.OnLoadComplete(ctx, SinkName, written, time.Since(start), err)
	if err != nil {
		return written, errors.Wrap(errors.ErrCodeNetwork, err, "mongo: insert batch %s", batch)
	}
	l.logger.Debug("mongo load complete", "batch", batch, "source", source, "documents", written)
	return written, nil
}

// DeleteBatch removes every document of a batch so a rerun with the same
// batch ID replaces it instead of duplicating it.
func (l *Loader) DeleteBatch(ctx context.Context, batch string) (int64, error) {
	res, err := l.coll.DeleteMany(ctx, BatchFilter(batch))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeNetwork, err, "mongo: delete batch %s", batch)
	}
	return res.DeletedCount, nil
}

// Close disconnects the client.
func (l *Loader) Close(ctx context.Context) error {
	return l.client.Disconnect(ctx)
}
