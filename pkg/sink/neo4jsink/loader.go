package neo4jsink

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/topo2graph/pkg/cache"
	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/graph"
	"github.com/matzehuels/topo2graph/pkg/observability"
)

// SinkName identifies this sink in hooks and logs.
const SinkName = "neo4j"

// Config holds connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string // empty selects the server default
}

// Stats summarizes a load.
type Stats struct {
	Statements           int
	NodesCreated         int
	RelationshipsCreated int
	PropertiesSet        int
}

// Loader writes element arrays to Neo4j.
type Loader struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *log.Logger
}

// Open connects to Neo4j and verifies connectivity, retrying transient
// failures with backoff.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Loader, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeUsage, "neo4j: uri is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUsage, err, "neo4j: create driver")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := driver.VerifyConnectivity(ctx); err != nil {
			logger.Debug("neo4j not reachable", "uri", cfg.URI, "err", err)
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = driver.Close(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "neo4j: connect to %s", cfg.URI)
	}
	return &Loader{driver: driver, database: cfg.Database, logger: logger}, nil
}

// Load writes elems in a single transaction tagged with batch.
func (l *Loader) Load(ctx context.Context, elems []graph.Element, batch string) (Stats, error) {
	hooks := observability.Sink()
	hooks.OnLoadStart(ctx, SinkName, len(elems))
	start := time.Now()

	stmts := Plan(elems, batch)
	stats, err := l.run(ctx, stmts)
	hooks.OnLoadComplete(ctx, SinkName, len(elems), time.Since(start), err)
	if err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeNetwork, err, "neo4j: load batch %s", batch)
	}
	l.logger.Debug("neo4j load complete",
		"batch", batch,
		"statements", stats.Statements,
		"nodes_created", stats.NodesCreated,
		"relationships_created", stats.RelationshipsCreated)
	return stats, nil
}

func (l *Loader) run(ctx context.Context, stmts []Statement) (Stats, error) {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: l.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	return neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (Stats, error) {
		var stats Stats
		for _, s := range stmts {
			result, err := tx.Run(ctx, s.Cypher, s.Params)
			if err != nil {
				return Stats{}, fmt.Errorf("run tx: %w", err)
			}
			summary, err := result.Consume(ctx)
			if err != nil {
				return Stats{}, fmt.Errorf("consume result: %w", err)
			}
			c := summary.Counters()
			stats.Statements++
			stats.NodesCreated += c.NodesCreated()
			stats.RelationshipsCreated += c.RelationshipsCreated()
			stats.PropertiesSet += c.PropertiesSet()
		}
		return stats, nil
	})
}

// Close closes the driver.
func (l *Loader) Close(ctx context.Context) error {
	return l.driver.Close(ctx)
}
