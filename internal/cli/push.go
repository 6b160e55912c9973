package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topo2graph/pkg/config"
	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/pipeline"
	"github.com/matzehuels/topo2graph/pkg/sink/mongosink"
	"github.com/matzehuels/topo2graph/pkg/sink/neo4jsink"
)

// pushCommand groups the database sinks.
func (c *CLI) pushCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Load translated graphs into a database",
	}

	cmd.AddCommand(c.pushNeo4jCommand())
	cmd.AddCommand(c.pushMongoCommand())

	return cmd
}

// newBatchID returns the batch tag for one push run. An explicit value wins.
func newBatchID(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return uuid.NewString()
}

// checkReplace rejects --replace without an explicit --batch: a generated
// batch ID has no earlier documents to replace.
func checkReplace(replace bool, batch string) error {
	if replace && batch == "" {
		return errors.New(errors.ErrCodeUsage, "--replace requires --batch")
	}
	return nil
}

// pushNeo4jCommand creates the "push neo4j" subcommand.
func (c *CLI) pushNeo4jCommand() *cobra.Command {
	var (
		over  config.Neo4jConfig
		batch string
	)

	cmd := &cobra.Command{
		Use:   "neo4j [flags] FILE...",
		Short: "Merge nodes and links into Neo4j",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Neo4j
			flags := cmd.Flags()
			if flags.Changed("uri") {
				cfg.URI = over.URI
			}
			if flags.Changed("username") {
				cfg.Username = over.Username
			}
			if flags.Changed("password") {
				cfg.Password = over.Password
			}
			if flags.Changed("database") {
				cfg.Database = over.Database
			}
			return c.runPushNeo4j(cmd.Context(), args, cfg, newBatchID(batch))
		},
	}

	cmd.Flags().StringVar(&over.URI, "uri", "", "Neo4j URI (default from config)")
	cmd.Flags().StringVar(&over.Username, "username", "", "Neo4j user")
	cmd.Flags().StringVar(&over.Password, "password", "", "Neo4j password")
	cmd.Flags().StringVar(&over.Database, "database", "", "Neo4j database")
	cmd.Flags().StringVar(&batch, "batch", "", "batch ID stamped on written entities (default random UUID)")

	return cmd
}

func (c *CLI) runPushNeo4j(ctx context.Context, args []string, cfg config.Neo4jConfig, batch string) error {
	if err := requireFiles(args); err != nil {
		return err
	}
	spin := newSpinner(ctx, c.Err, "Connecting to "+cfg.URI)
	spin.Start()
	loader, err := neo4jsink.Open(ctx, neo4jsink.Config{
		URI:      cfg.URI,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: cfg.Database,
	}, c.Logger)
	spin.Stop()
	if err != nil {
		return err
	}
	defer loader.Close(context.WithoutCancel(ctx))

	err = c.eachFile(ctx, args, func(path string, res *pipeline.Result) error {
		stats, err := loader.Load(ctx, res.Elements, batch)
		if err != nil {
			return err
		}
		printSuccess(c.Err, "Loaded %s", path)
		printStats(c.Err, stats.NodesCreated, stats.RelationshipsCreated, res.CacheHit)
		return nil
	})
	if err != nil {
		return err
	}
	printDetail(c.Err, "Batch: %s", batch)
	return nil
}

// pushMongoCommand creates the "push mongo" subcommand.
func (c *CLI) pushMongoCommand() *cobra.Command {
	var (
		over    config.MongoConfig
		batch   string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "mongo [flags] FILE...",
		Short: "Insert one document per element into MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Mongo
			flags := cmd.Flags()
			if flags.Changed("uri") {
				cfg.URI = over.URI
			}
			if flags.Changed("database") {
				cfg.Database = over.Database
			}
			if flags.Changed("collection") {
				cfg.Collection = over.Collection
			}
			if err := checkReplace(replace, batch); err != nil {
				return err
			}
			return c.runPushMongo(cmd.Context(), args, cfg, newBatchID(batch), replace)
		},
	}

	cmd.Flags().StringVar(&over.URI, "uri", "", "MongoDB URI (default from config)")
	cmd.Flags().StringVar(&over.Database, "database", "", "MongoDB database")
	cmd.Flags().StringVar(&over.Collection, "collection", "", "MongoDB collection")
	cmd.Flags().StringVar(&batch, "batch", "", "batch ID stamped on written documents (default random UUID)")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete the batch's existing documents before inserting (requires --batch)")

	return cmd
}

func (c *CLI) runPushMongo(ctx context.Context, args []string, cfg config.MongoConfig, batch string, replace bool) error {
	if err := requireFiles(args); err != nil {
		return err
	}
	spin := newSpinner(ctx, c.Err, "Connecting to MongoDB")
	spin.Start()
	loader, err := mongosink.Open(ctx, mongosink.Config{
		URI:        cfg.URI,
		Database:   cfg.Database,
		Collection: cfg.Collection,
	}, c.Logger)
	spin.Stop()
	if err != nil {
		return err
	}
	defer loader.Close(context.WithoutCancel(ctx))

	if replace {
		n, err := loader.DeleteBatch(ctx, batch)
		if err != nil {
			return err
		}
		printDetail(c.Err, "Removed %d documents of batch %s", n, batch)
	}

	err = c.eachFile(ctx, args, func(path string, res *pipeline.Result) error {
		n, err := loader.Load(ctx, res.Elements, batch, path)
		if err != nil {
			return err
		}
		printSuccess(c.Err, "Inserted %d documents from %s", n, path)
		printStats(c.Err, res.Nodes(), res.Links(), res.CacheHit)
		return nil
	})
	if err != nil {
		return err
	}
	printDetail(c.Err, "Batch: %s", batch)
	return nil
}
