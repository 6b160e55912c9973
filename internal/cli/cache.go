package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topo2graph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the output cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printWarning(c.Err, "Cache backend %q keeps nothing to clear", c.backend())
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(c.Err, "Cleared %s cache", c.backend())
			if location := c.cacheLocation(store); location != "" {
				printDetail(c.Err, "Location: %s", location)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached outputs are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.backend() == string(cache.BackendFile) {
				// No need to open the cache just to print its directory.
				dir := c.cfg.Cache.Dir
				if dir == "" {
					d, err := cache.DefaultDir()
					if err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
					dir = d
				}
				fmt.Fprintln(c.Out, dir)
				return nil
			}
			location := c.cacheLocation(nil)
			if location == "" {
				printInfo(c.Err, "Caching is disabled")
				return nil
			}
			fmt.Fprintln(c.Out, location)
			return nil
		},
	}
}

// backend returns the normalized configured backend name.
func (c *CLI) backend() string {
	b := strings.ToLower(c.cfg.Cache.Backend)
	if b == "" {
		return string(cache.BackendFile)
	}
	return b
}

// cacheLocation describes where store keeps its entries.
func (c *CLI) cacheLocation(store cache.Cache) string {
	switch c.backend() {
	case string(cache.BackendFile):
		if fc, ok := store.(*cache.FileCache); ok {
			return fc.Dir()
		}
	case string(cache.BackendRedis):
		return fmt.Sprintf("redis://%s/%d", c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisDB)
	}
	return ""
}
