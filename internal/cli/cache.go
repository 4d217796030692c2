package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/udgraph/pkg/cache"
	uerr "github.com/matzehuels/udgraph/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stderr := cmd.ErrOrStderr()

			ch, err := cache.Open(ctx, c.cfg.CacheOptions())
			if err != nil {
				return uerr.Wrap(uerr.ErrCodeInvalidConfig, err, "open %s cache", c.cfg.Cache.Backend)
			}
			defer ch.Close()

			cl, ok := ch.(cache.Clearer)
			if !ok {
				return uerr.New(uerr.ErrCodeUnsupported, "%s cache cannot be cleared", c.cfg.Cache.Backend)
			}
			if err := cl.Clear(ctx); err != nil {
				return uerr.Wrap(uerr.ErrCodeInternal, err, "clear cache")
			}

			printSuccess(stderr, "Cleared %s cache", backendName(c.cfg.Cache.Backend))
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail(stderr, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.cfg.Cache.Dir
			if dir == "" {
				d, err := cache.DefaultDir()
				if err != nil {
					return uerr.Wrap(uerr.ErrCodeInternal, err, "cache dir")
				}
				dir = d
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func backendName(b string) string {
	if b == "" {
		return cache.BackendNone
	}
	return b
}
