// Command filecachectl operates directly on a filecache.Cache directory,
// for operators inspecting or draining a cache without going through a
// running service.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zynqcloud/filecache"
	"github.com/zynqcloud/filecache/value"
)

var root string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "filecachectl",
		Short:         "Inspect and manage a filecache directory",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&root, "root", "", "cache root directory (required)")
	cmd.MarkPersistentFlagRequired("root") //nolint:errcheck

	cmd.AddCommand(newGetCmd(), newSetCmd(), newDeleteCmd(), newGCCmd(), newStatsCmd(), newClearCmd())
	return cmd
}

func openCache() (*filecache.Cache, error) {
	return filecache.New(root, filecache.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the string value stored under key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			v, ok := c.Get([]byte(args[0]))
			if !ok {
				return fmt.Errorf("key %q: not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderValue(v))
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	var ttlFlag string
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store value (as a string) under key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			ttl, err := parseTTLFlag(ttlFlag)
			if err != nil {
				return err
			}
			return c.Set([]byte(args[0]), value.OfString(args[1]), ttl)
		},
	}
	cmd.Flags().StringVar(&ttlFlag, "ttl", "0s", "time to live (0 = cache default, negative = never expire)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove key from the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			return c.Delete([]byte(args[0]))
		},
	}
}

func newGCCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Sweep expired and unparseable entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			n, err := c.GC(limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10000, "maximum entries to delete in this sweep")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the cache root path",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "root: %s\n", c.Root())
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry in the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			return c.Clear()
		},
	}
}

func parseTTLFlag(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --ttl %q: %w", s, err)
	}
	return d, nil
}

func renderValue(v filecache.Value) string {
	switch v.Kind {
	case value.String:
		return v.Str
	case value.Int:
		return fmt.Sprintf("%d", v.Int)
	case value.Float:
		return fmt.Sprintf("%g", v.Float)
	case value.Bool:
		return fmt.Sprintf("%t", v.Bool)
	case value.Bytes:
		return fmt.Sprintf("<%d bytes>", len(v.Bytes))
	case value.Nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%s>", v.Kind)
	}
}
