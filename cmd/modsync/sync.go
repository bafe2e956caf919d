package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/modsync/pkg/config"
	"github.com/arthur-debert/modsync/pkg/engine"
	"github.com/arthur-debert/modsync/pkg/filesystem"
	"github.com/arthur-debert/modsync/pkg/format"
	"github.com/arthur-debert/modsync/pkg/rules"
	"github.com/arthur-debert/modsync/pkg/style"
)

var syncCmd = &cobra.Command{
	Use:   "sync [dir]",
	Short: "One-shot reconciliation of a source tree",
	Long: `Walk the tree and register every source file not yet declared in its
index file, exactly as if a create event had arrived for each.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(args)
		if err != nil {
			return err
		}

		settings, err := config.Load(root)
		if err != nil {
			return err
		}

		fs := filesystem.NewOS()
		resolver := rules.NewResolver(fs, settings.DefaultRule)
		eng := engine.New(fs, resolver, format.NewCargoFmt(), root)

		sum, err := eng.SyncTree(root, settings.Ignore)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, style.Title.Render("sync ")+style.Path.Render(root))
		fmt.Fprintf(out, "  %s files scanned\n", style.Count.Render(fmt.Sprintf("%d", sum.FilesSeen)))
		fmt.Fprintf(out, "  %s index files updated\n", style.Count.Render(fmt.Sprintf("%d", sum.Writes)))
		if sum.Errors > 0 {
			fmt.Fprintf(out, "  %s paths skipped with errors\n", style.Error.Render(fmt.Sprintf("%d", sum.Errors)))
		}
		return nil
	},
}

func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	return filepath.Abs(root)
}
