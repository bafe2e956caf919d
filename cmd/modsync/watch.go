package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/modsync/pkg/coalesce"
	"github.com/arthur-debert/modsync/pkg/config"
	"github.com/arthur-debert/modsync/pkg/engine"
	"github.com/arthur-debert/modsync/pkg/filesystem"
	"github.com/arthur-debert/modsync/pkg/format"
	"github.com/arthur-debert/modsync/pkg/logging"
	"github.com/arthur-debert/modsync/pkg/rules"
	"github.com/arthur-debert/modsync/pkg/style"
	"github.com/arthur-debert/modsync/pkg/watcher"
)

// watcherSink adapts the coalescer to the watcher's Sink interface.
type watcherSink struct {
	coalescer *coalesce.Coalescer
}

func (s watcherSink) Create(path string) { s.coalescer.Create(path) }
func (s watcherSink) Delete(path string) { s.coalescer.Delete(path) }

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a source tree and keep its index files in sync",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("watch")

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
		coalescer := coalesce.New(eng, coalesce.Options{
			Debounce:     settings.Debounce,
			RenameWindow: settings.RenameWindow,
			RenameSettle: settings.RenameSettle,
		}, nil, nil)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintln(cmd.OutOrStdout(), style.Title.Render("watch ")+style.Path.Render(root))

		w := watcher.New(watcherSink{coalescer}, settings.Ignore)
		err = w.Start(ctx, root)

		// drain whatever the burst in progress left behind
		coalescer.Flush()

		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("Shutting down")
			return nil
		}
		return err
	},
}
