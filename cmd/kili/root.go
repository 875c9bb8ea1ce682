package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ambambokili/kili/internal/catalog"
	"github.com/ambambokili/kili/internal/config"
	"github.com/ambambokili/kili/internal/source"
)

// errProblems makes the process exit non-zero after the command has
// already printed its findings.
var errProblems = errors.New("problems found")

// options are the persistent flags shared by every subcommand.
type options struct {
	file    string
	url     string
	timeout time.Duration
	verbose bool

	// loadConfig is swapped out by tests.
	loadConfig func() (*config.Config, error)
}

func newRootCmd() *cobra.Command {
	return newRoot(&options{loadConfig: config.Load})
}

func newRoot(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "kili",
		Short:         "Inspect and validate the Ambambo Kili video catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.verbose {
				zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.file, "file", "", "read the catalog from a local JSON file")
	pf.StringVar(&opts.url, "url", "", "fetch the catalog from a URL")
	pf.DurationVar(&opts.timeout, "timeout", config.DefaultFetchTimeout, "fetch timeout for --url")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")
	root.MarkFlagsMutuallyExclusive("file", "url")

	root.AddCommand(
		newCheckCmd(opts),
		newQueryCmd(opts),
		newRelatedCmd(opts),
		newCategoriesCmd(opts),
		newCacheCmd(opts),
	)
	return root
}

// source resolves the flags (or the config file) to a catalog source.  The
// returned closer is never nil.
func (o *options) source() (source.Source, func(), error) {
	noop := func() {}
	switch {
	case o.file != "":
		return &source.File{Path: o.file}, noop, nil
	case o.url != "":
		return source.NewHTTP(o.url, o.timeout), noop, nil
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, noop, err
	}
	src, err := source.New(cfg.Catalog, cfg.Cache)
	if err != nil {
		return nil, noop, err
	}
	if c, ok := src.(io.Closer); ok {
		return src, func() { _ = c.Close() }, nil
	}
	return src, noop, nil
}

// snapshot loads the catalog once through a Store, exactly as the web
// server does.
func (o *options) snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	src, closeFn, err := o.source()
	if err != nil {
		return nil, err
	}
	defer closeFn()

	store := catalog.NewStore(src)
	if err := store.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return store.Snapshot(), nil
}
