package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/gdlookup/internal/config"
	"github.com/roach88/gdlookup/internal/install"
	"github.com/roach88/gdlookup/internal/tags"
)

// session holds the stores and tag table one command runs against.
// Both are opened once and are read-only afterwards.
type session struct {
	sel  *install.Selection
	tags tags.Table
	log  *slog.Logger
}

// openSession opens the record stores and loads the tag table for opts.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	if opts.InstallPath == "" {
		return nil, NewExitError(ExitCommandError,
			"install path is required: pass --install-path or set "+config.EnvPrefix+"_INSTALL_PATH")
	}

	log := opts.logger()
	loader := install.NewLoader(opts.InstallPath, log)

	sel, err := loader.OpenSelection(ctx, opts.Expansion)
	if err != nil {
		return nil, classify(err)
	}

	table, err := loader.LoadTags(ctx)
	if err != nil {
		sel.Close()
		return nil, classify(err)
	}

	log.Debug("session ready", "stores", sel.Len(), "tags", len(table))
	return &session{sel: sel, tags: table, log: log}, nil
}

// Close releases every store.
func (s *session) Close() error {
	return s.sel.Close()
}

// classify attaches the exit code for err's category.
func classify(err error) error {
	var (
		exitErr *ExitError
		cfgErr  *install.ConfigError
		fileErr *config.FileError
	)
	switch {
	case errors.As(err, &exitErr):
		return err
	case errors.As(err, &cfgErr), errors.As(err, &fileErr):
		return WrapExitError(ExitCommandError, "", err)
	default:
		// Missing records, scan failures, unusable tag files.
		return WrapExitError(ExitFailure, "", err)
	}
}
