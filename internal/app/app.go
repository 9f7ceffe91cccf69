// Package app implements the application layer for the memo CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/core/ports"
)

// App represents the main application logic behind the CLI commands.
type App struct {
	loader ports.SettingsLoader
	opener ports.StoreOpener
	log    ports.Logger
}

// New creates a new App instance.
func New(loader ports.SettingsLoader, opener ports.StoreOpener, log ports.Logger) *App {
	return &App{
		loader: loader,
		opener: opener,
		log:    log,
	}
}

// Dump lists every entry in the on-disk cache referenced by the config at
// configPath, one row per serialized result.
func (a *App) Dump(_ context.Context, configPath string, out io.Writer) error {
	store, err := a.openStore(configPath)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tKEY FINGERPRINT\tSIZE")
	for _, e := range store.Entries() {
		fmt.Fprintf(w, "%d\t%s\t%d\n", e.Index, e.KeyFingerprint, e.Size)
	}
	return w.Flush()
}

// Stats prints a summary of the on-disk cache.
func (a *App) Stats(_ context.Context, configPath string, out io.Writer) error {
	store, err := a.openStore(configPath)
	if err != nil {
		return err
	}

	entries := store.Entries()
	var total int
	for _, e := range entries {
		total += e.Size
	}

	fmt.Fprintf(out, "entries: %d\n", len(entries))
	fmt.Fprintf(out, "previous indices: %d\n", len(store.PreviousIndices()))
	fmt.Fprintf(out, "payload bytes: %d\n", total)
	return nil
}

func (a *App) openStore(configPath string) (ports.DiskStore, error) {
	settings, err := a.loader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	a.log.SetLevel(settings.LogLevel)

	store, err := a.opener.Open(settings.CachePath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open disk cache")
	}
	return store, nil
}
