package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/gateway"
	"github.com/mmcdole/shelf/internal/gateway/catalog"
	"github.com/mmcdole/shelf/internal/gateway/gutendex"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/tui"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

const listTimeout = 60 * time.Second

func main() {
	flags := pflag.NewFlagSet("shelf", pflag.ExitOnError)
	adapter.RegisterFlags(flags)
	flags.Parse(os.Args[1:])

	if v, _ := flags.GetBool("version"); v {
		fmt.Printf("shelf %s\n", Version)
		return
	}

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet) error {
	cfg, err := adapter.LoadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting shelf", "version", Version, "source", cfg.Source)

	path, err := adapter.ExpandHome(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	seedFile, err := adapter.ExpandHome(cfg.Catalog.SeedFile)
	if err != nil {
		return err
	}
	cat, err := catalog.Open(catalog.Options{
		Path:     path,
		SeedFile: seedFile,
		FailIDs:  cfg.Gateway.FailIDs,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer cat.Close()

	remote := gutendex.NewClient(cfg.Remote.URL, cfg.Remote.Timeout, logger)
	router := gateway.NewRouter(cat, remote, gateway.Options{
		ReadDelay:  cfg.Gateway.ReadDelay,
		WriteDelay: cfg.Gateway.WriteDelay,
		Logger:     logger,
	})
	session := library.NewSession(router, logger)

	list, _ := flags.GetBool("list")
	if list || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printList(os.Stdout, session, cfg.Source)
	}

	model := tui.NewModel(session, tui.Options{
		Source:          cfg.Source,
		SuggestionLimit: cfg.UI.SuggestionLimit,
		Logger:          logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// printList loads source and writes one line per book.
func printList(w io.Writer, session *library.Session, source domain.Source) error {
	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	if err := session.Load(ctx, source); err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	for _, v := range session.BookViews(domain.ListAll) {
		star := styles.NoFavoriteChar
		if v.IsAddedToFavorites {
			star = styles.FavoriteChar
		}
		fmt.Fprintf(w, "%s %5d  %s - %s\n", star, v.ID, v.Title, v.Author)
	}
	return nil
}
