// Package cli is the interaction layer of the to-do application: menus,
// prompts and rendering. All state transitions and store calls go through
// the session machine; this package only reads input and prints results.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/config"
	"github.com/dmitrijs2005/cloudtasks/internal/credstore"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
	fstore "github.com/dmitrijs2005/cloudtasks/internal/docstore/firestore"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore/memory"
	mstore "github.com/dmitrijs2005/cloudtasks/internal/docstore/mongo"
	pstore "github.com/dmitrijs2005/cloudtasks/internal/docstore/postgres"
	"github.com/dmitrijs2005/cloudtasks/internal/logging"
	"github.com/dmitrijs2005/cloudtasks/internal/session"
	"github.com/dmitrijs2005/cloudtasks/internal/taskrepo"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   docstore.Store
	machine *session.Machine
	creds   *credstore.Store
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp connects the configured document store and wires the credential
// store, task repository and session machine on top of it. The store handle
// is owned by the app and released in Run.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store = docstore.WithTimeout(store, cfg.StoreTimeout)

	creds := credstore.New(store)
	tasks := taskrepo.New(store)

	logger.Info(ctx, "store ready", "backend", cfg.Store)

	return &App{
		config:  cfg,
		logger:  logger,
		store:   store,
		machine: session.NewMachine(creds, tasks),
		creds:   creds,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StoreFirestore:
		if _, err := os.Stat(cfg.FirestoreCredentialsFile); err != nil {
			return nil, fmt.Errorf("could not find %s: %w", cfg.FirestoreCredentialsFile, err)
		}
		return fstore.New(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	case config.StoreMongo:
		return mstore.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.StorePostgres:
		return pstore.New(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}

// Run drives the main menu until the user exits or a store failure makes
// continuing unsafe. The returned error is always a store failure; user
// mistakes are handled inside the loops by re-prompting.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.logger.Warn(ctx, "closing store", "error", err)
		}
	}()
	return a.mainMenu(ctx)
}

// isLocal reports whether the error is a declined operation or rejected
// input that the menus handle by re-prompting. Anything else comes from the
// store and must terminate the session rather than continue with undefined
// state.
func isLocal(err error) bool {
	return errors.Is(err, common.ErrorValidation) ||
		errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrorInvalidCredentials) ||
		errors.Is(err, common.ErrorAlreadyExists) ||
		errors.Is(err, common.ErrorUnauthorized)
}
