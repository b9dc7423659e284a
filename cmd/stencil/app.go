// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"
	"sync"

	"stencil-cli/internal/store"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer — all Cobra command handlers receive an App
	// reference and reach the record store through it.
	App struct {
		deps Dependencies

		storeOnce sync.Once
		store     StoreService
		storeErr  error

		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests supply
	// a store rooted in a temp directory and byte buffers for output.
	Dependencies struct {
		Store  StoreService
		Stdout io.Writer
		Stderr io.Writer
	}

	// StoreService is the record store surface the command layer uses.
	// *store.Store implements it.
	StoreService interface {
		Dir() string
		List() ([]string, error)
		Get(name string) (*store.Record, error)
		Save(rec *store.Record) error
		Exists(name string) (bool, error)
		Delete(name string) error
		ActiveName() (string, error)
		Active() (*store.Record, error)
		SetActive(name string) error
	}
)

// NewApp builds an App, filling nil dependencies with production defaults.
// The store is opened lazily on first use so commands that never touch it
// (help, completion) don't create ~/.stencil.
func NewApp(deps Dependencies) *App {
	app := &App{
		deps:   deps,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// Store returns the record store, opening the default one on first use.
func (a *App) Store() (StoreService, error) {
	a.storeOnce.Do(func() {
		if a.deps.Store != nil {
			a.store = a.deps.Store
			return
		}
		a.store, a.storeErr = store.Open()
	})
	return a.store, a.storeErr
}
