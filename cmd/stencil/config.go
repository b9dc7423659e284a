// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"stencil-cli/internal/issue"
	"stencil-cli/internal/store"
	"stencil-cli/internal/tui"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `stencil config` command tree. Subcommands
// reach the record store through the App so tests can point it at a temp
// directory.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage named configuration records",
		Long: `Manage named configuration records.

Records are stored under ~/.stencil/configs, one JSON file per record,
with current.json pointing at the active one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var (
		createDesc  string
		createForce bool
	)
	createCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a configuration record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runConfigCreate(app, name, createDesc, cmd.Flags().Changed("description"), createForce)
		},
	}
	createCmd.Flags().StringVarP(&createDesc, "description", "d", "", "description for the record (skips the prompt)")
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false, "overwrite an existing record without asking")
	cfgCmd.AddCommand(createCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all configuration records",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Make a configuration record the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigUse(app, args[0])
		},
	})

	var deleteForce bool
	deleteCmd := &cobra.Command{
		Use:     "delete [name]",
		Aliases: []string{"rm"},
		Short:   "Delete a configuration record",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runConfigDelete(app, name, deleteForce)
		},
	}
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without asking for confirmation")
	cfgCmd.AddCommand(deleteCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "current",
		Short: "Show the active configuration name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigCurrent(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a configuration record (active one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runConfigShow(app, name)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration store directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath(app)
		},
	})

	return cfgCmd
}

// runConfigCreate saves a record, prompting for whatever the caller didn't
// provide. An empty name means "ask"; descSet distinguishes an intentionally
// empty --description from a missing one.
func runConfigCreate(app *App, name, desc string, descSet, force bool) error {
	st, err := app.Store()
	if err != nil {
		return err
	}

	prompted := false
	if name == "" {
		prompted = true
		name, err = tui.Input(tui.InputOptions{
			Title:       "Configuration name",
			Placeholder: "e.g. staging",
			CharLimit:   store.MaxNameLength,
			Validate:    store.ValidateName,
			Config:      tui.DefaultConfig(),
		})
		if errors.Is(err, tui.ErrCancelled) {
			return printAborted(app)
		}
		if err != nil {
			return err
		}
	}
	if err := store.ValidateName(name); err != nil {
		return err
	}

	exists, err := st.Exists(name)
	if err != nil {
		return err
	}
	if exists && !force {
		overwrite, err := tui.Confirm(tui.ConfirmOptions{
			Title:       fmt.Sprintf("Configuration %q already exists. Overwrite?", name),
			Description: "The existing record will be replaced.",
			Config:      tui.DefaultConfig(),
		})
		if errors.Is(err, tui.ErrCancelled) || (err == nil && !overwrite) {
			return printAborted(app)
		}
		if err != nil {
			return err
		}
	}

	if !descSet && prompted {
		desc, err = tui.Input(tui.InputOptions{
			Title:  "Description (optional)",
			Config: tui.DefaultConfig(),
		})
		if errors.Is(err, tui.ErrCancelled) {
			return printAborted(app)
		}
		if err != nil {
			return err
		}
	}

	if err := st.Save(&store.Record{Name: name, Description: desc}); err != nil {
		return err
	}
	logger.Debug("saved configuration", "name", name, "overwrote", exists)

	verb := "Created"
	if exists {
		verb = "Updated"
	}
	fmt.Fprintf(app.stdout, "%s %s configuration %s\n", SuccessStyle.Render("✓"), verb, NameStyle.Render(name))
	return nil
}

func runConfigList(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}

	names, err := st.List()
	if err != nil {
		renderIssuePage(app.stderr, issue.StoreUnreadableId)
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("No configurations yet. Run 'stencil config create' to add one."))
		return nil
	}

	// A dangling pointer matches no listed name, so the marker simply
	// doesn't appear; `config current` reports the problem.
	active, _ := st.ActiveName()

	for _, name := range names {
		marker := "  "
		if name == active {
			marker = ActiveMarkerStyle.Render("* ")
		}
		fmt.Fprintf(app.stdout, "%s%s\n", marker, NameStyle.Render(name))
	}
	return nil
}

func runConfigUse(app *App, name string) error {
	st, err := app.Store()
	if err != nil {
		return err
	}

	if err := st.SetActive(name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return issue.NewErrorContext().
				WithOperation("select configuration").
				WithResource(name).
				WithSuggestion("Run 'stencil config list' to see what exists").
				Wrap(err).
				BuildError()
		}
		return err
	}

	fmt.Fprintf(app.stdout, "%s Now using %s\n", SuccessStyle.Render("✓"), NameStyle.Render(name))
	return nil
}

// runConfigDelete removes a record. Without a name it offers an interactive
// selection; without --force it asks for confirmation first.
func runConfigDelete(app *App, name string, force bool) error {
	st, err := app.Store()
	if err != nil {
		return err
	}

	if name == "" {
		names, err := st.List()
		if err != nil {
			renderIssuePage(app.stderr, issue.StoreUnreadableId)
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("No configurations to delete."))
			renderIssuePage(app.stderr, issue.NoConfigurationsId)
			return nil
		}

		name, err = tui.ChooseStrings("Delete which configuration?", names, tui.DefaultConfig())
		if errors.Is(err, tui.ErrCancelled) {
			return printAborted(app)
		}
		if err != nil {
			return err
		}
	}

	if !force {
		confirmed, err := tui.Confirm(tui.ConfirmOptions{
			Title:       fmt.Sprintf("Delete configuration %q?", name),
			Description: "This cannot be undone.",
			Config:      tui.DefaultConfig(),
		})
		if errors.Is(err, tui.ErrCancelled) || (err == nil && !confirmed) {
			return printAborted(app)
		}
		if err != nil {
			return err
		}
	}

	activeName, _ := st.ActiveName()
	wasActive := activeName == name

	if err := st.Delete(name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return issue.NewErrorContext().
				WithOperation("delete configuration").
				WithResource(name).
				WithSuggestion("Run 'stencil config list' to see what exists").
				Wrap(err).
				BuildError()
		}
		return err
	}
	logger.Debug("deleted configuration", "name", name, "wasActive", wasActive)

	fmt.Fprintf(app.stdout, "%s Deleted configuration %s\n", SuccessStyle.Render("✓"), NameStyle.Render(name))
	if wasActive {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("It was the active configuration; the active pointer has been cleared."))
	}
	return nil
}

func runConfigCurrent(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}

	name, err := st.ActiveName()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Dangling pointer: report it, but this is not fatal.
			fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+fmt.Sprintf("active configuration %q no longer exists", name))
			renderIssuePage(app.stderr, issue.DanglingActivePointerId)
			return nil
		}
		return err
	}

	if name == "" {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("(none)"))
		return nil
	}
	fmt.Fprintln(app.stdout, NameStyle.Render(name))
	return nil
}

func runConfigShow(app *App, name string) error {
	st, err := app.Store()
	if err != nil {
		return err
	}

	var rec *store.Record
	if name == "" {
		rec, err = st.Active()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+"the active configuration no longer exists")
				renderIssuePage(app.stderr, issue.DanglingActivePointerId)
				return nil
			}
			return err
		}
		if rec == nil {
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("No active configuration. Run 'stencil config use <name>' to select one."))
			return nil
		}
	} else {
		rec, err = st.Get(name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return issue.NewErrorContext().
					WithOperation("show configuration").
					WithResource(name).
					WithSuggestion("Run 'stencil config list' to see what exists").
					Wrap(err).
					BuildError()
			}
			return err
		}
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Configuration"))
	fmt.Fprintf(app.stdout, "%s: %s\n", NameStyle.Render("name"), rec.Name)
	if rec.Description != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", NameStyle.Render("description"), rec.Description)
	}
	for _, key := range slices.Sorted(maps.Keys(rec.Extra)) {
		fmt.Fprintf(app.stdout, "%s: %s\n", NameStyle.Render(key), formatExtraValue(rec.Extra[key]))
	}
	return nil
}

func runConfigPath(app *App) error {
	st, err := app.Store()
	if err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, st.Dir())
	return nil
}

// printAborted reports a user-cancelled prompt. Cancellation is a choice,
// not a failure, so the command exits zero.
func printAborted(app *App) error {
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Aborted."))
	return nil
}

// renderIssuePage writes a catalog help page to w, if the id is known.
func renderIssuePage(w io.Writer, id issue.Id) {
	page := issue.Get(id)
	if page == nil {
		return
	}
	rendered, err := page.Render("dark")
	if err != nil {
		logger.Warn("failed to render issue page", "id", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatExtraValue renders a free-form record field for display. Scalars
// print as-is; anything structured falls back to its JSON encoding.
func formatExtraValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
