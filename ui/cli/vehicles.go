// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/internal/model"
	"github.com/toeirei/fleetmaster/internal/vehicles"
	"golang.org/x/term"
)

// isTerminal reports whether stdin is interactive. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newController loads the app and returns a controller without navigation;
// the command line has no history to go back in.
func newController(opts ...vehicles.Option) (*vehicles.Controller, error) {
	a, err := newApp(appConfig)
	if err != nil {
		return nil, err
	}
	return a.Controller(opts...)
}

// loaded returns a controller whose list has been fetched.
func loaded(ctx context.Context, opts ...vehicles.Option) (*vehicles.Controller, error) {
	ctrl, err := newController(opts...)
	if err != nil {
		return nil, err
	}
	if err := ctrl.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("could not load vehicles: %w", err)
	}
	return ctrl, nil
}

func newVehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicles",
		Aliases: []string{"v"},
		Short:   "List and manage vehicle records",
	}
	cmd.AddCommand(
		newVehiclesListCmd(),
		newVehiclesAddCmd(),
		newVehiclesEditCmd(),
		newVehiclesDeleteCmd(),
		newVehiclesExportCmd(),
		newVehiclesImportCmd(),
	)
	return cmd
}

func newVehiclesListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicles, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := loaded(cmd.Context())
			if err != nil {
				return err
			}
			rows := ctrl.Ordered()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			printVehicleTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

func printVehicleTable(w io.Writer, rows []model.Vehicle) {
	if len(rows) == 0 {
		fmt.Fprintln(w, i18n.T("vehicles.empty"))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "YEAR", "MAKE", "MODEL", "UPDATED")
	for _, v := range rows {
		updated := v.UpdatedAt.String()
		if t, ok := v.UpdatedAt.Time(); ok {
			updated = humanize.Time(t)
		}
		t.Row(strconv.Itoa(v.ID), v.Year.String(), v.Make.String(), v.Model.String(), updated)
	}
	fmt.Fprintln(w, t.Render())
}

// fieldFlags are the --year/--make/--model flags shared by add and edit.
type fieldFlags struct {
	year, make, model string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.year, "year", "", "Model year")
	cmd.Flags().StringVar(&f.make, "make", "", "Manufacturer")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name")
}

// apply writes the flags the user set onto v.
func (f *fieldFlags) apply(cmd *cobra.Command, v model.Vehicle) model.Vehicle {
	if cmd.Flags().Changed("year") {
		v.Year = model.ParseScalar(f.year)
	}
	if cmd.Flags().Changed("make") {
		v.Make = model.ParseScalar(f.make)
	}
	if cmd.Flags().Changed("model") {
		v.Model = model.ParseScalar(f.model)
	}
	return v
}

func newVehiclesAddCmd() *cobra.Command {
	var fields fieldFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createVehicle(cmd, &fields)
		},
	}
	fields.register(cmd)
	return cmd
}

func createVehicle(cmd *cobra.Command, fields *fieldFlags) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}
	v := fields.apply(cmd, model.Vehicle{})
	if err := ctrl.Save(cmd.Context(), v); err != nil {
		return fmt.Errorf("could not create vehicle: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.vehicle_created", v.String()))
	return nil
}

func newVehiclesEditCmd() *cobra.Command {
	var fields fieldFlags
	cmd := &cobra.Command{
		Use:   "edit <id|new>",
		Short: "Update the given fields of a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := loaded(cmd.Context())
			if err != nil {
				return err
			}
			res := ctrl.ResolveForEdit(args[0])
			switch res.Kind {
			case vehicles.ResolveNew:
				return createVehicle(cmd, &fields)
			case vehicles.ResolveNotFound:
				return fmt.Errorf("%s", i18n.T("cli.vehicle_not_found", args[0]))
			}
			v := fields.apply(cmd, res.Vehicle)
			if err := ctrl.Save(cmd.Context(), v); err != nil {
				return fmt.Errorf("could not update vehicle %d: %w", v.ID, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.vehicle_updated", v.ID))
			return nil
		},
	}
	fields.register(cmd)
	return cmd
}

func newVehiclesDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vehicle after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed := false
			confirm := vehicles.ConfirmerFunc(func(_ context.Context, prompt string) bool {
				switch {
				case yes:
					confirmed = true
				case isTerminal():
					answer := promptForConfirmation(cmd.OutOrStdout(), cmd.InOrStdin(), prompt+" [y/N]: ")
					confirmed = answer == "y" || answer == "yes"
				}
				return confirmed
			})

			ctrl, err := loaded(cmd.Context(), vehicles.WithConfirmer(confirm))
			if err != nil {
				return err
			}
			res := ctrl.ResolveForEdit(args[0])
			if res.Kind != vehicles.ResolveFound {
				return fmt.Errorf("%s", i18n.T("cli.vehicle_not_found", args[0]))
			}
			if err := ctrl.Delete(cmd.Context(), res.Vehicle); err != nil {
				return fmt.Errorf("could not delete vehicle %d: %w", res.Vehicle.ID, err)
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.delete_cancelled"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.vehicle_deleted", res.Vehicle.ID))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newVehiclesExportCmd() *cobra.Command {
	var output string
	var compress bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all vehicles to a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := loaded(cmd.Context())
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("could not create backup file: %w", err)
				}
				defer f.Close()
				w = f
			}
			rows := ctrl.State().Vehicles
			if err := vehicles.Export(w, rows, compress); err != nil {
				return err
			}
			if w != cmd.OutOrStdout() {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.exported", len(rows), output))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Backup file (default stdout)")
	cmd.Flags().BoolVar(&compress, "zstd", false, "Compress the backup with zstd")
	return cmd
}

func newVehiclesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create every vehicle of a backup as a new record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open backup: %w", err)
			}
			defer f.Close()
			data, err := vehicles.ReadBackup(f)
			if err != nil {
				return err
			}
			ctrl, err := newController()
			if err != nil {
				return err
			}
			created, err := ctrl.Import(cmd.Context(), data.Vehicles)
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.imported", created, len(data.Vehicles)))
			if err != nil {
				return errors.Join(errors.New(i18n.T("cli.import_failed")), err)
			}
			return nil
		},
	}
}
