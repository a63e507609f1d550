package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/fdsreac/internal/reacservice"
	"github.com/starford/fdsreac/internal/stoich"
	"github.com/starford/fdsreac/internal/storage"
)

// flagName maps an input field to its command-line flag (heat_release -> heat-release).
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func inputFlags() []cli.Flag {
	usage := map[string]string{
		stoich.FieldHeatRelease:   "Heat of combustion, kJ/kg",
		stoich.FieldSootYield:     "Soot yield, kg/kg",
		stoich.FieldO2Consumption: "Oxygen consumed per unit fuel mass, kg/kg",
		stoich.FieldCO2Yield:      "CO2 yield, kg/kg",
		stoich.FieldCOYield:       "CO yield, kg/kg",
		stoich.FieldHClYield:      "HCl yield, kg/kg (default 0)",
		stoich.FieldMolarMass:     "Fuel molar mass, g/mol",
	}
	flags := make([]cli.Flag, 0, len(stoich.FieldOrder)+1)
	for _, field := range stoich.FieldOrder {
		flags = append(flags, &cli.StringFlag{Name: flagName(field), Usage: usage[field]})
	}
	return append(flags, &cli.StringFlag{Name: "fuel", Usage: "Fuel species id (default: the file's fuel, else " + stoich.DefaultFuelID + ")"})
}

// rawInputs collects the input flags as raw text; decimal commas are accepted.
func rawInputs(cmd *cli.Command) map[string]string {
	raw := make(map[string]string, len(stoich.FieldOrder))
	for _, field := range stoich.FieldOrder {
		if cmd.IsSet(flagName(field)) {
			raw[field] = cmd.String(flagName(field))
		}
	}
	return raw
}

// caseService opens the directory holding file as a cases root without a catalogue.
func caseService(file, fuel string) (*reacservice.Service, string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, "", err
	}
	store, err := storage.NewFS(filepath.Dir(abs))
	if err != nil {
		return nil, "", err
	}
	return reacservice.NewService(store, nil, fuel), filepath.Base(abs), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func computeCommand() *cli.Command {
	return &cli.Command{
		Name:  "compute",
		Usage: "Print the reaction block for the given fire properties",
		Flags: append(inputFlags(), &cli.BoolFlag{Name: "json", Usage: "Print coefficients and block as JSON"}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc := reacservice.NewService(nil, nil, "")
			res, err := svc.Compute(ctx, rawInputs(cmd), cmd.String("fuel"))
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return printJSON(cmd.Root().Writer, res)
			}
			_, err = io.WriteString(cmd.Root().Writer, res.Block)
			return err
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Recover the fire properties from an FDS input file",
		ArgsUsage: "<file.fds>",
		Flags:     []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"}},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			file := cmd.Args().First()
			if file == "" {
				return fmt.Errorf("import: a case file is required")
			}
			svc, name, err := caseService(file, "")
			if err != nil {
				return err
			}
			res, err := svc.Import(ctx, name)
			if err != nil {
				return fmt.Errorf("import %s: %w", file, err)
			}
			if cmd.Bool("json") {
				return printJSON(cmd.Root().Writer, res)
			}
			writeImport(cmd.Root().Writer, res)
			return nil
		},
	}
}

func writeImport(w io.Writer, res *reacservice.ImportResult) {
	fmt.Fprintf(w, "fuel: %s\n", res.Session.FuelID)
	for _, field := range stoich.FieldOrder {
		if v, ok := res.Fields[field]; ok {
			fmt.Fprintf(w, "%-15s %s\n", field, stoich.FormatNative(v))
		} else {
			fmt.Fprintf(w, "%-15s (missing)\n", field)
		}
	}
	for _, wn := range res.Warnings {
		fmt.Fprintf(w, "warning [%s] %s\n", wn.Code, wn.Message)
	}
	if res.HasBlock {
		fmt.Fprintf(w, "\n%s\n", res.OriginalBlock)
	}
}

func saveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Compute the reaction block and splice it into an FDS input file",
		ArgsUsage: "<file.fds>",
		Flags: append(inputFlags(),
			&cli.StringFlag{Name: "out", Usage: "Destination relative to the input file's directory (default: overwrite)"}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			file := cmd.Args().First()
			if file == "" {
				return fmt.Errorf("save: a case file is required")
			}
			svc, name, err := caseService(file, "")
			if err != nil {
				return err
			}
			sess, err := svc.Open(ctx, name)
			if err != nil {
				return fmt.Errorf("save %s: %w", file, err)
			}
			fuel := cmd.String("fuel")
			if !cmd.IsSet("fuel") {
				fuel = sess.FuelID
			}
			res, err := svc.Compute(ctx, rawInputs(cmd), fuel)
			if err != nil {
				return err
			}
			saved, err := svc.Save(ctx, sess, res.Block, cmd.String("out"))
			if err != nil {
				return fmt.Errorf("save %s: %w", file, err)
			}
			fmt.Fprintf(cmd.Root().Writer, "saved %s (%s)\n", saved.Path, saved.Placement)
			return nil
		},
	}
}
