package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/glefebvre/cineflix/internal/catalogio"
	"github.com/glefebvre/cineflix/internal/database"
	"github.com/glefebvre/cineflix/internal/store"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Create content items from a YAML file",
	Long: `Create one content item per entry of a YAML catalog file. Entries are
validated like the admin form; invalid entries are reported and skipped.
Reads standard input when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := database.Initialize(); err != nil {
			return err
		}
		defer database.Close()

		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		defaultCategory := ""
		if len(cfg.Catalog.DefaultCategories) > 0 {
			defaultCategory = cfg.Catalog.DefaultCategories[0]
		}
		catalog := store.New(database.Get(), catalogDefaults(cfg))
		report, err := catalogio.Import(context.Background(), catalog, in, defaultCategory)
		if report != nil {
			fmt.Printf("Imported %d item(s)\n", len(report.Imported))
			for _, failed := range report.Failed {
				fmt.Fprintf(os.Stderr, "Skipped %v\n", failed)
			}
		}
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write every content item to a YAML file",
	Long:  `Write the catalog, newest first, in the format accepted by import. Writes to standard output when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := database.Initialize(); err != nil {
			return err
		}
		defer database.Close()

		var out io.Writer = os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		catalog := store.New(database.Get(), catalogDefaults(cfg))
		n, err := catalogio.Export(context.Background(), catalog, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d item(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
}
