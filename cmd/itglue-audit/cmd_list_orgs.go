/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listOrgsUsage = strings.TrimSpace(`
Discover organizations (adding new ones to the progress cache) and print them with their
processed flag.  No browser is started.  With --cached, only the saved cache is printed.
`)

var Cached bool

var listOrgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "Print organizations and audit progress",
	Long:  listOrgsUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		settings, err := currentSettings()
		if err != nil {
			return err
		}

		a, err := openApp(ctx, settings, Logger)
		if err != nil {
			return err
		}
		defer a.close()

		catalog := a.catalog()
		if Cached {
			err = catalog.Load(ctx)
		} else {
			err = catalog.Discover(ctx)
		}
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}

		total, processed := catalog.Counts()
		fmt.Printf("organizations: # %d total, %d processed\n", total, processed)
		for _, id := range catalog.IDs() {
			entry, _ := catalog.Get(id)
			mark := " "
			if entry.Processed {
				mark = "x"
			}
			fmt.Printf("  - [%s] %s: %s\n", mark, id, entry.Name)
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listOrgsCmd)

	listOrgsCmd.Flags().BoolVar(&Cached, "cached", false, "print the saved cache without asking the API")
}
