package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samirrijal/campusnav/internal/adapters/xlsx"
)

var exportOut string

var exportDistancesCmd = &cobra.Command{
	Use:   "export-distances",
	Short: "Write a building-to-building distance matrix workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := buildings.List(cmd.Context())
		if err != nil {
			return err
		}
		if err := xlsx.WriteFile(exportOut, list); err != nil {
			return fmt.Errorf("export distances: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d buildings to %s\n", len(list), exportOut)
		return nil
	},
}

func init() {
	exportDistancesCmd.Flags().StringVar(&exportOut, "out", "distances.xlsx", "output .xlsx path")
	rootCmd.AddCommand(exportDistancesCmd)
}
