package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var buildingsJSON bool

var buildingsCmd = &cobra.Command{
	Use:   "buildings",
	Short: "List buildings in display order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := buildings.List(cmd.Context())
		if err != nil {
			return err
		}
		if buildingsJSON {
			return printJSON(cmd, list)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tVERTICES")
		for _, b := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", b.ID, b.Name, b.Address, len(b.Boundaries))
		}
		return tw.Flush()
	},
}

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Print one marker per building at its centroid",
	RunE: func(cmd *cobra.Command, _ []string) error {
		markers, err := buildings.Markers(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, markers)
	},
}

func init() {
	buildingsCmd.Flags().BoolVar(&buildingsJSON, "json", false, "print full footprints as JSON")
	rootCmd.AddCommand(buildingsCmd, markersCmd)
}
