package main

import (
	"github.com/spf13/cobra"
)

var (
	pointFlag string
	fromFlag  string
	toFlag    string
)

var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "Snap a point to its enclosing building's centroid",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := requirePoint("point", pointFlag)
		if err != nil {
			return err
		}
		snapped, ok, err := buildings.Snap(cmd.Context(), p)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any{"point": snapped, "snapped": ok})
	},
}

var enclosingCmd = &cobra.Command{
	Use:   "enclosing",
	Short: "Show the building containing a point",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := requirePoint("point", pointFlag)
		if err != nil {
			return err
		}
		b, err := buildings.Enclosing(cmd.Context(), p)
		if err != nil {
			return err
		}
		if b == nil {
			return printJSON(cmd, map[string]any{"inside": false})
		}
		centroid, _, err := buildings.FindEnclosing(cmd.Context(), p)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any{"inside": true, "building": b.Name, "centroid": centroid})
	},
}

var distanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Great-circle distance between two points",
	Long:  "Prints the haversine distance in km. A missing point gives the 9999 km sentinel.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		from, err := parsePoint(fromFlag)
		if err != nil {
			return err
		}
		to, err := parsePoint(toFlag)
		if err != nil {
			return err
		}
		d := directions.Distance(from, to)
		return printJSON(cmd, map[string]any{"distance_km": d.OrSentinel(), "known": d.Known})
	},
}

var shuttleCmd = &cobra.Command{
	Use:   "shuttle",
	Short: "Check whether the campus shuttle serves a route",
	RunE: func(cmd *cobra.Command, _ []string) error {
		from, err := parsePoint(fromFlag)
		if err != nil {
			return err
		}
		to, err := parsePoint(toFlag)
		if err != nil {
			return err
		}
		ok, err := directions.IsShuttleRouteApplicable(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any{"applicable": ok})
	},
}

func init() {
	for _, c := range []*cobra.Command{snapCmd, enclosingCmd} {
		c.Flags().StringVar(&pointFlag, "point", "", "point as lat,lon")
	}
	for _, c := range []*cobra.Command{distanceCmd, shuttleCmd} {
		c.Flags().StringVar(&fromFlag, "from", "", "origin as lat,lon")
		c.Flags().StringVar(&toFlag, "to", "", "destination as lat,lon")
	}
	rootCmd.AddCommand(snapCmd, enclosingCmd, distanceCmd, shuttleCmd)
}
