package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/campusnav/internal/app"
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
)

var (
	cfg        *config.Config
	backends   app.Backends
	buildings  *usecases.BuildingService
	directions *usecases.DirectionsService
)

var rootCmd = &cobra.Command{
	Use:   "campusctl",
	Short: "Query campus buildings and shuttle geometry",
	Long:  "Inspects the configured building store: lists footprints and markers, snaps points, checks shuttle applicability and exports distance matrices.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load("campusctl")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logging.Setup(cfg.Log.Level, "text", "")

		store, err := backends.BuildingStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		buildings = usecases.NewBuildingService(store, nil)
		directions = usecases.NewDirectionsService(buildings)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		backends.Close()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePoint parses "lat,lon". An empty string is a nil point.
func parsePoint(s string) (*domain.Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("point %q must be lat,lon", s)
	}
	p := domain.Coordinate{}
	var err error
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return nil, fmt.Errorf("latitude %q: %w", lat, err)
	}
	if p.Lon, err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
		return nil, fmt.Errorf("longitude %q: %w", lon, err)
	}
	if err := usecases.ValidateCoordinate(p); err != nil {
		return nil, err
	}
	return &p, nil
}

// requirePoint is parsePoint for mandatory points.
func requirePoint(name, s string) (domain.Coordinate, error) {
	p, err := parsePoint(s)
	if err != nil {
		return domain.Coordinate{}, err
	}
	if p == nil {
		return domain.Coordinate{}, fmt.Errorf("--%s is required", name)
	}
	return *p, nil
}
