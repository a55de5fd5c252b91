package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/arvandi/propflow/engine"
)

// Environment variable names read by Load.
const (
	envDefaultPlanner         = "PROPFLOW_DEFAULT_PLANNER"
	envForwardEmergingSources = "PROPFLOW_FORWARD_EMERGING_SOURCES"
)

// plannerNames maps the PROPFLOW_DEFAULT_PLANNER value to an engine.PlannerType.
// QuickPlanner is the only implementation, but the map keeps Load forward
// compatible with a second planner without changing its contract.
var plannerNames = map[string]engine.PlannerType{
	"":          engine.QuickPlanner,
	"quickplan": engine.QuickPlanner,
}

// Load reads path as a .env-style file via godotenv into the process
// environment, then resolves it into engine.Options applied as functional
// options. A missing file is not an error — Load falls back to whatever is
// already in the process environment (matching cmd/agsh's `_ =
// godotenv.Load(".env")` convention of tolerating an absent .env).
//
// Recognized variables:
//
//	PROPFLOW_DEFAULT_PLANNER            "quickplan" (default, only value today)
//	PROPFLOW_FORWARD_EMERGING_SOURCES   "true"/"false" (default false)
func Load(path string) ([]engine.Option, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	var opts []engine.Option

	plannerName := os.Getenv(envDefaultPlanner)
	t, ok := plannerNames[plannerName]
	if !ok {
		return nil, fmt.Errorf("config: unknown %s value %q", envDefaultPlanner, plannerName)
	}
	opts = append(opts, engine.WithDefaultPlannerType(t))

	if raw := os.Getenv(envForwardEmergingSources); raw != "" {
		forward, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", envForwardEmergingSources, err)
		}
		opts = append(opts, engine.WithForwardEmergingSources(forward))
	}

	return opts, nil
}
