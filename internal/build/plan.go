package build

import (
	"sort"

	"worldgen/internal/transform"
)

// Tile types used by the built-in plans.
const (
	TileBedrock = 1
	TileSoil    = 2
)

// PlanOptions carries collaborators a plan may bind into its stages.
type PlanOptions struct {
	Liquids transform.LiquidManager
}

// PlanFactory produces the stages of a named build plan.
type PlanFactory func(opts PlanOptions) []Stage

var plans = map[string]PlanFactory{}

// RegisterPlan adds a plan factory under the provided name.
func RegisterPlan(name string, f PlanFactory) {
	if name == "" || f == nil {
		return
	}
	plans[name] = f
}

// Plans exposes the registry of available plan factories.
func Plans() map[string]PlanFactory {
	return plans
}

// PlanNames lists registered plans in sorted order.
func PlanNames() []string {
	names := make([]string, 0, len(plans))
	for n := range plans {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func classicLayers() []Stage {
	return []Stage{
		AddLayer(TileBedrock, 0.0, 0.8, 5000.0, 0.53).Named("Bedrock"),
		CompositeLayer(TileSoil, 0.4, 0.2, 5000.0, 0.35).Named("Soil"),
	}
}

func init() {
	RegisterPlan("classic", func(PlanOptions) []Stage {
		stages := classicLayers()
		stages[len(stages)-1] = stages[len(stages)-1].AsFinal()
		return stages
	})
	RegisterPlan("default", func(opts PlanOptions) []Stage {
		stages := append(classicLayers(), Average(1).Named("Smooth"))
		if opts.Liquids != nil {
			stages = append(stages, FillOcean(opts.Liquids).Named("Ocean"))
		}
		stages[len(stages)-1] = stages[len(stages)-1].AsFinal()
		return stages
	})
}
