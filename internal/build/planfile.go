package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"

	"worldgen/internal/transform"
)

// ErrBadPlan reports a plan file that cannot be turned into stages.
var ErrBadPlan = errors.New("build: bad plan")

// Plan is a named stage list, usually decoded from a plan file.
type Plan struct {
	Name   string
	Stages []Stage
}

type planFile struct {
	Name   string      `json:"name"`
	Stages []stageFile `json:"stages"`
}

type stageFile struct {
	Name  string `json:"name"`
	Op    string `json:"op"`
	Final bool   `json:"final"`
	Args  []any  `json:"args"`
}

// DecodePlan reads a JSON plan:
//
//	{"name": "islands", "stages": [
//	  {"name": "Bedrock", "op": "add_layer", "args": [1, 0.0, 0.8, 5000, 0.53]},
//	  {"name": "Ocean", "op": "fill_ocean", "final": true}
//	]}
//
// fill_ocean stages take no arguments in the file; liquids is bound to
// them instead. Every stage is validated before the plan is returned.
func DecodePlan(r io.Reader, liquids transform.LiquidManager) (Plan, error) {
	var pf planFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pf); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrBadPlan, err)
	}
	if len(pf.Stages) == 0 {
		return Plan{}, fmt.Errorf("%w: no stages", ErrBadPlan)
	}
	p := Plan{Name: pf.Name, Stages: make([]Stage, 0, len(pf.Stages))}
	for i, sf := range pf.Stages {
		op, err := ParseOp(sf.Op)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: stage %d: %v", ErrBadPlan, i, err)
		}
		st := Stage{Name: sf.Name, Op: op, Final: sf.Final, Args: sf.Args}
		if st.Name == "" {
			st.Name = op.String()
		}
		if op == OpFillOcean {
			if len(sf.Args) != 0 {
				return Plan{}, fmt.Errorf("%w: stage %d: fill_ocean takes no arguments", ErrBadPlan, i)
			}
			if liquids == nil {
				return Plan{}, fmt.Errorf("%w: stage %d: %v", ErrBadPlan, i, transform.ErrNoLiquids)
			}
			st.Args = []any{liquids}
		}
		if err := st.Validate(); err != nil {
			return Plan{}, fmt.Errorf("%w: stage %d %q: %v", ErrBadPlan, i, st.Name, err)
		}
		p.Stages = append(p.Stages, st)
	}
	return p, nil
}

// LoadPlan decodes the plan file at path.
func LoadPlan(path string, liquids transform.LiquidManager) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, err
	}
	defer f.Close()
	return DecodePlan(f, liquids)
}

// FetchPlan downloads a plan from any go-getter source (local path, http,
// git, s3, ...) into dir and decodes it.
func FetchPlan(ctx context.Context, src, dir string, liquids transform.LiquidManager) (Plan, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return Plan{}, err
	}
	client := &get.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  filepath.Join(dir, "plan.json"),
		Pwd:  pwd,
		Mode: get.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return Plan{}, fmt.Errorf("fetch plan %s: %w", src, err)
	}
	return LoadPlan(client.Dst, liquids)
}
