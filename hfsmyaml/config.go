// Package hfsmyaml loads an hfsm.Topology from a YAML tree description, for
// callers who prefer a data-driven definition over the fluent hfsm.Builder
// API. The core hfsm package never imports this package: it is an optional,
// additive adapter over data-only config structs.
//
// YAML can only describe the tree's shape (names, kind, strategy, nesting),
// never Go behavior, so leaf/region State values and Mixins are resolved by
// name out of caller-supplied registries rather than unmarshaled directly —
// a "ref: either a string ID or a func" indirection for entry/exit behavior.
package hfsmyaml

import (
	"fmt"

	"github.com/sceneforge/hfsm"
	"gopkg.in/yaml.v3"
)

// NodeConfig is the YAML-shaped description of one tree element.
type NodeConfig struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"` // "leaf", "composite", "orthogonal"
	State    string       `yaml:"state,omitempty"`
	Mixins   []string     `yaml:"mixins,omitempty"`
	Strategy string       `yaml:"strategy,omitempty"` // composite only: "restart", "resumable", "utilitarian", "randomutil"
	Children []NodeConfig `yaml:"children,omitempty"`
}

// TreeConfig is the top-level YAML document: a single root node plus the
// task-pool capacity override.
type TreeConfig struct {
	TaskCapacity int        `yaml:"taskCapacity,omitempty"`
	Root         NodeConfig `yaml:"root"`
}

// Registry resolves the named State/Mixin values a NodeConfig references.
// Callers populate one with the concrete Go values their states need before
// calling Load. A node without a "state" key looks up its own name, and a
// missing entry resolves to a nil State (no behavior of its own), for leaves
// and regions alike; a "state" or "mixins" name that is not present is a
// Load error.
type Registry struct {
	States map[string]hfsm.State
	Mixins map[string]hfsm.Mixin
}

// Load parses data as a TreeConfig and builds the described Topology,
// resolving state/mixin names against reg.
func Load(data []byte, reg Registry) (*hfsm.Topology, error) {
	var cfg TreeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("hfsmyaml: parse: %w", err)
	}
	spec, err := toSpec(cfg.Root, reg)
	if err != nil {
		return nil, err
	}
	var opts []hfsm.BuildOption
	if cfg.TaskCapacity > 0 {
		opts = append(opts, hfsm.WithTaskCapacity(cfg.TaskCapacity))
	}
	return hfsm.Build(spec, opts...)
}

func toSpec(n NodeConfig, reg Registry) (*hfsm.NodeSpec, error) {
	state := reg.States[n.Name]
	if n.State != "" {
		s, ok := reg.States[n.State]
		if !ok {
			return nil, fmt.Errorf("hfsmyaml: node %q references unknown state %q", n.Name, n.State)
		}
		state = s
	}

	var mixins []hfsm.Mixin
	for _, name := range n.Mixins {
		m, ok := reg.Mixins[name]
		if !ok {
			return nil, fmt.Errorf("hfsmyaml: node %q references unknown mixin %q", n.Name, name)
		}
		mixins = append(mixins, m)
	}

	switch n.Kind {
	case "leaf":
		if len(n.Children) != 0 {
			return nil, fmt.Errorf("hfsmyaml: leaf %q must not declare children", n.Name)
		}
		return hfsm.Leaf(n.Name, state, mixins...), nil
	case "orthogonal":
		children, err := toSpecChildren(n.Children, reg)
		if err != nil {
			return nil, err
		}
		return hfsm.Orthogonal(n.Name, state, children...).WithMixins(mixins...), nil
	case "composite", "":
		strategy, err := strategyFromName(n.Strategy)
		if err != nil {
			return nil, fmt.Errorf("hfsmyaml: node %q: %w", n.Name, err)
		}
		children, err := toSpecChildren(n.Children, reg)
		if err != nil {
			return nil, err
		}
		return hfsm.Composite(n.Name, state, strategy, children...).WithMixins(mixins...), nil
	default:
		return nil, fmt.Errorf("hfsmyaml: node %q has unknown kind %q", n.Name, n.Kind)
	}
}

func toSpecChildren(cfgs []NodeConfig, reg Registry) ([]*hfsm.NodeSpec, error) {
	children := make([]*hfsm.NodeSpec, 0, len(cfgs))
	for _, c := range cfgs {
		child, err := toSpec(c, reg)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func strategyFromName(name string) (hfsm.Strategy, error) {
	switch name {
	case "", "restart":
		return hfsm.RestartStrategy{}, nil
	case "resumable":
		return hfsm.ResumableStrategy{}, nil
	case "utilitarian":
		return hfsm.UtilitarianStrategy{}, nil
	case "randomutil":
		return hfsm.RandomUtilStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
