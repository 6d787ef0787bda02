package propagate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eugenenazirov/edgeconf/internal/document"
	"github.com/eugenenazirov/edgeconf/internal/endpoint"
)

// Source selects which operator-supplied address an assignment uses.
type Source int

const (
	// NodeIP is the address of the edge node being configured.
	NodeIP Source = iota
	// ControllerIP is the shared controller/orchestrator address.
	ControllerIP
)

func (s Source) String() string {
	switch s {
	case NodeIP:
		return "node"
	case ControllerIP:
		return "controller"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Inputs carries the addresses entered by the operator. Values are used
// verbatim; nothing is validated or normalised.
type Inputs struct {
	NodeIP       string
	ControllerIP string
}

func (in Inputs) host(s Source) string {
	if s == NodeIP {
		return in.NodeIP
	}
	return in.ControllerIP
}

// Assignment binds one key-path to the value derived from an input address.
// An empty Role stores the bare address instead of an endpoint URL.
type Assignment struct {
	Path   []string
	Role   endpoint.Role
	Source Source
}

// Key returns the dotted key-path.
func (a Assignment) Key() string {
	return document.KeyPath(a.Path)
}

// Value derives the string written at the key-path.
func (a Assignment) Value(in Inputs) (string, error) {
	host := in.host(a.Source)
	if a.Role == "" {
		return host, nil
	}
	return endpoint.For(a.Role, host)
}

// Target describes one configuration file and the keys rewritten in it.
type Target struct {
	Name        string
	Path        string
	Format      document.Format
	Assignments []Assignment
}

// Layout locates the target files on disk.
type Layout struct {
	Root          string
	EdgelessDir   string
	Variant       string
	LatencyConfig string
}

const (
	VariantDebug   = "debug"
	VariantRelease = "release"
)

type descriptor struct {
	name        string
	file        string
	latency     bool
	assignments []Assignment
}

func key(path string) []string {
	return strings.Split(path, ".")
}

var descriptors = []descriptor{
	{
		name: "controller",
		file: "controller.toml",
		assignments: []Assignment{
			{Path: key("controller_url"), Role: endpoint.Controller, Source: ControllerIP},
			{Path: key("domain_register_url"), Role: endpoint.DomainRegister, Source: ControllerIP},
		},
	},
	{
		name: "orchestrator",
		file: "orchestrator.toml",
		assignments: []Assignment{
			{Path: key("general.domain_register_url"), Role: endpoint.DomainRegister, Source: ControllerIP},
			{Path: key("general.orchestrator_url"), Role: endpoint.Orchestrator, Source: ControllerIP},
			{Path: key("general.node_register_url"), Role: endpoint.NodeRegister, Source: ControllerIP},
			{Path: key("proxy.redis_url"), Role: endpoint.Redis, Source: ControllerIP},
		},
	},
	{
		name: "node",
		file: "node.toml",
		assignments: []Assignment{
			{Path: key("general.agent_url"), Role: endpoint.Agent, Source: NodeIP},
			{Path: key("general.invocation_url"), Role: endpoint.Invocation, Source: NodeIP},
			{Path: key("general.node_register_url"), Role: endpoint.NodeRegister, Source: ControllerIP},
			{Path: key("telemetry.metrics_url"), Role: endpoint.Metrics, Source: ControllerIP},
		},
	},
	{
		name: "cli",
		file: "cli.toml",
		assignments: []Assignment{
			{Path: key("controller_url"), Role: endpoint.Controller, Source: ControllerIP},
		},
	},
	{
		// Both fields take the controller address: the orchestrator host also
		// runs the Redis instance the latency probes publish to.
		name:    "latency",
		latency: true,
		assignments: []Assignment{
			{Path: key("orchestrator_ip"), Source: ControllerIP},
			{Path: key("redis_server_ip_address"), Source: ControllerIP},
		},
	},
}

// Targets resolves the fixed target table against layout. The order is the
// order in which the files are processed. A path with an unsupported extension
// gets an empty Format; applying that target reports the error.
func Targets(layout Layout) []Target {
	buildDir := filepath.Join(layout.Root, layout.EdgelessDir, "target", layout.Variant)

	targets := make([]Target, 0, len(descriptors))
	for _, d := range descriptors {
		path := filepath.Join(buildDir, d.file)
		if d.latency {
			path = layout.LatencyConfig
			if !filepath.IsAbs(path) {
				path = filepath.Join(layout.Root, path)
			}
		}
		format, _ := document.FormatOf(path)

		assignments := make([]Assignment, len(d.assignments))
		copy(assignments, d.assignments)

		targets = append(targets, Target{
			Name:        d.name,
			Path:        path,
			Format:      format,
			Assignments: assignments,
		})
	}
	return targets
}
