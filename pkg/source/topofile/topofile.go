// Package topofile loads topology definitions from TOML files.
//
// A definition file declares routers (with optional interfaces and device
// information) and the links between them:
//
//	[[routers]]
//	id = "R1"
//	as = 100
//	info = "IOS 15.2, uptime 4d"
//
//	  [[routers.interfaces]]
//	  name = "Gi0/0"
//	  address = "10.12.12.1/24"
//
//	[[links]]
//	source = "R1"
//	target = "R2"
//	network = "10.12.12.0/24"
//	source_ip = "10.12.12.1/24"
//	target_ip = "10.12.12.2/24"
//	source_interface = "Gi0/0"
//	target_interface = "Gi0/0"
//	bidirectional = true
//
// A bidirectional link emits two route edges, one per direction, with the
// endpoint attributes swapped. Fields are validated before anything is added
// to the topology, so a bad file fails as a whole.
package topofile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	bgperrors "github.com/routeviz/bgpmap/pkg/errors"
	"github.com/routeviz/bgpmap/pkg/topology"
)

type definition struct {
	Title   string   `toml:"title"`
	Routers []router `toml:"routers"`
	Links   []link   `toml:"links"`
}

type router struct {
	ID         string  `toml:"id"`
	Label      string  `toml:"label"`
	AS         int     `toml:"as"`
	Info       string  `toml:"info"`
	Interfaces []iface `toml:"interfaces"`
}

type iface struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
}

type link struct {
	Source          string `toml:"source"`
	Target          string `toml:"target"`
	Network         string `toml:"network"`
	SourceIP        string `toml:"source_ip"`
	TargetIP        string `toml:"target_ip"`
	SourceInterface string `toml:"source_interface"`
	TargetInterface string `toml:"target_interface"`
	Bidirectional   bool   `toml:"bidirectional"`
}

// Load reads a TOML topology definition from a file.
func Load(path string) (*topology.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology definition: %w", err)
	}
	return Parse(data)
}

// Parse builds a topology from TOML definition bytes.
func Parse(data []byte) (*topology.Topology, error) {
	var def definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return nil, bgperrors.Wrap(bgperrors.ErrCodeMalformedTopology, err, "parse topology definition")
	}
	if len(def.Routers) == 0 {
		return nil, bgperrors.New(bgperrors.ErrCodeMalformedTopology, "topology definition declares no routers")
	}

	t := topology.New()
	for _, r := range def.Routers {
		if err := bgperrors.ValidateRouterID(r.ID); err != nil {
			return nil, err
		}
		if err := bgperrors.ValidateASNumber(r.AS); err != nil {
			return nil, bgperrors.New(bgperrors.ErrCodeInvalidInput, "router %s: invalid AS number %d", r.ID, r.AS)
		}

		ifaces := make([]topology.Interface, 0, len(r.Interfaces))
		for _, in := range r.Interfaces {
			if err := bgperrors.ValidateInterfaceName(in.Name); err != nil {
				return nil, bgperrors.New(bgperrors.ErrCodeInvalidInterface,
					"router %s: invalid interface name %q", r.ID, in.Name)
			}
			if err := bgperrors.ValidateCIDR(in.Address); err != nil {
				return nil, bgperrors.New(bgperrors.ErrCodeInvalidInterface,
					"router %s interface %s: invalid address %q", r.ID, in.Name, in.Address)
			}
			ifaces = append(ifaces, topology.Interface{Name: in.Name, CIDR: in.Address})
		}

		if err := t.AddRouter(r.ID, r.Label, r.AS, ifaces); err != nil {
			return nil, bgperrors.Wrap(bgperrors.ErrCodeInvalidRouter, err, "add router %s", r.ID)
		}
		if r.Info != "" {
			t.SetInfo(r.ID, r.Info)
		}
	}

	for _, l := range def.Links {
		err := t.AddRoute(l.Source, l.Target, topology.RouteAttrs{
			Weight:          l.Network,
			SourceIP:        l.SourceIP,
			DestIP:          l.TargetIP,
			SourceInterface: l.SourceInterface,
			TargetInterface: l.TargetInterface,
		})
		if err != nil {
			return nil, bgperrors.Wrap(bgperrors.ErrCodeInvalidEdge, err, "add link %s -> %s", l.Source, l.Target)
		}
		if l.Bidirectional {
			err := t.AddRoute(l.Target, l.Source, topology.RouteAttrs{
				Weight:          l.Network,
				SourceIP:        l.TargetIP,
				DestIP:          l.SourceIP,
				SourceInterface: l.TargetInterface,
				TargetInterface: l.SourceInterface,
			})
			if err != nil {
				return nil, bgperrors.Wrap(bgperrors.ErrCodeInvalidEdge, err, "add link %s -> %s", l.Target, l.Source)
			}
		}
	}

	if err := topology.Validate(t); err != nil {
		return nil, bgperrors.Wrap(bgperrors.ErrCodeInvalidTopology, err, "validate topology definition")
	}
	return t, nil
}
