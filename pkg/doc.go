// Package pkg provides the core libraries for bgpmap topology visualization.
//
// # Overview
//
// bgpmap turns BGP router and route definitions into interactive network
// diagrams: routers grouped into autonomous-system containers, interfaces
// drawn as satellite nodes, and route edges labeled with their networks.
// The pkg directory is organized into these areas:
//
//  1. [topology] - Domain model (routers, routes, validation, expansion)
//  2. [layout] - Deterministic force-directed positioning
//  3. [render] - DOT/SVG/PNG generation and pointer interaction
//  4. [pipeline] - Orchestration (parse → validate → expand → layout → render)
//  5. [graph] - JSON interchange serialization
//  6. [cache], [session], [metrics], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through bgpmap:
//
//	TOML definition / JSON interchange
//	         ↓
//	topology.Topology  (validate, expand interfaces)
//	         ↓
//	layout.Engine      (seeded force simulation, AS containers)
//	         ↓
//	render             (DOT → graphviz SVG/PNG, pointer events)
//
// The pipeline package ties the stages together with content-addressed
// caching, and internal/server exposes the same pipeline over HTTP.
package pkg
