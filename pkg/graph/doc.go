// Package graph implements the flat interchange format for BGP topologies.
//
// The format is a JSON document with two collections:
//
//	{
//	  "nodes": [
//	    {"data": {"id": "R1", "label": "R1 (1.1.1.0/24)", "as": 100,
//	              "interfaces": {"Gi0/0": "10.12.12.1/24"}},
//	     "position": {"x": 200, "y": 200}}
//	  ],
//	  "edges": [
//	    {"data": {"id": "R1-R2", "source": "R1", "target": "R2",
//	              "weight": "10.12.12.0/24",
//	              "source_ip": "10.12.12.1/24", "dest_ip": "10.12.12.2/24",
//	              "sourceInterface": "Gi0/0", "targetInterface": "Gi0/0"}}
//	  ]
//	}
//
// Positions and the interfaces table are optional; "position" may be null or
// carry null coordinates for nodes that have never been laid out.
//
// Import decodes a document into a [topology.Topology] plus any known
// positions, and rejects documents whose nodes or edges collections are
// missing with a *MalformedTopologyError. Importers must still run
// topology.Validate before expanding: the wire format cannot express every
// integrity constraint.
//
// Export is the direct serialization of a topology snapshot plus positions.
// Nodes and edges are written in model order so export → import round-trips
// reproduce the same router and edge sets.
package graph
