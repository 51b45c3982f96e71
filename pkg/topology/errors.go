package topology

import "fmt"

// DuplicateRouterError is returned by [Topology.AddRouter] when a router with
// the same ID already exists.
type DuplicateRouterError struct {
	ID string
}

func (e *DuplicateRouterError) Error() string {
	return fmt.Sprintf("duplicate router %q", e.ID)
}

// UnknownEndpointError is returned by [Topology.AddRoute] when either endpoint
// does not name an existing router. Missing holds the offending ID.
type UnknownEndpointError struct {
	Source  string
	Target  string
	Missing string
}

func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("route %s-%s: unknown endpoint %q", e.Source, e.Target, e.Missing)
}

// InvalidEdgeError is returned by [Validate] when an edge references a router
// that is not present in the topology. Missing holds the offending ID.
type InvalidEdgeError struct {
	Source  string
	Target  string
	Missing string
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("invalid edge %s-%s: router %q does not exist", e.Source, e.Target, e.Missing)
}

// UnknownInterfaceError is returned by [Validate] when an edge names an
// interface that is absent from the corresponding router's interface table.
type UnknownInterfaceError struct {
	Router    string
	Interface string
}

func (e *UnknownInterfaceError) Error() string {
	return fmt.Sprintf("interface %q not found on router %q", e.Interface, e.Router)
}

// DuplicateInterfaceNodeError is returned by [Validate] when two declared
// (router, interface) pairs derive the same interface-node identifier. This
// can only happen when router IDs themselves contain the underscore separator.
type DuplicateInterfaceNodeError struct {
	ID string
}

func (e *DuplicateInterfaceNodeError) Error() string {
	return fmt.Sprintf("interface node ID collision: %q derived twice", e.ID)
}
