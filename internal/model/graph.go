package model

// InternalEdge is a dependency declaration where both endpoints are
// workspace-internal packages: (from_package, to_package, kind, spec).
// External dependencies are represented separately as Unresolved references
// and never appear as an InternalEdge.
type InternalEdge struct {
	From string
	To   string
	Kind DependencyKind
	Spec string
}
