package crewflow

// legalConnections is the whitelist of (source, target) kind pairs. A crew
// feeds agents and tasks, an agent feeds tasks; nothing flows upward, which
// keeps every drawn graph a three-level DAG.
var legalConnections = map[NodeKind]map[NodeKind]bool{
	KindOrchestrator: {KindWorker: true, KindWorkItem: true},
	KindWorker:       {KindWorkItem: true},
}

// IsLegal reports whether an edge from a source of kind src to a target of
// kind dst may be drawn.
func IsLegal(src, dst NodeKind) bool {
	return legalConnections[src][dst]
}
