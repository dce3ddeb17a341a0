package crewflow

import "strconv"

// Rewire computes the edge set left after the nodes in removed are deleted.
//
// Edges touching a removed node are dropped. Every node that pointed into the
// removed set from outside is then bridged to every node the removed set
// pointed out to, so reachability that only existed through the deleted nodes
// survives. The whole batch is computed from the one pre-deletion edge set.
//
// Bridges are not checked against IsLegal: they restore connectivity the
// user already had. A bridge whose pair is already present is skipped, as
// is a self-loop.
func Rewire(edges []Edge, removed map[string]struct{}) []Edge {
	isRemoved := func(id string) bool {
		_, ok := removed[id]
		return ok
	}

	var (
		remaining []Edge
		incomers  []string
		outgoers  []string
		seenIn    = make(map[string]bool)
		seenOut   = make(map[string]bool)
	)
	for _, e := range edges {
		src, dst := isRemoved(e.Source), isRemoved(e.Target)
		switch {
		case !src && !dst:
			remaining = append(remaining, e)
		case !src && dst:
			if !seenIn[e.Source] {
				seenIn[e.Source] = true
				incomers = append(incomers, e.Source)
			}
		case src && !dst:
			if !seenOut[e.Target] {
				seenOut[e.Target] = true
				outgoers = append(outgoers, e.Target)
			}
		}
	}

	pairs := make(map[edgeKey]bool, len(remaining))
	ids := make(map[string]bool, len(remaining))
	for _, e := range remaining {
		pairs[e.key()] = true
		ids[e.ID] = true
	}

	out := remaining
	for _, in := range incomers {
		for _, o := range outgoers {
			k := edgeKey{in, o}
			if in == o || pairs[k] {
				continue
			}
			pairs[k] = true
			id := uniqueEdgeID(EdgeID(in, o), ids)
			ids[id] = true
			out = append(out, Edge{ID: id, Source: in, Target: o})
		}
	}
	if out == nil {
		out = []Edge{}
	}
	return out
}

// uniqueEdgeID returns base, or base with a numeric suffix if an edge with a
// different pair was already given that id.
func uniqueEdgeID(base string, taken map[string]bool) string {
	id := base
	for n := 2; taken[id]; n++ {
		id = base + "#" + strconv.Itoa(n)
	}
	return id
}
