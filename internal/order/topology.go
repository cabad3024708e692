package order

import "github.com/shuymn/stateql/internal/core"

// dependsOn returns the list of objects a view/materialized view
// definition reads from, keyed by qualified name.
func dependsOn(obj core.SchemaObject) []core.QualifiedName {
	switch v := obj.(type) {
	case *core.View:
		return v.DependsOn
	case *core.MaterializedView:
		return v.DependsOn
	default:
		return nil
	}
}

// reorderViewBand re-sorts the contiguous-or-scattered ops within one
// band into dependency order: for a create/alter band, a view is
// scheduled only after everything it reads from; for a drop band
// (reverse=true), a view is dropped only after everything that still
// reads from it. Ops outside the band are left exactly where they are.
//
// A dependency cycle (views that mutually reference each other, which no
// dialect actually allows but which a hand-edited annotation could
// claim) falls back to the ops' existing declared order rather than
// failing the whole build: ordering is a best-effort optimization here,
// not a correctness requirement the way it is for foreign keys.
func reorderViewBand(ordered []Ordered, band int, reverse bool) {
	idx := make([]int, 0)
	byName := make(map[string]int, len(ordered)) // object name -> position in idx
	for i, o := range ordered {
		if o.Band != band {
			continue
		}
		idx = append(idx, i)
		byName[o.Op.Name.String()] = len(idx) - 1
	}
	if len(idx) < 2 {
		return
	}

	n := len(idx)
	adj := make([][]int, n) // edge u -> v means u must come before v

	for i, pos := range idx {
		op := ordered[pos].Op
		obj := op.New
		if obj == nil {
			obj = op.Old
		}
		for _, dep := range dependsOn(obj) {
			j, ok := byName[dep.String()]
			if !ok || j == i {
				continue
			}
			if reverse {
				adj[i] = append(adj[i], j) // this view before the thing it depends on, when dropping
			} else {
				adj[j] = append(adj[j], i) // the dependency before this view, when creating
			}
		}
	}

	indegree := make([]int, n)
	for u := range adj {
		for _, v := range adj[u] {
			indegree[v]++
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	visited := make([]bool, n)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if visited[u] {
			continue
		}
		visited[u] = true
		order = append(order, u)
		for _, v := range adj[u] {
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(order) != n {
		// Cycle detected: keep declared order.
		return
	}

	originals := make([]Ordered, n)
	for i, pos := range idx {
		originals[i] = ordered[pos]
	}
	for slot, origIdx := range order {
		ordered[idx[slot]] = originals[origIdx]
	}
}
