package order

import (
	"fmt"

	"github.com/shuymn/stateql/internal/core"
	"github.com/shuymn/stateql/internal/diff"
)

// reorderTableCreateBand re-sorts the CreateTable ops within bandTable into
// foreign-key dependency order: a table is created only after every table
// its foreign keys reference. A dependency cycle is broken by stripping
// the offending foreign keys from the cycle's still-unordered tables --
// operating on a cloned *core.Table, never the shared one the caller holds
// -- and deferring each as its own AddForeignKey op in bandAddForeignKey
// (spec.md §4.3). The returned slice may be longer than the input when a
// cycle fires.
func reorderTableCreateBand(ordered []Ordered) []Ordered {
	idx := make([]int, 0)
	byName := make(map[string]int, len(ordered))
	for i, o := range ordered {
		if o.Band == bandTable && o.Op.Kind == diff.OpCreate && o.Op.ObjectKind == core.KindTable {
			idx = append(idx, i)
			byName[o.Op.Name.String()] = len(idx) - 1
		}
	}
	if len(idx) < 2 {
		return ordered
	}

	n := len(idx)
	tables := make([]*core.Table, n)
	for i, pos := range idx {
		t, _ := ordered[pos].Op.New.(*core.Table)
		tables[i] = t
	}

	// edge u -> v: u must be created before v, because v has a foreign
	// key referencing u.
	adj := make([][]int, n)
	indegree := make([]int, n)
	for i, t := range tables {
		if t == nil {
			continue
		}
		for _, fk := range t.ForeignKeys {
			u, ok := byName[fk.ReferencedTable.String()]
			if !ok || u == i {
				continue
			}
			adj[u] = append(adj[u], i)
			indegree[i]++
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	visited := make([]bool, n)
	seq := make([]int, 0, n)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if visited[u] {
			continue
		}
		visited[u] = true
		seq = append(seq, u)
		for _, v := range adj[u] {
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	var deferred []Ordered
	if len(seq) != n {
		remaining := make([]bool, n)
		for i := 0; i < n; i++ {
			if !visited[i] {
				remaining[i] = true
			}
		}
		for i := 0; i < n; i++ {
			if !remaining[i] {
				continue
			}
			t := tables[i]
			if t == nil {
				continue
			}
			var kept []*core.ForeignKey
			for _, fk := range t.ForeignKeys {
				u, ok := byName[fk.ReferencedTable.String()]
				if ok && remaining[u] {
					deferred = append(deferred, Ordered{
						Band: bandAddForeignKey,
						Op: diff.DiffOp{
							Kind: diff.OpAddForeignKey, ObjectKind: core.KindTable, Name: t.Name,
							ForeignKey: fk,
							Detail:     fmt.Sprintf("add foreign key %q (deferred to break a create-order cycle)", fk.Name),
						},
					})
					continue
				}
				kept = append(kept, fk)
			}
			clone := *t
			clone.ForeignKeys = kept
			tables[i] = &clone
			ordered[idx[i]].Op.New = &clone
		}
		for i := 0; i < n; i++ {
			if remaining[i] {
				seq = append(seq, i)
			}
		}
	}

	originals := make([]Ordered, n)
	for i, pos := range idx {
		originals[i] = ordered[pos]
	}
	for slot, origIdx := range seq {
		ordered[idx[slot]] = originals[origIdx]
	}

	if len(deferred) == 0 {
		return ordered
	}
	return append(ordered, deferred...)
}

// reorderTableDropBand re-sorts the DropTable ops within bandDropTable into
// reverse foreign-key dependency order: a table that references another is
// dropped first. A cycle falls back to the ops' declared order -- no
// stripping is needed here, because drop-foreign-key (bandDropForeignKey)
// already runs before drop-table, so no FK constraint is still live by the
// time tables are dropped.
func reorderTableDropBand(ordered []Ordered) {
	idx := make([]int, 0)
	byName := make(map[string]int, len(ordered))
	for i, o := range ordered {
		if o.Band == bandDropTable && o.Op.Kind == diff.OpDrop && o.Op.ObjectKind == core.KindTable {
			idx = append(idx, i)
			byName[o.Op.Name.String()] = len(idx) - 1
		}
	}
	if len(idx) < 2 {
		return
	}

	n := len(idx)
	tables := make([]*core.Table, n)
	for i, pos := range idx {
		t, _ := ordered[pos].Op.Old.(*core.Table)
		tables[i] = t
	}

	// edge u -> v: u (the referencing table) must be dropped before v
	// (the table it references).
	adj := make([][]int, n)
	indegree := make([]int, n)
	for i, t := range tables {
		if t == nil {
			continue
		}
		for _, fk := range t.ForeignKeys {
			v, ok := byName[fk.ReferencedTable.String()]
			if !ok || v == i {
				continue
			}
			adj[i] = append(adj[i], v)
			indegree[v]++
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	visited := make([]bool, n)
	seq := make([]int, 0, n)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if visited[u] {
			continue
		}
		visited[u] = true
		seq = append(seq, u)
		for _, v := range adj[u] {
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(seq) != n {
		return // cycle: keep declared order
	}

	originals := make([]Ordered, n)
	for i, pos := range idx {
		originals[i] = ordered[pos]
	}
	for slot, origIdx := range seq {
		ordered[idx[slot]] = originals[origIdx]
	}
}
