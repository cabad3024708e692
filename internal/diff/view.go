package diff

import (
	"sort"

	"github.com/shuymn/stateql/internal/core"
)

// viewNode is a uniform view over core.View and core.MaterializedView so the
// dependent-rebuild closure can treat both identically.
type viewNode struct {
	kind      core.ObjectKind
	name      core.QualifiedName
	obj       core.SchemaObject
	dependsOn []core.QualifiedName
}

func viewNodesOf(objs []core.SchemaObject) map[string]viewNode {
	out := make(map[string]viewNode, len(objs))
	for _, o := range objs {
		switch v := o.(type) {
		case *core.View:
			out[v.Name.String()] = viewNode{kind: core.KindView, name: v.Name, obj: v, dependsOn: v.DependsOn}
		case *core.MaterializedView:
			out[v.Name.String()] = viewNode{kind: core.KindMaterializedView, name: v.Name, obj: v, dependsOn: v.DependsOn}
		}
	}
	return out
}

// diffViewLike compares the combined view/materialized-view graphs of
// current and desired. The engine never emits AlterView/AlterMaterializedView
// (spec.md §4.2): a changed view produces a DropView+CreateView pair, and
// every current dependent -- transitively, even when its own text is
// unchanged -- is forced through the same pair so the rebuild is consistent.
// internal/order resolves the actual topological position of every op this
// returns; diffViewLike only has to decide WHICH names must rebuild.
func diffViewLike(current, desired *core.ObjectSet, opts Options) []DiffOp {
	curNodes := viewNodesOf(current.Objects)
	desNodes := viewNodesOf(desired.Objects)

	// dependents[x] = view names (in current) whose body reads from x.
	dependents := make(map[string][]string, len(curNodes))
	for name, n := range curNodes {
		for _, dep := range n.dependsOn {
			depName := dep.String()
			dependents[depName] = append(dependents[depName], name)
		}
	}

	changed := make(map[string]bool)
	for name, cn := range curNodes {
		dn, ok := desNodes[name]
		if !ok {
			continue // handled by the plain-drop case below
		}
		if cn.kind != dn.kind || !opts.Equivalence.Equal(cn.obj, dn.obj) {
			changed[name] = true
		}
	}

	// rebuild is the transitive closure of changed bases plus every
	// current dependent (recursively) that still exists in desired.
	rebuild := make(map[string]bool, len(changed))
	var visit func(string)
	visit = func(name string) {
		if rebuild[name] {
			return
		}
		rebuild[name] = true
		for _, dep := range dependents[name] {
			if _, stillExists := desNodes[dep]; stillExists {
				visit(dep)
			}
		}
	}
	for name := range changed {
		visit(name)
	}

	names := make(map[string]bool, len(curNodes)+len(desNodes))
	for name := range curNodes {
		names[name] = true
	}
	for name := range desNodes {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var ops []DiffOp
	for _, name := range sorted {
		cn, inCurrent := curNodes[name]
		dn, inDesired := desNodes[name]

		switch {
		case inCurrent && inDesired && rebuild[name]:
			detail := "definition changed"
			if !changed[name] {
				detail = "rebuilt: a view it depends on changed"
			}
			ops = append(ops, DiffOp{Kind: OpDrop, ObjectKind: cn.kind, Name: cn.name, Old: cn.obj,
				Detail: "dropped ahead of a dependency rebuild"})
			ops = append(ops, DiffOp{Kind: OpCreate, ObjectKind: dn.kind, Name: dn.name, New: dn.obj, Detail: detail})
		case inCurrent && inDesired:
			// unchanged and untouched by any rebuild: no op.
		case inCurrent:
			ops = append(ops, DiffOp{Kind: OpDrop, ObjectKind: cn.kind, Name: cn.name, Old: cn.obj})
		case inDesired:
			ops = append(ops, DiffOp{Kind: OpCreate, ObjectKind: dn.kind, Name: dn.name, New: dn.obj})
		}
	}

	return ops
}
