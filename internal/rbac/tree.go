package rbac

import "sort"

// BuildMenuTree converts the flat permission catalog into the navigable
// menu forest for a grant set. Only rows of type menu participate. The
// grant filter is skipped when includeAll is set; that flag is an
// explicit caller decision, the builder itself carries no role policy.
//
// Shape rules:
//   - children attach under their parent ordered by sort_order ascending,
//     ties broken by id ascending, independent of catalog order;
//   - a disabled node hides its entire subtree, enabled descendants
//     included, so no menu entry ever points at a disabled parent;
//   - a node whose parent_id references nothing in the filtered set is
//     clamped to a root instead of silently dropped.
func BuildMenuTree(catalog []Permission, granted map[int64]struct{}, includeAll bool) []*MenuNode {
	nodes := make(map[int64]*MenuNode, len(catalog))
	order := make([]int64, 0, len(catalog))
	for _, p := range catalog {
		if p.Type != TypeMenu {
			continue
		}
		if !includeAll {
			if _, ok := granted[p.ID]; !ok {
				continue
			}
		}
		nodes[p.ID] = &MenuNode{Permission: p}
		order = append(order, p.ID)
	}

	var roots []*MenuNode
	for _, id := range order {
		node := nodes[id]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	roots = pruneDisabled(roots)
	sortForest(roots)
	return roots
}

// FlattenKeys walks a built forest and collects the keys of every node.
func FlattenKeys(nodes []*MenuNode) map[string]struct{} {
	keys := make(map[string]struct{})
	var walk func([]*MenuNode)
	walk = func(level []*MenuNode) {
		for _, n := range level {
			keys[n.Key] = struct{}{}
			walk(n.Children)
		}
	}
	walk(nodes)
	return keys
}

func pruneDisabled(nodes []*MenuNode) []*MenuNode {
	kept := make([]*MenuNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Status != StatusEnabled {
			continue
		}
		n.Children = pruneDisabled(n.Children)
		kept = append(kept, n)
	}
	return kept
}

func sortForest(nodes []*MenuNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].ID < nodes[j].ID
	})
	for _, n := range nodes {
		sortForest(n.Children)
	}
}
