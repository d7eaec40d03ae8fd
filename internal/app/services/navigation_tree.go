package services

import (
	"sort"

	"github.com/yigit/judgeadmin/internal/app/models"
)

// RebuildTree recomputes the parent links and nested-set fields of a whole navigation
// table. Parents that are missing or that close a cycle are cut, making the node a root.
// Siblings are ordered by (Order, ID); every root starts a new tree numbered from 1.
// It returns the nodes in tree order and the subset whose stored fields changed.
func RebuildTree(nodes []*models.NavigationBar) (ordered, changed []*models.NavigationBar) {
	type snapshot struct {
		parent                   int64
		lft, rght, level, treeID int
	}
	parentOf := func(n *models.NavigationBar) int64 {
		if n.ParentID == nil {
			return 0
		}
		return *n.ParentID
	}

	byID := make(map[int64]*models.NavigationBar, len(nodes))
	before := make(map[int64]snapshot, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
		before[n.ID] = snapshot{parentOf(n), n.Lft, n.Rght, n.Level, n.TreeID}
	}

	sorted := append([]*models.NavigationBar(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, n := range sorted {
		if n.ParentID != nil {
			if _, ok := byID[*n.ParentID]; !ok {
				n.ParentID = nil
			}
		}
	}

	const (
		unseen = iota
		onPath
		done
	)
	state := make(map[int64]int, len(nodes))
	for _, n := range sorted {
		var path []*models.NavigationBar
		cur := n
		for cur != nil && state[cur.ID] == unseen {
			state[cur.ID] = onPath
			path = append(path, cur)
			if cur.ParentID == nil {
				cur = nil
			} else {
				cur = byID[*cur.ParentID]
			}
		}
		if cur != nil && state[cur.ID] == onPath {
			path[len(path)-1].ParentID = nil
		}
		for _, p := range path {
			state[p.ID] = done
		}
	}

	children := make(map[int64][]*models.NavigationBar, len(nodes))
	var roots []*models.NavigationBar
	for _, n := range sorted {
		if n.ParentID == nil {
			roots = append(roots, n)
		} else {
			children[*n.ParentID] = append(children[*n.ParentID], n)
		}
	}
	bySiblingOrder := func(list []*models.NavigationBar) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Order != list[j].Order {
				return list[i].Order < list[j].Order
			}
			return list[i].ID < list[j].ID
		})
	}
	bySiblingOrder(roots)

	ordered = make([]*models.NavigationBar, 0, len(nodes))
	var walk func(n *models.NavigationBar, treeID, level int, counter *int)
	walk = func(n *models.NavigationBar, treeID, level int, counter *int) {
		n.TreeID = treeID
		n.Level = level
		n.Lft = *counter
		*counter++
		ordered = append(ordered, n)
		kids := children[n.ID]
		bySiblingOrder(kids)
		for _, child := range kids {
			walk(child, treeID, level+1, counter)
		}
		n.Rght = *counter
		*counter++
	}
	for i, root := range roots {
		counter := 1
		walk(root, i+1, 0, &counter)
	}

	for _, n := range ordered {
		if before[n.ID] != (snapshot{parentOf(n), n.Lft, n.Rght, n.Level, n.TreeID}) {
			changed = append(changed, n)
		}
	}
	return ordered, changed
}
