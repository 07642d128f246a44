package stockbalance

import "sort"

// applyIndent sets each warehouse's depth counted over the parents
// actually present in the slice, so filtered-out ancestors don't leave
// orphan children indented into the void.
func applyIndent(warehouses []Warehouse) {
	index := make(map[string]int, len(warehouses))
	for i, w := range warehouses {
		index[w.Name] = i
	}
	for i := range warehouses {
		indent := 0
		parent := warehouses[i].Parent
		for parent != "" && indent < len(warehouses) {
			j, ok := index[parent]
			if !ok {
				break
			}
			indent++
			parent = warehouses[j].Parent
		}
		warehouses[i].Indent = indent
	}
}

// rollupBalances folds balances up the tree: deepest nodes first, each
// adding its own balance to its immediate parent, so a group ends up
// with the sum of its whole subtree.
func rollupBalances(warehouses []Warehouse) {
	index := make(map[string]int, len(warehouses))
	order := make([]int, len(warehouses))
	for i, w := range warehouses {
		index[w.Name] = i
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return warehouses[order[a]].Indent > warehouses[order[b]].Indent
	})
	for _, i := range order {
		if warehouses[i].Parent == "" {
			continue
		}
		if j, ok := index[warehouses[i].Parent]; ok {
			warehouses[j].StockBalance += warehouses[i].StockBalance
		}
	}
}
