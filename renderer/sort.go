// renderer/sort.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"cmp"
	"slices"
)

// sortItems fills order with the indices of items in the order they
// should be submitted under the given mode and returns it. Items are
// reordered through the index slice so that whole quads move together
// without copying vertex data.
func sortItems(items []BatchItem, mode SortMode, order []int32) []int32 {
	order = order[:0]
	for i := range items {
		order = append(order, int32(i))
	}

	switch mode {
	case SortTexture:
		slices.SortStableFunc(order, func(a, b int32) int {
			return cmp.Compare(items[b].TextureID, items[a].TextureID)
		})
	case SortFrontToBack:
		slices.SortStableFunc(order, func(a, b int32) int {
			return cmp.Compare(items[b].Depth, items[a].Depth)
		})
	case SortBackToFront:
		slices.SortStableFunc(order, func(a, b int32) int {
			return cmp.Compare(items[a].Depth, items[b].Depth)
		})
	}
	// SortNone and SortImmediate keep issue order.

	return order
}
