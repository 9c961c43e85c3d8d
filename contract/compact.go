// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"slices"
	"sort"
)

// compact removes the elements at the given indices from seq and returns the
// shrunk slice. Indices may arrive unsorted and with duplicates; they are
// sorted ascending and deduplicated first, then each removal subtracts the
// count of already-removed predecessors so it lands on the current position.
// Removed elements are handed to the callback in ascending index order.
func compact[T any](seq []T, indices []int, removed func(T)) []T {
	sorted := slices.Clone(indices)
	sort.Ints(sorted)
	sorted = slices.Compact(sorted)

	for shift, index := range sorted {
		position := index - shift
		if removed != nil {
			removed(seq[position])
		}
		seq = append(seq[:position], seq[position+1:]...)
	}
	return seq
}
