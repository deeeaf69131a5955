// Fuzzy node lookup by name, for the observer API and the probe CLI.
package sim

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// FindByName returns the node in root's subtree whose name best matches
// query. Substring matches win outright; otherwise the closest name within
// the edit-distance limit is returned.
func FindByName(root *Node, query string) (*Node, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}

	var best *Node
	bestDist := -1

	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		name := strings.ToLower(n.Name)
		if strings.Contains(name, q) {
			best = n
			return true
		}
		if dist := levenshtein.ComputeDistance(q, name); dist <= distanceLimit(len(q)) {
			if bestDist < 0 || dist < bestDist {
				best = n
				bestDist = dist
			}
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return best, best != nil
}

// distanceLimit scales the tolerated edit distance with query length, so
// short queries stay strict.
func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
