package git

import (
	"cmp"
	"slices"
)

// CompareBranches orders local branches before remote ones, then by name.
func CompareBranches(a, b *Branch) int {
	if c := cmp.Compare(a.kind.Ordinal(), b.kind.Ordinal()); c != 0 {
		return c
	}
	return cmp.Compare(a.name, b.name)
}

// SortBranches sorts in place, keeping the relative order of equal branches.
func SortBranches(branches []*Branch) {
	slices.SortStableFunc(branches, CompareBranches)
}
