// Package ordering holds the comparators a sorter installs on a collection.
package ordering

import "github.com/krisalay/mtime-sort/types"

// Policy is a named three-way comparator.
type Policy interface {
	Name() string
	Compare(a, b types.Item) int
}

// ComparatorOf adapts a policy to the function type collections accept.
func ComparatorOf(p Policy) types.Comparator {
	return p.Compare
}
