// Package mtimesort orders a host collection by the modification time of each
// item's backing resource.
//
// A Sorter is switched on and off by its host. While it is active it installs a
// comparator that looks times up in an AttributeCache, querying each item at
// most once per session; items whose time cannot be read are ordered by their
// collation key. Deactivation restores the collation order and drops the cache.
package mtimesort
