package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	mtimesort "github.com/krisalay/mtime-sort"
	"github.com/krisalay/mtime-sort/api"
	"github.com/krisalay/mtime-sort/engine"
	"github.com/krisalay/mtime-sort/memsource"
)

var (
	_ api.Activatable    = (*mtimesort.Sorter)(nil)
	_ api.AttributeCache = (*mtimesort.AttributeCache)(nil)
)

func TestSorterThroughInterface(t *testing.T) {
	var ext api.Activatable = mtimesort.NewSorter(memsource.New(0), mtimesort.Options{})

	// The host only ever sees the interface.
	ext.Deactivate()
	assert.NotNil(t, ext)
}

func TestCacheThroughInterface(t *testing.T) {
	var c api.AttributeCache = mtimesort.NewAttributeCache(2, engine.NewEngine(memsource.New(0), 0, nil, nil))
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
