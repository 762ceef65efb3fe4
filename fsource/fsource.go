// Package fsource serves files from disk as sortable items.
//
// Each file gets a random identity when it is created, a collation key computed
// once from its base name, and its modification time is read with os.Stat.
package fsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/krisalay/mtime-sort/types"
)

// File is one item served by a Source.
type File struct {
	ID   types.Identity
	Path string
	Name string
	key  []byte
}

// Options controls how file names collate.
type Options struct {
	Language language.Tag
	// Numeric orders "img2" before "img10".
	Numeric    bool
	IgnoreCase bool
}

// Source implements types.IdentitySource for *File items.
type Source struct {
	mu       sync.Mutex
	collator *collate.Collator
	buf      collate.Buffer
}

func New(opts Options) *Source {
	var o []collate.Option
	if opts.Numeric {
		o = append(o, collate.Numeric)
	}
	if opts.IgnoreCase {
		o = append(o, collate.IgnoreCase)
	}
	return &Source{collator: collate.New(opts.Language, o...)}
}

// NewFile wraps path as an item with a fresh identity.
func (s *Source) NewFile(path string) *File {
	name := filepath.Base(path)
	return &File{
		ID:   types.Identity(uuid.NewString()),
		Path: path,
		Name: name,
		key:  s.collationKey(name),
	}
}

// Scan returns every regular file directly inside dir, in directory order.
func (s *Source) Scan(dir string) ([]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	files := make([]*File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, s.NewFile(filepath.Join(dir, e.Name())))
	}
	return files, nil
}

func (s *Source) Identity(item types.Item) types.Identity {
	return mustFile(item).ID
}

func (s *Source) CollationKey(item types.Item) []byte {
	return mustFile(item).key
}

func (s *Source) BackingResource(item types.Item) (types.Resource, error) {
	f := mustFile(item)
	if f.Path == "" {
		return nil, fmt.Errorf("%w: %s has no path", types.ErrResourceUnavailable, f.Name)
	}
	return f.Path, nil
}

/*
ModificationTime stats the file on a helper goroutine.

os.Stat cannot be interrupted, so when ctx ends first the stat is left to
finish on its own and its answer is dropped.
*/
func (s *Source) ModificationTime(ctx context.Context, res types.Resource) (time.Time, error) {
	path, ok := res.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unexpected resource %T", types.ErrResourceUnavailable, res)
	}

	type result struct {
		info os.FileInfo
		err  error
	}
	done := make(chan result, 1)
	go func() {
		info, err := os.Stat(path)
		done <- result{info, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", types.ErrResourceUnavailable, r.err)
		}
		return r.info.ModTime(), nil
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	}
}

// collationKey returns a copy; the collator buffer is reused between calls.
func (s *Source) collationKey(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := slices.Clone(s.collator.KeyFromString(&s.buf, name))
	s.buf.Reset()
	return key
}

func mustFile(v any) *File {
	f, ok := v.(*File)
	if !ok {
		panic(fmt.Sprintf("fsource: unexpected item type %T", v))
	}
	return f
}
