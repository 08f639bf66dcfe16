package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/etnz/cryptofolio"
)

// JSON is a Repository backed by a JSON file holding an array of entities.
type JSON[K comparable, E Entity[K]] struct {
	path     string
	entities []E
	index    map[K]int // key -> position in entities
}

// Open loads the repository stored in the file at path.
//
// A missing file is created, along with its directory, holding the empty
// array "[]" so that it reloads as an empty collection. A blank file, or one
// that is not a JSON array, loads as an empty collection and a warning is
// logged. An array holding an entity that cannot be decoded or is invalid is a
// *cryptofolio.StorageError: the file is left untouched.
func Open[K comparable, E Entity[K]](path string) (*JSON[K, E], error) {
	r := &JSON[K, E]{path: path, index: make(map[K]int)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("creating empty repository %q", path)
		return r, r.bootstrap()
	}
	if err != nil {
		return nil, &cryptofolio.StorageError{File: path, Op: "read", Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		log.Printf("repository %q is blank, starting empty", path)
		return r, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		log.Printf("repository %q is not a JSON array, starting empty: %v", path, err)
		return r, nil
	}
	for i, raw := range raws {
		if string(bytes.TrimSpace(raw)) == "null" {
			return nil, &cryptofolio.StorageError{File: path, Op: "decode", Err: fmt.Errorf("entity %d is null", i)}
		}
		var e E
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, &cryptofolio.StorageError{File: path, Op: "decode", Err: fmt.Errorf("entity %d: %w", i, err)}
		}
		if _, exists := r.index[e.Key()]; exists {
			log.Printf("repository %q holds %v twice, keeping the last one", path, e.Key())
		}
		r.put(e)
	}
	return r, nil
}

// bootstrap creates the directory and an empty collection file.
func (r *JSON[K, E]) bootstrap() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return &cryptofolio.StorageError{File: r.path, Op: "create", Err: err}
	}
	return r.Save()
}

func (r *JSON[K, E]) FindByID(id K) (E, bool) {
	i, ok := r.index[id]
	if !ok {
		var zero E
		return zero, false
	}
	return r.entities[i], true
}

func (r *JSON[K, E]) FindAll() []E {
	return slices.Clone(r.entities)
}

func (r *JSON[K, E]) FindAllFunc(keep func(E) bool) []E {
	var found []E
	for _, e := range r.entities {
		if keep(e) {
			found = append(found, e)
		}
	}
	return found
}

// put inserts or replaces e in memory.
func (r *JSON[K, E]) put(e E) {
	if i, ok := r.index[e.Key()]; ok {
		r.entities[i] = e
		return
	}
	r.index[e.Key()] = len(r.entities)
	r.entities = append(r.entities, e)
}

func (r *JSON[K, E]) reindex() {
	clear(r.index)
	for i, e := range r.entities {
		r.index[e.Key()] = i
	}
}

// Add inserts e or replaces the entity with the same key, keeping its
// position. If the file cannot be written the collection is left unchanged.
func (r *JSON[K, E]) Add(e E) (E, error) {
	before := slices.Clone(r.entities)
	r.put(e)
	if err := r.Save(); err != nil {
		r.entities = before
		r.reindex()
		var zero E
		return zero, err
	}
	return e, nil
}

// Remove deletes the entity with the key of e. If the file cannot be written
// the collection is left unchanged.
func (r *JSON[K, E]) Remove(e E) (bool, error) {
	i, ok := r.index[e.Key()]
	if !ok {
		return false, nil
	}
	before := slices.Clone(r.entities)
	r.entities = slices.Delete(r.entities, i, i+1)
	r.reindex()
	if err := r.Save(); err != nil {
		r.entities = before
		r.reindex()
		return false, err
	}
	return true, nil
}

// Save writes the whole collection as an indented JSON array. The content is
// written to a temporary file that then replaces the backing file.
func (r *JSON[K, E]) Save() error {
	entities := r.entities
	if entities == nil {
		entities = []E{}
	}
	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return &cryptofolio.StorageError{File: r.path, Op: "encode", Err: err}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*")
	if err != nil {
		return &cryptofolio.StorageError{File: r.path, Op: "write", Err: err}
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &cryptofolio.StorageError{File: r.path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &cryptofolio.StorageError{File: r.path, Op: "write", Err: err}
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return &cryptofolio.StorageError{File: r.path, Op: "write", Err: err}
	}
	return nil
}
