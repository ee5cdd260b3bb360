// Package catalog persists the parameters and outcome of generated worlds
// so any of them can be regenerated exactly.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/util"
	"github.com/google/uuid"

	"worldgen/internal/timing"
)

const keyPrefix = "world/"

// ErrNotFound reports an id with no stored record.
var ErrNotFound = errors.New("catalog: world not found")

// Record describes one generated world.
type Record struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`

	Seed        int64   `json:"seed"`
	Entropy     float64 `json:"entropy"`
	Granularity float64 `json:"granularity"`
	Power       int     `json:"power"`
	Target      float64 `json:"target"`
	Tolerance   float64 `json:"tolerance"`
	MaxPasses   int     `json:"max_passes"`

	Width  int    `json:"width"`
	Height int    `json:"height"`
	Depth  int    `json:"depth"`
	Plan   string `json:"plan"`

	// PlanSource is the go-getter address the plan was fetched from, if any.
	PlanSource string `json:"plan_source,omitempty"`

	SeaLevel float64        `json:"sea_level"`
	Fraction float64        `json:"fraction"`
	Passes   int            `json:"passes"`
	Timings  []timing.Entry `json:"timings,omitempty"`
}

// Catalog is a LevelDB-backed record store.
type Catalog struct {
	db *leveldb.DB
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	return &Catalog{db: db}, nil
}

// Close releases the database.
func (c *Catalog) Close() error { return c.db.Close() }

func key(id string) []byte { return []byte(keyPrefix + id) }

// Put stores rec, assigning an id and creation time when they are unset.
// It returns the stored record.
func (c *Catalog) Put(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Created.IsZero() {
		rec.Created = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("encode world %s: %w", rec.ID, err)
	}
	if err := c.db.Put(key(rec.ID), data, nil); err != nil {
		return Record{}, fmt.Errorf("store world %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Get loads the record stored under id.
func (c *Catalog) Get(id string) (Record, error) {
	data, err := c.db.Get(key(id), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case err != nil:
		return Record{}, fmt.Errorf("load world %s: %w", id, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode world %s: %w", id, err)
	}
	return rec, nil
}

// List returns every record, oldest first.
func (c *Catalog) List() ([]Record, error) {
	it := c.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer it.Release()
	var out []Record
	for it.Next() {
		var rec Record
		if err := json.Unmarshal(it.Value(), &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Key(), err)
		}
		out = append(out, rec)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

// Delete removes the record stored under id. Missing ids are not an error.
func (c *Catalog) Delete(id string) error {
	return c.db.Delete(key(id), nil)
}
