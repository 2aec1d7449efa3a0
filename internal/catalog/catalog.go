// Package catalog resolves device-type slugs for the placement engine.
//
// The engine only ever sees the read-only Catalog interface. Library is the
// mutable implementation backing a layout: it keeps the device types in
// insertion order for listing and builds a slug index on demand. The index
// is a read-through cache owned by the Library and dropped on every
// mutation, so there is no package-level state.
package catalog

import (
	"errors"
	"fmt"

	"github.com/piwi3910/RackPlan/internal/model"
)

var (
	// ErrNotFound is returned when a slug is not in the catalog.
	ErrNotFound = errors.New("catalog: device type not found")

	// ErrExists is returned when adding a slug that is already present.
	ErrExists = errors.New("catalog: device type already exists")

	// ErrInvalid is returned when a device type fails validation.
	ErrInvalid = errors.New("catalog: invalid device type")
)

// Catalog is the read-only lookup contract consumed by the engine.
type Catalog interface {
	Resolve(slug string) (model.DeviceType, error)
}

// Library is an in-memory device type collection with a lazily built index.
type Library struct {
	types []model.DeviceType
	index map[string]int // nil when invalidated
}

// NewLibrary creates a library from the given types. Later duplicates of a
// slug are dropped.
func NewLibrary(types []model.DeviceType) *Library {
	l := &Library{}
	seen := make(map[string]bool, len(types))
	for _, dt := range types {
		if seen[dt.Slug] {
			continue
		}
		seen[dt.Slug] = true
		l.types = append(l.types, dt)
	}
	return l
}

// Resolve returns the device type registered under slug.
func (l *Library) Resolve(slug string) (model.DeviceType, error) {
	if l.index == nil {
		l.rebuild()
	}
	i, ok := l.index[slug]
	if !ok {
		return model.DeviceType{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return l.types[i], nil
}

// Has reports whether slug is registered.
func (l *Library) Has(slug string) bool {
	_, err := l.Resolve(slug)
	return err == nil
}

// List returns a copy of all device types in insertion order.
func (l *Library) List() []model.DeviceType {
	cp := make([]model.DeviceType, len(l.types))
	copy(cp, l.types)
	return cp
}

// Len returns the number of device types.
func (l *Library) Len() int {
	return len(l.types)
}

// Add registers a new device type.
func (l *Library) Add(dt model.DeviceType) error {
	if err := dt.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if l.Has(dt.Slug) {
		return fmt.Errorf("%w: %s", ErrExists, dt.Slug)
	}
	l.types = append(l.types, dt)
	l.invalidate()
	return nil
}

// Update replaces the device type with the same slug.
func (l *Library) Update(dt model.DeviceType) error {
	if err := dt.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i := range l.types {
		if l.types[i].Slug == dt.Slug {
			l.types[i] = dt
			l.invalidate()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, dt.Slug)
}

// Delete removes the device type with the given slug and returns it.
func (l *Library) Delete(slug string) (model.DeviceType, error) {
	for i, dt := range l.types {
		if dt.Slug == slug {
			l.types = append(l.types[:i], l.types[i+1:]...)
			l.invalidate()
			return dt, nil
		}
	}
	return model.DeviceType{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

// Merge adds every type whose slug is not yet present and returns the
// number added. Invalid entries are skipped and reported in skipped.
func (l *Library) Merge(types []model.DeviceType) (added int, skipped []string) {
	for _, dt := range types {
		if err := l.Add(dt); err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", dt.Slug, err))
			continue
		}
		added++
	}
	return added, skipped
}

func (l *Library) invalidate() {
	l.index = nil
}

func (l *Library) rebuild() {
	l.index = make(map[string]int, len(l.types))
	for i, dt := range l.types {
		l.index[dt.Slug] = i
	}
}
