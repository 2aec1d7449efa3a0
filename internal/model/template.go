package model

import (
	"time"
)

// RackTemplate is a reusable starting point for new layouts. It captures a
// rack with its placements and the device types they need, but not image
// references, which belong to a single layout.
type RackTemplate struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
	Rack        Rack         `json:"rack"`
	DeviceTypes []DeviceType `json:"device_types"`
}

// NewRackTemplate creates a template from a layout. The rack and device
// types are deep-copied so later edits to the layout do not leak in.
func NewRackTemplate(name, description string, layout Layout) RackTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return RackTemplate{
		ID:          newID(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Rack:        layout.Rack.Clone(),
		DeviceTypes: CloneDeviceTypes(layout.DeviceTypes),
	}
}

// ToLayout creates a new layout from this template. Placements and bay
// children get fresh IDs so they are independent of the template.
func (t RackTemplate) ToLayout(name string) Layout {
	l := NewLayout(name, t.Rack.Height)
	l.Rack = t.Rack.Clone()
	l.Rack.Name = name
	if l.Rack.Devices == nil {
		l.Rack.Devices = []PlacedDevice{}
	}
	for i := range l.Rack.Devices {
		d := &l.Rack.Devices[i]
		d.ID = newID()
		// Image overrides are keyed by placement and do not survive.
		d.FrontImage, d.RearImage = "", ""
		for j := range d.Children {
			d.Children[j].ID = newID()
		}
	}
	l.DeviceTypes = CloneDeviceTypes(t.DeviceTypes)
	return l
}

// TemplateStore holds a collection of rack templates.
type TemplateStore struct {
	Templates []RackTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []RackTemplate{},
	}
}

// Add adds a template to the store, replacing any template with the same name.
func (ts *TemplateStore) Add(t RackTemplate) {
	if existing := ts.FindByName(t.Name); existing != nil {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		*existing = t
		return
	}
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID or name. Returns true if found and removed.
func (ts *TemplateStore) Remove(ref string) bool {
	for i, t := range ts.Templates {
		if t.ID == ref || t.Name == ref {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *RackTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *RackTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Find looks a template up by ID, then by name.
func (ts *TemplateStore) Find(ref string) *RackTemplate {
	if t := ts.FindByID(ref); t != nil {
		return t
	}
	return ts.FindByName(ref)
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
