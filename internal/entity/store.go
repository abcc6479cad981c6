// Package entity provides the in-memory record store backing the editable
// page collections. Records live for the process lifetime only; nothing is
// persisted.
package entity

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Entity is any record the store can hold.
type Entity interface {
	EntityID() string
}

// FieldSpec declares one form field and how submissions validate it.
type FieldSpec struct {
	Name     string
	Label    string
	Required bool
	Numeric  bool
}

// FormValues holds the raw text of every form field.
type FormValues map[string]string

// ValidationError reports a field that failed submission checks.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Config wires a Store to a concrete record type.
type Config[T Entity] struct {
	// Fields drives validation and coercion on Submit.
	Fields []FieldSpec
	// IDField names the field whose value seeds generated record IDs.
	// When empty, IDs are numbered sequentially under IDPrefix instead.
	IDField string
	// IDPrefix is used for sequential IDs when IDField is unset.
	IDPrefix string
	// Decode builds a record from coerced field values. Numeric fields
	// arrive as float64, everything else as string.
	Decode func(id string, values map[string]interface{}) T
	// ToForm populates the edit form from an existing record.
	ToForm func(record T) FormValues
}

// Store is an ordered, mutex-guarded collection of records plus the single
// create/edit form that mutates it. All mutations are synchronous.
type Store[T Entity] struct {
	cfg Config[T]

	mu        sync.RWMutex
	records   []T
	form      FormValues
	editingID string
}

// NewStore creates a store seeded with the given records.
func NewStore[T Entity](cfg Config[T], seed []T) *Store[T] {
	s := &Store[T]{
		cfg:     cfg,
		records: append([]T(nil), seed...),
		form:    make(FormValues),
	}
	return s
}

// List returns the records in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.records...)
}

// Get looks a record up by ID.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.EntityID() == id {
			return record, true
		}
	}
	var zero T
	return zero, false
}

// Count returns the number of records.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// BeginCreate resets the form for a new record.
func (s *Store[T]) BeginCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = make(FormValues)
	s.editingID = ""
}

// BeginEdit loads an existing record into the form. An unknown ID is a
// silent no-op and leaves the form untouched.
func (s *Store[T]) BeginEdit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.EntityID() == id {
			s.form = cloneForm(s.cfg.ToForm(record))
			s.editingID = id
			return
		}
	}
}

// CancelEdit discards the form without touching the records.
func (s *Store[T]) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = make(FormValues)
	s.editingID = ""
}

// SetField writes one form field.
func (s *Store[T]) SetField(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form[name] = value
}

// Form returns a copy of the current form values.
func (s *Store[T]) Form() FormValues {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneForm(s.form)
}

// EditingID returns the ID being edited, or "" in create mode.
func (s *Store[T]) EditingID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editingID
}

// Submit validates the form and applies it: in edit mode the record is
// replaced in place, keeping its position and ID; in create mode a new
// record is appended with an ID derived from the ID field. The form resets
// on success and is kept as-is on validation failure.
func (s *Store[T]) Submit() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T

	values, err := s.coerce(s.form)
	if err != nil {
		return zero, err
	}

	if s.editingID != "" {
		for i, record := range s.records {
			if record.EntityID() == s.editingID {
				updated := s.cfg.Decode(s.editingID, values)
				s.records[i] = updated
				s.form = make(FormValues)
				s.editingID = ""
				return updated, nil
			}
		}
		// The record was removed while the form was open. Treat the
		// submission as a create so the edit is not lost.
	}

	id := s.nextID(s.form[s.cfg.IDField])
	created := s.cfg.Decode(id, values)
	s.records = append(s.records, created)
	s.form = make(FormValues)
	s.editingID = ""
	return created, nil
}

// SubmitValues replaces the form wholesale and submits in one call.
func (s *Store[T]) SubmitValues(values FormValues) (T, error) {
	s.mu.Lock()
	s.form = cloneForm(values)
	s.mu.Unlock()
	return s.Submit()
}

// Remove deletes a record by ID. Removing an absent ID is a no-op. An open
// edit of the removed record is cancelled.
func (s *Store[T]) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.records {
		if record.EntityID() == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			if s.editingID == id {
				s.form = make(FormValues)
				s.editingID = ""
			}
			return
		}
	}
}

// Replace swaps the full record list, for programmatic refreshes that bypass
// the form.
func (s *Store[T]) Replace(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]T(nil), records...)
}

// coerce validates the form against the field specs and converts numeric
// fields. Optional numeric fields left blank coerce to zero.
func (s *Store[T]) coerce(form FormValues) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(s.cfg.Fields))

	for _, field := range s.cfg.Fields {
		raw := strings.TrimSpace(form[field.Name])

		if raw == "" {
			if field.Required {
				return nil, ValidationError{Field: field.Name, Message: "is required"}
			}
			if field.Numeric {
				values[field.Name] = float64(0)
			} else {
				values[field.Name] = ""
			}
			continue
		}

		if field.Numeric {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, ValidationError{Field: field.Name, Message: "must be a number"}
			}
			values[field.Name] = parsed
			continue
		}

		values[field.Name] = raw
	}

	return values, nil
}

// nextID derives a slug from the seed value and suffixes it until it is
// unique within the store. Stores without an ID field number records
// sequentially under the configured prefix.
func (s *Store[T]) nextID(seed string) string {
	if s.cfg.IDField == "" {
		prefix := s.cfg.IDPrefix
		if prefix == "" {
			prefix = "entry"
		}
		for n := len(s.records) + 1; ; n++ {
			candidate := fmt.Sprintf("%s-%d", prefix, n)
			if !s.idExists(candidate) {
				return candidate
			}
		}
	}

	base := Slugify(seed)
	if base == "" {
		base = "entry"
	}

	if !s.idExists(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !s.idExists(candidate) {
			return candidate
		}
	}
}

func (s *Store[T]) idExists(id string) bool {
	for _, record := range s.records {
		if record.EntityID() == id {
			return true
		}
	}
	return false
}

// Slugify lowercases the input and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming hyphens at both ends.
func Slugify(value string) string {
	var b strings.Builder
	lastHyphen := false

	for _, r := range strings.ToLower(value) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen && b.Len() > 0 {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}

func cloneForm(form FormValues) FormValues {
	clone := make(FormValues, len(form))
	for k, v := range form {
		clone[k] = v
	}
	return clone
}
