// Package registry maps category keys to their Tag/Data table pair and the
// display schema shown to end users.
//
// The registry answers "does this category have code support at all". Whether
// a category is advertised to end users is decided by TagInformation rows.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
)

// Schema lists the columns displayed to end users with their labels, split
// into Tag-level (meta) and Data-level (data) groups.
type Schema struct {
	Meta Labels `json:"meta"`
	Data Labels `json:"data"`
}

// Label is one displayed column.
type Label struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// Labels keeps display order, which a plain map would lose.
type Labels []Label

// Fields returns the column names in display order.
func (l Labels) Fields() []string {
	fields := make([]string, len(l))
	for i, label := range l {
		fields[i] = label.Field
	}
	return fields
}

// MarshalJSON renders the labels as a JSON object keyed by field while
// keeping display order.
func (l Labels) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label.Field)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(label.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Category describes one linguistic category and its table pair.
type Category struct {
	Key         string
	DataTable   string
	Name        string
	EnglishName string
	Level       models.Level

	// TagFields and DataFields are the extension attributes a row of this
	// category may carry beyond the shared core columns.
	TagFields  []string
	DataFields []string

	Schema Schema
}

// TagTable returns the name of the category's Tag table, which is the key.
func (c *Category) TagTable() string {
	return c.Key
}

// ValidateTagExtra rejects extension attributes the category does not define.
func (c *Category) ValidateTagExtra(extra models.Attributes) error {
	return validateExtra(c.Key, c.TagFields, extra)
}

// ValidateDataExtra rejects extension attributes the category does not define.
func (c *Category) ValidateDataExtra(extra models.Attributes) error {
	return validateExtra(c.DataTable, c.DataFields, extra)
}

func validateExtra(table string, allowed []string, extra models.Attributes) error {
	for _, key := range extra.Keys() {
		if !contains(allowed, key) {
			return errs.Invalid("extra."+key, "field is not defined for %s", table)
		}
	}
	return nil
}

// Registry is read-only once constructed and safe for concurrent use.
type Registry struct {
	categories map[string]*Category
	tables     map[string]*Category
	order      []string
}

// New builds a registry from the given categories. Duplicate keys or tables
// are rejected.
func New(categories ...Category) (*Registry, error) {
	r := &Registry{
		categories: make(map[string]*Category, len(categories)),
		tables:     make(map[string]*Category, len(categories)*2),
	}

	for i := range categories {
		c := categories[i]
		c.Key = strings.TrimSpace(c.Key)
		if c.Key == "" || c.DataTable == "" {
			return nil, fmt.Errorf("category %d is missing its table names", i)
		}
		if _, exists := r.tables[c.Key]; exists {
			return nil, fmt.Errorf("duplicate category table '%s'", c.Key)
		}
		if _, exists := r.tables[c.DataTable]; exists {
			return nil, fmt.Errorf("duplicate category table '%s'", c.DataTable)
		}

		r.categories[c.Key] = &c
		r.tables[c.Key] = &c
		r.tables[c.DataTable] = &c
		r.order = append(r.order, c.Key)
	}

	return r, nil
}

// Resolve returns the category registered under key.
func (r *Registry) Resolve(key string) (*Category, error) {
	c, ok := r.categories[key]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errs.ErrUnknownCategory, key)
	}
	return c, nil
}

// Has reports whether key is a registered category.
func (r *Registry) Has(key string) bool {
	_, ok := r.categories[key]
	return ok
}

// ByTable finds the category owning a Tag or Data table.
func (r *Registry) ByTable(table string) (*Category, bool) {
	c, ok := r.tables[table]
	return c, ok
}

// Categories returns all categories in registration order.
func (r *Registry) Categories() []*Category {
	out := make([]*Category, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.categories[key])
	}
	return out
}

// Keys returns the registered category keys sorted alphabetically.
func (r *Registry) Keys() []string {
	keys := append([]string(nil), r.order...)
	sort.Strings(keys)
	return keys
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
