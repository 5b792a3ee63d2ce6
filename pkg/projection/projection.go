// Package projection turns records into JSON-shaped maps. Related records
// can be expanded to a given depth; a walk never expands the same record
// twice and never follows a relation back the way it came.
package projection

import (
	"context"
	"time"

	"github.com/samanvaya/samanvaya/pkg/db/models"
)

// Node is a projectable record.
type Node interface {
	Columns() map[string]any
}

// Relation is a named edge from one node to related nodes.
type Relation struct {
	Name string

	// Inverse names the relation on the related nodes that leads back here.
	Inverse string

	// Many projects the relation as a list instead of a single object.
	Many bool

	Load func(ctx context.Context) ([]Node, error)
}

// Resolver identifies nodes and discovers their relations.
type Resolver interface {
	// Key returns a value unique to the record behind node.
	Key(node Node) string

	Relations(node Node) []Relation
}

// Projector projects nodes using the relations of a Resolver.
type Projector struct {
	resolver Resolver
}

func New(resolver Resolver) *Projector {
	return &Projector{
		resolver: resolver,
	}
}

// Project emits the scalar columns of node and, while depth is positive,
// its related nodes projected with depth-1.
func (p *Projector) Project(ctx context.Context, node Node, depth int) (map[string]any, error) {
	w := &walk{
		resolver:  p.resolver,
		visited:   make(map[string]bool),
		traversed: make(map[string]bool),
	}
	return w.project(ctx, node, depth)
}

// ProjectAll projects every node at depth 0.
func ProjectAll[N Node](nodes []N) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, Scalars(node))
	}
	return out
}

// Scalars renders the persisted columns of node. Times become RFC 3339
// strings and sensitive columns are left out.
func Scalars(node Node) map[string]any {
	cols := node.Columns()
	if sensitive, ok := node.(models.Sensitive); ok {
		for _, column := range sensitive.SensitiveColumns() {
			delete(cols, column)
		}
	}

	for column, value := range cols {
		switch v := value.(type) {
		case time.Time:
			cols[column] = v.UTC().Format(time.RFC3339)
		case *time.Time:
			if v == nil {
				cols[column] = nil
			} else {
				cols[column] = v.UTC().Format(time.RFC3339)
			}
		}
	}
	return cols
}

type walk struct {
	resolver Resolver

	// visited holds the keys of every node projected so far.
	visited map[string]bool
	// traversed holds "key/relation" edges already covered from the other side.
	traversed map[string]bool
}

func (w *walk) project(ctx context.Context, node Node, depth int) (map[string]any, error) {
	key := w.resolver.Key(node)
	w.visited[key] = true

	out := Scalars(node)
	if depth <= 0 {
		return out, nil
	}

	for _, rel := range w.resolver.Relations(node) {
		if w.traversed[edge(key, rel.Name)] {
			continue
		}
		w.traversed[edge(key, rel.Name)] = true

		related, err := rel.Load(ctx)
		if err != nil {
			return nil, err
		}

		projected := make([]map[string]any, 0, len(related))
		for _, child := range related {
			childKey := w.resolver.Key(child)
			if w.visited[childKey] {
				continue
			}
			if rel.Inverse != "" {
				w.traversed[edge(childKey, rel.Inverse)] = true
			}

			m, err := w.project(ctx, child, depth-1)
			if err != nil {
				return nil, err
			}
			projected = append(projected, m)
		}

		if rel.Many {
			out[rel.Name] = projected
		} else if len(projected) > 0 {
			out[rel.Name] = projected[0]
		}
	}
	return out, nil
}

func edge(key, relation string) string {
	return key + "/" + relation
}
