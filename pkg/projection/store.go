package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/errs"
)

// TagNode is a tag together with the category table it was read from.
type TagNode struct {
	*models.Tag
	Category string
}

// DataNode is a data row together with the category it belongs to.
type DataNode struct {
	*models.Data
	Category string
}

// StoreResolver follows the explicit foreign keys of the persisted records:
// a language to the data rows written in it, a data row to its tag and
// language, and a tag to its data rows.
type StoreResolver struct {
	store store.MetadataStore
}

func NewStoreResolver(s store.MetadataStore) *StoreResolver {
	return &StoreResolver{
		store: s,
	}
}

func (r *StoreResolver) Key(node Node) string {
	switch n := node.(type) {
	case *TagNode:
		return fmt.Sprintf("%s:%d", n.Category, n.ID)
	case *DataNode:
		if cat, err := r.store.Registry().Resolve(n.Category); err == nil {
			return fmt.Sprintf("%s:%d", cat.DataTable, n.ID)
		}
		return fmt.Sprintf("%s/data:%d", n.Category, n.ID)
	case models.Record:
		return fmt.Sprintf("%T:%d", node, n.PrimaryKey())
	}
	return fmt.Sprintf("%T:%p", node, node)
}

func (r *StoreResolver) Relations(node Node) []Relation {
	switch n := node.(type) {
	case *models.Language:
		return r.languageRelations(n)
	case *DataNode:
		return r.dataRelations(n)
	case *TagNode:
		return r.tagRelations(n)
	}
	return nil
}

func (r *StoreResolver) languageRelations(lang *models.Language) []Relation {
	var relations []Relation
	for _, cat := range r.store.Registry().Categories() {
		key := cat.Key
		relations = append(relations, Relation{
			Name:    cat.DataTable,
			Inverse: "language",
			Many:    true,
			Load: func(ctx context.Context) ([]Node, error) {
				return r.loadData(ctx, key, map[string]any{"language_id": lang.ID})
			},
		})
	}
	return relations
}

func (r *StoreResolver) dataRelations(data *DataNode) []Relation {
	cat, err := r.store.Registry().Resolve(data.Category)
	if err != nil {
		return nil
	}

	return []Relation{
		{
			Name:    "language",
			Inverse: cat.DataTable,
			Load: func(ctx context.Context) ([]Node, error) {
				lang, err := r.store.Languages().Get(ctx, data.LanguageID)
				return single[*models.Language](lang, err)
			},
		},
		{
			Name:    "tag",
			Inverse: "data",
			Load: func(ctx context.Context) ([]Node, error) {
				tags, err := r.store.Tags(data.Category)
				if err != nil {
					return nil, err
				}
				tag, err := tags.Get(ctx, data.TagID)
				if err != nil {
					return single[*TagNode](nil, err)
				}
				return single(&TagNode{Tag: tag, Category: data.Category}, nil)
			},
		},
	}
}

func (r *StoreResolver) tagRelations(tag *TagNode) []Relation {
	return []Relation{
		{
			Name:    "data",
			Inverse: "tag",
			Many:    true,
			Load: func(ctx context.Context) ([]Node, error) {
				return r.loadData(ctx, tag.Category, map[string]any{"tag_id": tag.ID})
			},
		},
	}
}

func (r *StoreResolver) loadData(ctx context.Context, category string, where map[string]any) ([]Node, error) {
	data, err := r.store.Data(category)
	if err != nil {
		return nil, err
	}
	rows, err := data.List(ctx, store.Filter{Where: where})
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(rows))
	for i := range rows {
		nodes = append(nodes, &DataNode{Data: &rows[i], Category: category})
	}
	return nodes, nil
}

// single wraps a lookup by id. A reference to a soft-deleted row yields no
// node rather than an error.
func single[N Node](node N, err error) ([]Node, error) {
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []Node{node}, nil
}
