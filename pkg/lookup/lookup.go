// Package lookup serves the read-only views of the vocabulary: the visible
// category overview, the tag listing of a category and the comparison view
// of a few tags with all of their examples.
package lookup

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/metrics"
	"github.com/samanvaya/samanvaya/pkg/policy"
	"github.com/samanvaya/samanvaya/pkg/projection"
	"github.com/samanvaya/samanvaya/pkg/registry"
)

// DefaultMaxIDs bounds the comparison view when no other bound is configured.
const DefaultMaxIDs = 4

// CategorySummary is one entry of the public category overview.
type CategorySummary struct {
	Tablename   string       `json:"tablename"`
	Name        string       `json:"name"`
	EnglishName string       `json:"english_name"`
	Level       models.Level `json:"level"`
	Count       int64        `json:"count"`
}

// Comparison is the payload of the comparison view.
type Comparison struct {
	Languages map[uint]map[string]any `json:"languages"`
	Schema    registry.Schema         `json:"schema"`
	Tags      []TagWithData           `json:"tags"`
}

// TagWithData is a tag and its examples in every language.
type TagWithData struct {
	Tag  map[string]any   `json:"tag"`
	Data []map[string]any `json:"data"`
}

type Service struct {
	store  store.MetadataStore
	maxIDs int
}

// New creates a lookup service. A maxIDs of zero or less selects DefaultMaxIDs.
func New(s store.MetadataStore, maxIDs int) *Service {
	if maxIDs <= 0 {
		maxIDs = DefaultMaxIDs
	}
	return &Service{
		store:  s,
		maxIDs: maxIDs,
	}
}

// MaxIDs returns the bound applied to comparison requests.
func (svc *Service) MaxIDs() int {
	return svc.maxIDs
}

// ListVisibleCategories returns every category advertised through a visible
// TagInformation row with its number of live tags. It needs no identity.
func (svc *Service) ListVisibleCategories(ctx context.Context) ([]CategorySummary, error) {
	defer metrics.ObserveLookup("list_visible_categories", time.Now())

	infos, err := svc.store.TagInformation().List(ctx, store.Filter{
		Where: map[string]any{"is_visible": true},
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]CategorySummary, 0, len(infos))
	for _, info := range infos {
		tags, err := svc.store.Tags(info.Tablename)
		if err != nil {
			// advertised but without code support
			continue
		}
		count, err := tags.Count(ctx, nil)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, CategorySummary{
			Tablename:   info.Tablename,
			Name:        info.Name,
			EnglishName: info.EnglishName,
			Level:       info.Level,
			Count:       count,
		})
	}
	return summaries, nil
}

// ListLanguages returns the live languages keyed by id.
func (svc *Service) ListLanguages(ctx context.Context, id policy.Identity) (map[uint]map[string]any, error) {
	defer metrics.ObserveLookup("list_languages", time.Now())

	if err := policy.Authorize(id, policy.ClassLanguage, policy.Read); err != nil {
		return nil, err
	}
	return svc.languages(ctx)
}

// ListCategoryTags returns the live tags of a visible category ordered by code.
func (svc *Service) ListCategoryTags(ctx context.Context, id policy.Identity, category string) ([]map[string]any, error) {
	defer metrics.ObserveLookup("list_category_tags", time.Now())

	if err := policy.Authorize(id, policy.ClassTag, policy.Read); err != nil {
		return nil, err
	}
	if _, err := svc.visible(ctx, category); err != nil {
		return nil, err
	}

	tags, err := svc.store.Tags(category)
	if err != nil {
		return nil, err
	}
	rows, err := tags.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	return projection.ProjectAll(pointers(rows)), nil
}

// GetCategoryTagsWithData builds the comparison view for a comma separated
// list of tag ids. Ids past the configured bound are dropped before parsing.
func (svc *Service) GetCategoryTagsWithData(ctx context.Context, id policy.Identity, category, tagIDs string) (*Comparison, error) {
	defer metrics.ObserveLookup("get_category_tags_with_data", time.Now())

	if err := policy.Authorize(id, policy.ClassTag, policy.Read); err != nil {
		return nil, err
	}
	if err := policy.Authorize(id, policy.ClassData, policy.Read); err != nil {
		return nil, err
	}
	cat, err := svc.visible(ctx, category)
	if err != nil {
		return nil, err
	}

	ids, err := ParseIDs(tagIDs, svc.maxIDs)
	if err != nil {
		return nil, err
	}

	tags, err := svc.store.Tags(category)
	if err != nil {
		return nil, err
	}
	data, err := svc.store.Data(category)
	if err != nil {
		return nil, err
	}

	rows, err := tags.GetByIDs(ctx, ids, svc.maxIDs)
	if err != nil {
		return nil, err
	}
	languages, err := svc.languages(ctx)
	if err != nil {
		return nil, err
	}

	comparison := &Comparison{
		Schema:    cat.Schema,
		Tags:      make([]TagWithData, 0, len(rows)),
		Languages: languages,
	}
	for i := range rows {
		examples, err := data.List(ctx, store.Filter{
			Where:   map[string]any{"tag_id": rows[i].ID},
			OrderBy: "language_id ASC, id ASC",
		})
		if err != nil {
			return nil, err
		}

		comparison.Tags = append(comparison.Tags, TagWithData{
			Tag:  projection.Scalars(&rows[i]),
			Data: projection.ProjectAll(inLanguages(examples, languages)),
		})
	}
	return comparison, nil
}

// inLanguages keeps the examples whose language is live, so every row can
// be resolved against the language map of the view.
func inLanguages(rows []models.Data, languages map[uint]map[string]any) []*models.Data {
	out := make([]*models.Data, 0, len(rows))
	for i := range rows {
		if _, ok := languages[rows[i].LanguageID]; ok {
			out = append(out, &rows[i])
		}
	}
	return out
}

// visible resolves category and requires a visible TagInformation row for it.
func (svc *Service) visible(ctx context.Context, category string) (*registry.Category, error) {
	cat, err := svc.store.Registry().Resolve(category)
	if err != nil {
		return nil, err
	}

	count, err := svc.store.TagInformation().Count(ctx, map[string]any{
		"tablename":  category,
		"is_visible": true,
	})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: '%s' is not visible", errs.ErrUnknownCategory, category)
	}
	return cat, nil
}

func (svc *Service) languages(ctx context.Context) (map[uint]map[string]any, error) {
	rows, err := svc.store.Languages().List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	out := make(map[uint]map[string]any, len(rows))
	for i := range rows {
		out[rows[i].ID] = projection.Scalars(&rows[i])
	}
	return out, nil
}

// ParseIDs splits a comma separated id list. Only the first max entries are
// kept; an entry that is not a positive integer is a validation error.
func ParseIDs(raw string, max int) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []uint{}, nil
	}

	parts := strings.Split(raw, ",")
	if max > 0 && len(parts) > max {
		parts = parts[:max]
	}

	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			return nil, errs.Invalid("ids", "'%s' is not a valid id", part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
