package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/policy"
	"github.com/samanvaya/samanvaya/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	reader  = policy.Identity{UserID: 1, Role: models.RoleUser}
	curator = policy.Identity{UserID: 2, Role: models.RoleCurator}
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(store.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Migrate(ctx))

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func advertise(t *testing.T, s *store.SQLiteStore, key string, visible bool) {
	t.Helper()

	cat, err := s.Registry().Resolve(key)
	require.NoError(t, err)

	_, err = s.TagInformation().Create(context.Background(), policy.System, &models.TagInformation{
		Tablename:   cat.Key,
		Name:        cat.Name,
		EnglishName: cat.EnglishName,
		Level:       cat.Level,
		IsVisible:   visible,
	})
	require.NoError(t, err)
}

func createTag(t *testing.T, s *store.SQLiteStore, code, tag string) *models.Tag {
	t.Helper()

	tags, err := s.Tags(registry.PartsOfSpeech)
	require.NoError(t, err)

	row, err := tags.Create(context.Background(), curator, &models.Tag{Code: code, Tag: tag, Name: code})
	require.NoError(t, err)
	return row
}

func TestListVisibleCategories(t *testing.T) {
	s := newTestStore(t)
	svc := New(s, 4)

	advertise(t, s, registry.PartsOfSpeech, true)
	advertise(t, s, registry.Voice, false)
	createTag(t, s, "N", "noun")
	createTag(t, s, "V", "verb")

	summaries, err := svc.ListVisibleCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, CategorySummary{
		Tablename:   registry.PartsOfSpeech,
		Name:        "शब्द-प्रकार",
		EnglishName: "Parts-of-Speech (POS)",
		Level:       models.LevelWord,
		Count:       2,
	}, summaries[0])
}

func TestListCategoryTags(t *testing.T) {
	s := newTestStore(t)
	svc := New(s, 4)
	ctx := context.Background()

	advertise(t, s, registry.PartsOfSpeech, true)
	advertise(t, s, registry.Voice, false)
	createTag(t, s, "V", "verb")
	createTag(t, s, "N", "noun")

	_, err := svc.ListCategoryTags(ctx, policy.Identity{}, registry.PartsOfSpeech)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	tags, err := svc.ListCategoryTags(ctx, reader, registry.PartsOfSpeech)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "N", tags[0]["code"])
	assert.Equal(t, "V", tags[1]["code"])

	// registered but hidden
	_, err = svc.ListCategoryTags(ctx, reader, registry.Voice)
	assert.ErrorIs(t, err, errs.ErrUnknownCategory)

	// registered but never advertised
	_, err = svc.ListCategoryTags(ctx, reader, registry.Morphology)
	assert.ErrorIs(t, err, errs.ErrUnknownCategory)

	_, err = svc.ListCategoryTags(ctx, reader, "noun_tag")
	assert.ErrorIs(t, err, errs.ErrUnknownCategory)
}

func TestGetCategoryTagsWithData_SeededNounHasNoData(t *testing.T) {
	s := newTestStore(t)
	svc := New(s, 4)

	advertise(t, s, registry.PartsOfSpeech, true)
	noun := createTag(t, s, "N", "noun")

	view, err := svc.GetCategoryTagsWithData(context.Background(), reader, registry.PartsOfSpeech, fmt.Sprint(noun.ID))
	require.NoError(t, err)

	require.Len(t, view.Tags, 1)
	assert.Equal(t, "N", view.Tags[0].Tag["code"])
	assert.NotNil(t, view.Tags[0].Data)
	assert.Empty(t, view.Tags[0].Data)
	assert.Equal(t, []string{"bis_tag"}, view.Schema.Meta.Fields())

	encoded, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"data":[]`)
}

func TestGetCategoryTagsWithData_TruncatesIDs(t *testing.T) {
	s := newTestStore(t)
	svc := New(s, 4)
	ctx := context.Background()

	advertise(t, s, registry.PartsOfSpeech, true)

	var ids []string
	for _, code := range []string{"A", "B", "C", "D", "E"} {
		ids = append(ids, fmt.Sprint(createTag(t, s, code, strings.ToLower(code)).ID))
	}

	five, err := svc.GetCategoryTagsWithData(ctx, reader, registry.PartsOfSpeech, strings.Join(ids, ","))
	require.NoError(t, err)
	four, err := svc.GetCategoryTagsWithData(ctx, reader, registry.PartsOfSpeech, strings.Join(ids[:4], ","))
	require.NoError(t, err)

	assert.Equal(t, four, five)
	assert.Len(t, five.Tags, 4)
}

func TestGetCategoryTagsWithData_GroupsExamples(t *testing.T) {
	s := newTestStore(t)
	svc := New(s, 4)
	ctx := context.Background()

	advertise(t, s, registry.PartsOfSpeech, true)
	noun := createTag(t, s, "N", "noun")
	verb := createTag(t, s, "V", "verb")

	admin := policy.Identity{UserID: 3, Role: models.RoleAdmin}
	hindi, err := s.Languages().Create(ctx, admin, &models.Language{Code: "hi", Name: "हिन्दी", EnglishName: "Hindi"})
	require.NoError(t, err)
	marathi, err := s.Languages().Create(ctx, admin, &models.Language{Code: "mr", Name: "मराठी", EnglishName: "Marathi"})
	require.NoError(t, err)

	data, err := s.Data(registry.PartsOfSpeech)
	require.NoError(t, err)
	for _, row := range []*models.Data{
		{TagID: noun.ID, LanguageID: marathi.ID, Example: "मुलगा"},
		{TagID: noun.ID, LanguageID: hindi.ID, Example: "लड़का"},
		{TagID: verb.ID, LanguageID: hindi.ID, Example: "खाना"},
	} {
		_, err := data.Create(ctx, curator, row)
		require.NoError(t, err)
	}

	view, err := svc.GetCategoryTagsWithData(ctx, reader, registry.PartsOfSpeech, fmt.Sprintf("%d,%d", verb.ID, noun.ID))
	require.NoError(t, err)

	require.Len(t, view.Tags, 2)
	assert.Equal(t, "N", view.Tags[0].Tag["code"])
	require.Len(t, view.Tags[0].Data, 2)
	assert.Equal(t, "लड़का", view.Tags[0].Data[0]["example"])
	assert.Equal(t, "मुलगा", view.Tags[0].Data[1]["example"])
	require.Len(t, view.Tags[1].Data, 1)

	require.Len(t, view.Languages, 2)
	assert.Equal(t, "mr", view.Languages[marathi.ID]["code"])
}

func TestGetCategoryTagsWithData_SkipsDeletedLanguages(t *testing.T) {
	s := newTestStore(t)
	svc := New(s, 4)
	ctx := context.Background()

	advertise(t, s, registry.PartsOfSpeech, true)
	noun := createTag(t, s, "N", "noun")

	admin := policy.Identity{UserID: 3, Role: models.RoleAdmin}
	hindi, err := s.Languages().Create(ctx, admin, &models.Language{Code: "hi", Name: "हिन्दी", EnglishName: "Hindi"})
	require.NoError(t, err)
	marathi, err := s.Languages().Create(ctx, admin, &models.Language{Code: "mr", Name: "मराठी", EnglishName: "Marathi"})
	require.NoError(t, err)

	data, err := s.Data(registry.PartsOfSpeech)
	require.NoError(t, err)
	for _, row := range []*models.Data{
		{TagID: noun.ID, LanguageID: hindi.ID, Example: "लड़का"},
		{TagID: noun.ID, LanguageID: marathi.ID, Example: "मुलगा"},
	} {
		_, err := data.Create(ctx, curator, row)
		require.NoError(t, err)
	}

	// rows imported before deletes were guarded can still point at a
	// deleted language
	require.NoError(t, s.DB().Table(models.Language{}.TableName()).
		Where("id = ?", marathi.ID).
		Update("is_deleted", true).Error)

	view, err := svc.GetCategoryTagsWithData(ctx, reader, registry.PartsOfSpeech, fmt.Sprint(noun.ID))
	require.NoError(t, err)

	require.Len(t, view.Tags, 1)
	require.Len(t, view.Tags[0].Data, 1)
	assert.Equal(t, "लड़का", view.Tags[0].Data[0]["example"])
	assert.NotContains(t, view.Languages, marathi.ID)
	for _, row := range view.Tags[0].Data {
		assert.Contains(t, view.Languages, row["language_id"])
	}
}

func TestGetCategoryTagsWithData_InvalidIDs(t *testing.T) {
	s := newTestStore(t)
	svc := New(s, 4)

	advertise(t, s, registry.PartsOfSpeech, true)

	_, err := svc.GetCategoryTagsWithData(context.Background(), reader, registry.PartsOfSpeech, "1,x")
	assert.ErrorIs(t, err, errs.ErrValidation)

	view, err := svc.GetCategoryTagsWithData(context.Background(), reader, registry.PartsOfSpeech, "")
	require.NoError(t, err)
	assert.Empty(t, view.Tags)
}

func TestListLanguages(t *testing.T) {
	s := newTestStore(t)
	svc := New(s, 4)
	ctx := context.Background()

	_, err := svc.ListLanguages(ctx, policy.Identity{})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	languages, err := svc.ListLanguages(ctx, reader)
	require.NoError(t, err)
	assert.Empty(t, languages)
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		raw     string
		want    []uint
		invalid bool
	}{
		{"", []uint{}, false},
		{"7", []uint{7}, false},
		{" 1, 2 ,3", []uint{1, 2, 3}, false},
		{"1,2,3,4,5", []uint{1, 2, 3, 4}, false},
		{"1,2,3,4,oops", []uint{1, 2, 3, 4}, false},
		{"1,-2", nil, true},
		{"0", nil, true},
		{"1,,2", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			ids, err := ParseIDs(tc.raw, 4)
			if tc.invalid {
				assert.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestNew_DefaultsMaxIDs(t *testing.T) {
	assert.Equal(t, DefaultMaxIDs, New(nil, 0).MaxIDs())
}
