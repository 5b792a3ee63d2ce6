package registry

import (
	"testing"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ResolvesEveryCategory(t *testing.T) {
	r := Default()

	require.Len(t, r.Categories(), 10)
	for _, key := range r.Keys() {
		c, err := r.Resolve(key)
		require.NoError(t, err)
		assert.Equal(t, key, c.TagTable())
		assert.NotEmpty(t, c.DataTable)
		assert.NotEmpty(t, c.Schema.Data, "category %s should display data columns", key)
	}
}

func TestResolve_UnknownCategory(t *testing.T) {
	r := Default()

	_, err := r.Resolve("ergativity_tag")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnknownCategory)
	assert.False(t, r.Has("ergativity_tag"))
}

func TestByTable_FindsDataTables(t *testing.T) {
	r := Default()

	c, ok := r.ByTable("parts_of_speech_data")
	require.True(t, ok)
	assert.Equal(t, PartsOfSpeech, c.Key)

	_, ok = r.ByTable("language")
	assert.False(t, ok)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New(
		Category{Key: "a_tag", DataTable: "a_data"},
		Category{Key: "b_tag", DataTable: "a_data"},
	)
	assert.Error(t, err)

	_, err = New(Category{Key: "", DataTable: "x"})
	assert.Error(t, err)
}

func TestValidateExtra(t *testing.T) {
	r := Default()
	pos, err := r.Resolve(PartsOfSpeech)
	require.NoError(t, err)

	assert.NoError(t, pos.ValidateTagExtra(models.Attributes{"bis_tag": "N_NN"}))
	assert.NoError(t, pos.ValidateTagExtra(nil))

	err = pos.ValidateTagExtra(models.Attributes{"sanskrit_lakara": "lat"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValidation)

	assert.NoError(t, pos.ValidateDataExtra(models.Attributes{"markers": "-ne"}))
	assert.ErrorIs(t, pos.ValidateDataExtra(models.Attributes{"accuracy": "1"}), errs.ErrValidation)
}

func TestSchema_IsSubsetOfColumns(t *testing.T) {
	core := map[string]bool{
		"code": true, "tag": true, "name": true, "english_name": true, "description": true,
		"example": true, "iso_transliteration": true, "sanskrit_translation": true,
		"english_translation": true, "explanation": true,
	}

	for _, c := range Default().Categories() {
		for _, field := range c.Schema.Meta.Fields() {
			assert.True(t, core[field] || contains(c.TagFields, field),
				"%s meta field %s is not a column", c.Key, field)
		}
		for _, field := range c.Schema.Data.Fields() {
			assert.True(t, core[field] || contains(c.DataFields, field),
				"%s data field %s is not a column", c.Key, field)
		}
	}
}

func TestLabels_MarshalJSONKeepsOrder(t *testing.T) {
	labels := Labels{
		{Field: "pattern", Label: "Pattern"},
		{Field: "example", Label: "Example"},
	}

	out, err := labels.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"pattern":"Pattern","example":"Example"}`, string(out))

	out, err = Labels{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}
