package registry

import "github.com/samanvaya/samanvaya/pkg/db/models"

const (
	SentenceMeaning   = "sentence_meaning_tag"
	SentenceStructure = "sentence_structure_tag"
	Voice             = "voice_tag"
	Group             = "group_tag"
	Dependency        = "dependency_tag"
	PartsOfSpeech     = "parts_of_speech_tag"
	Morphology        = "morphology_tag"
	Verbal            = "verbal_tag"
	TenseAspectMood   = "tense_aspect_mood_tag"
	VerbalRoot        = "verbal_root_tag"
)

var exampleLabels = Labels{
	{Field: "example", Label: "Example"},
	{Field: "iso_transliteration", Label: "ISO Transliteration"},
	{Field: "sanskrit_translation", Label: "Sanskrit Translation"},
	{Field: "english_translation", Label: "English Translation"},
}

func withExamples(extra ...Label) Labels {
	labels := append(Labels{}, exampleLabels...)
	return append(labels, extra...)
}

var markers = Label{Field: "markers", Label: "Markers"}

// Default returns the registry of every category the application supports.
func Default() *Registry {
	r, err := New(Catalogue()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Catalogue lists the supported linguistic categories.
func Catalogue() []Category {
	return []Category{
		{
			Key:         SentenceMeaning,
			DataTable:   "sentence_meaning_data",
			Name:        "अर्थानुसार-वाक्यप्रकार",
			EnglishName: "Sentence Meaning",
			Level:       models.LevelSentence,
			DataFields:  []string{"markers"},
			Schema:      Schema{Meta: Labels{}, Data: withExamples(markers)},
		},
		{
			Key:         SentenceStructure,
			DataTable:   "sentence_structure_data",
			Name:        "रचनानुसार-वाक्यप्रकार",
			EnglishName: "Sentence Structure",
			Level:       models.LevelSentence,
			DataFields:  []string{"markers"},
			Schema:      Schema{Meta: Labels{}, Data: withExamples(markers)},
		},
		{
			Key:         Voice,
			DataTable:   "voice_data",
			Name:        "क्रिया-वाच्य",
			EnglishName: "Voice",
			Level:       models.LevelSentence,
			TagFields:   []string{"subject_verb_agreement"},
			DataFields:  []string{"markers"},
			Schema:      Schema{Meta: Labels{}, Data: withExamples(markers)},
		},
		{
			Key:         Group,
			DataTable:   "group_data",
			Name:        "शब्द-समूह",
			EnglishName: "Group",
			Level:       models.LevelSentence,
			DataFields:  []string{"markers"},
			Schema:      Schema{Meta: Labels{}, Data: withExamples(markers)},
		},
		{
			Key:         Dependency,
			DataTable:   "dependency_data",
			Name:        "आश्रय",
			EnglishName: "Dependency",
			Level:       models.LevelSentence,
			TagFields:   []string{"existing_tag", "intrasentence_relation"},
			DataFields:  []string{"accuracy", "markers"},
			Schema: Schema{
				Meta: Labels{},
				Data: withExamples(Label{Field: "accuracy", Label: "Accuracy"}, markers),
			},
		},
		{
			Key:         PartsOfSpeech,
			DataTable:   "parts_of_speech_data",
			Name:        "शब्द-प्रकार",
			EnglishName: "Parts-of-Speech (POS)",
			Level:       models.LevelWord,
			TagFields:   []string{"bis_tag"},
			DataFields:  []string{"markers"},
			Schema: Schema{
				Meta: Labels{{Field: "bis_tag", Label: "BIS Annotation"}},
				Data: withExamples(markers),
			},
		},
		{
			Key:         Morphology,
			DataTable:   "morphology_data",
			Name:        "शब्द-रूप",
			EnglishName: "Morphology",
			Level:       models.LevelWord,
			TagFields:   []string{"type"},
			DataFields:  []string{"markers"},
			Schema:      Schema{Meta: Labels{}, Data: withExamples(markers)},
		},
		{
			Key:         Verbal,
			DataTable:   "verbal_data",
			Name:        "क्रियामूलक-कृद्",
			EnglishName: "Verbal",
			Level:       models.LevelWord,
			DataFields:  []string{"verbal", "case", "gender_marking", "is_part_of_tam"},
			Schema: Schema{
				Meta: Labels{},
				Data: append(
					Labels{{Field: "verbal", Label: "Kṛt Pratyaya"}},
					withExamples(
						Label{Field: "case", Label: "Case"},
						Label{Field: "gender_marking", Label: "Gender Marking"},
						Label{Field: "is_part_of_tam", Label: "Part of TAM Tags?"},
					)...,
				),
			},
		},
		{
			Key:         TenseAspectMood,
			DataTable:   "tense_aspect_mood_data",
			Name:        "क्रिया-कालादि",
			EnglishName: "Tense-Aspect-Mood (TAM)",
			Level:       models.LevelWord,
			TagFields:   []string{"type", "sanskrit_lakara", "tense_tag", "aspect_tag", "mood_tag"},
			DataFields:  []string{"pattern", "gender_marking", "syntactic_condition"},
			Schema: Schema{
				Meta: Labels{
					{Field: "tag", Label: "TAM Tag"},
					{Field: "name", Label: "Name"},
					{Field: "english_name", Label: "English Name"},
					{Field: "type", Label: "Type"},
					{Field: "sanskrit_lakara", Label: "Sanskrit Lakāra"},
					{Field: "tense_tag", Label: "Tense Tag (K)"},
					{Field: "aspect_tag", Label: "Aspect Tag (P)"},
					{Field: "mood_tag", Label: "Mood Tag (V)"},
					{Field: "description", Label: "Description"},
				},
				Data: append(
					Labels{{Field: "pattern", Label: "Pattern"}},
					withExamples(
						Label{Field: "gender_marking", Label: "Gender Marking"},
						Label{Field: "syntactic_condition", Label: "Syntactic Condition"},
					)...,
				),
			},
		},
		{
			Key:         VerbalRoot,
			DataTable:   "verbal_root_data",
			Name:        "धातुप्रकार",
			EnglishName: "Verbal Root",
			Level:       models.LevelWord,
			DataFields:  []string{"markers", "syntactic_condition"},
			Schema: Schema{
				Meta: Labels{},
				Data: withExamples(
					Label{Field: "explanation", Label: "Explanation"},
					markers,
					Label{Field: "syntactic_condition", Label: "Syntactic Condition"},
				),
			},
		},
	}
}
