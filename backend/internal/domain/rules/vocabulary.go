package rules

import (
	"strings"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
)

type Dimension string

const (
	DimensionLocation        Dimension = "location"
	DimensionJobType         Dimension = "job_type"
	DimensionExperienceLevel Dimension = "experience_level"
	DimensionIndustry        Dimension = "industry"
)

// Vocabulary is a fixed bidirectional mapping between a category enum and small
// integer codes. Codes are positional and must never be reordered.
type Vocabulary[T ~string] struct {
	codes  map[T]int
	values []T
}

func newVocabulary[T ~string](values ...T) Vocabulary[T] {
	codes := make(map[T]int, len(values))
	for i, value := range values {
		codes[value] = i
	}
	return Vocabulary[T]{codes: codes, values: values}
}

func (v Vocabulary[T]) Code(value T) (int, bool) {
	code, ok := v.codes[value]
	return code, ok
}

func (v Vocabulary[T]) Value(code int) (T, bool) {
	if code < 0 || code >= len(v.values) {
		var zero T
		return zero, false
	}
	return v.values[code], true
}

// Parse accepts the canonical value as well as loose spellings such as "On-site",
// "FULL_TIME" or "software engineering".
func (v Vocabulary[T]) Parse(raw string) (T, bool) {
	value := T(normalizeCategory(raw))
	if _, ok := v.codes[value]; !ok {
		var zero T
		return zero, false
	}
	return value, true
}

func (v Vocabulary[T]) Size() int {
	return len(v.values)
}

var (
	Locations = newVocabulary(
		enums.JobLocationOnSite,
		enums.JobLocationRemote,
		enums.JobLocationHybrid,
	)
	JobTypes = newVocabulary(
		enums.JobTypeFullTime,
		enums.JobTypePartTime,
	)
	ExperienceLevels = newVocabulary(
		enums.ExperienceLevelIntern,
		enums.ExperienceLevelJunior,
		enums.ExperienceLevelMiddle,
		enums.ExperienceLevelSenior,
		enums.ExperienceLevelLead,
	)
	Industries = newVocabulary(
		enums.IndustrySoftwareEngineering,
		enums.IndustryFinance,
		enums.IndustryHealthcare,
		enums.IndustryEducation,
		enums.IndustryRetail,
	)
)

func normalizeCategory(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, "_", "-")
	value = strings.ReplaceAll(value, " ", "-")
	if value == "onsite" {
		value = string(enums.JobLocationOnSite)
	}
	return value
}
