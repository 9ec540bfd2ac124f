package rules

import (
	"slices"

	"github.com/TLN1/linkr-back/backend/internal/domain/apperrors"
	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

// NormalizePreference canonicalizes every value of the filter and drops duplicates.
// Unknown values are rejected before any store is queried.
func NormalizePreference(p model.PreferenceFilter) (model.PreferenceFilter, error) {
	var (
		out model.PreferenceFilter
		err error
	)
	if out.Locations, err = normalizeSet(Locations, DimensionLocation, p.Locations); err != nil {
		return model.PreferenceFilter{}, err
	}
	if out.JobTypes, err = normalizeSet(JobTypes, DimensionJobType, p.JobTypes); err != nil {
		return model.PreferenceFilter{}, err
	}
	if out.ExperienceLevels, err = normalizeSet(ExperienceLevels, DimensionExperienceLevel, p.ExperienceLevels); err != nil {
		return model.PreferenceFilter{}, err
	}
	if out.Industries, err = normalizeSet(Industries, DimensionIndustry, p.Industries); err != nil {
		return model.PreferenceFilter{}, err
	}
	return out, nil
}

// ParsePreference builds a filter from raw strings, e.g. HTTP query values.
func ParsePreference(locations, jobTypes, experienceLevels, industries []string) (model.PreferenceFilter, error) {
	return NormalizePreference(model.PreferenceFilter{
		Locations:        castAll[enums.JobLocation](locations),
		JobTypes:         castAll[enums.JobType](jobTypes),
		ExperienceLevels: castAll[enums.ExperienceLevel](experienceLevels),
		Industries:       castAll[enums.Industry](industries),
	})
}

// MatchesPreference applies the filter conjunctively over the candidate's attributes.
func MatchesPreference(c model.Candidate, p model.PreferenceFilter) bool {
	if len(p.Locations) > 0 && !slices.Contains(p.Locations, c.Location) {
		return false
	}
	if len(p.JobTypes) > 0 && !slices.Contains(p.JobTypes, c.JobType) {
		return false
	}
	if len(p.ExperienceLevels) > 0 && !slices.Contains(p.ExperienceLevels, c.ExperienceLevel) {
		return false
	}
	if len(p.Industries) > 0 && !slices.Contains(p.Industries, c.Industry) {
		return false
	}
	return true
}

// Codes returns the filter values of a dimension as vocabulary strings, for SQL pushdown.
func Codes[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, string(value))
	}
	return out
}

func normalizeSet[T ~string](vocab Vocabulary[T], dim Dimension, values []T) ([]T, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(values))
	for _, raw := range values {
		value, ok := vocab.Parse(string(raw))
		if !ok {
			return nil, apperrors.NewInvalidFilterError(string(dim), string(raw), "unknown value")
		}
		if !slices.Contains(out, value) {
			out = append(out, value)
		}
	}
	return out, nil
}

func castAll[T ~string](values []string) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, 0, len(values))
	for _, value := range values {
		out = append(out, T(value))
	}
	return out
}
