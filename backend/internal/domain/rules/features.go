package rules

import (
	"fmt"

	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

// DefaultDimensions is the feature layout used for similarity scoring.
var DefaultDimensions = []Dimension{
	DimensionLocation,
	DimensionJobType,
	DimensionExperienceLevel,
}

// FeatureVector is the ordinal encoding of a candidate's categorical attributes.
// It is derived on demand and never persisted.
type FeatureVector []float64

type MalformedFeatureError struct {
	CandidateID int64
	Dimension   Dimension
	Value       string
}

func (e *MalformedFeatureError) Error() string {
	return fmt.Sprintf("candidate %d has unknown %s %q", e.CandidateID, e.Dimension, e.Value)
}

// Encode maps the candidate's attributes onto codes in the order given by dims.
func Encode(c model.Candidate, dims []Dimension) (FeatureVector, error) {
	vector := make(FeatureVector, 0, len(dims))
	for _, dim := range dims {
		var (
			code int
			ok   bool
			raw  string
		)
		switch dim {
		case DimensionLocation:
			raw = string(c.Location)
			code, ok = Locations.Code(c.Location)
		case DimensionJobType:
			raw = string(c.JobType)
			code, ok = JobTypes.Code(c.JobType)
		case DimensionExperienceLevel:
			raw = string(c.ExperienceLevel)
			code, ok = ExperienceLevels.Code(c.ExperienceLevel)
		case DimensionIndustry:
			raw = string(c.Industry)
			code, ok = Industries.Code(c.Industry)
		default:
			return nil, fmt.Errorf("unknown feature dimension %q", dim)
		}
		if !ok {
			return nil, &MalformedFeatureError{CandidateID: c.ID, Dimension: dim, Value: raw}
		}
		vector = append(vector, float64(code))
	}
	return vector, nil
}
