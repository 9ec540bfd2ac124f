package rules

import (
	"errors"
	"testing"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

func TestVocabularyCodesAreFixed(t *testing.T) {
	cases := []struct {
		name string
		got  int
		want int
	}{
		{"on-site", mustCode(t, Locations, enums.JobLocationOnSite), 0},
		{"remote", mustCode(t, Locations, enums.JobLocationRemote), 1},
		{"hybrid", mustCode(t, Locations, enums.JobLocationHybrid), 2},
		{"full-time", mustCode(t, JobTypes, enums.JobTypeFullTime), 0},
		{"part-time", mustCode(t, JobTypes, enums.JobTypePartTime), 1},
		{"intern", mustCode(t, ExperienceLevels, enums.ExperienceLevelIntern), 0},
		{"senior", mustCode(t, ExperienceLevels, enums.ExperienceLevelSenior), 3},
		{"lead", mustCode(t, ExperienceLevels, enums.ExperienceLevelLead), 4},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("unexpected code for %s: got %d want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestVocabularyRoundTrip(t *testing.T) {
	for code := 0; code < ExperienceLevels.Size(); code++ {
		value, ok := ExperienceLevels.Value(code)
		if !ok {
			t.Fatalf("expected value for code %d", code)
		}
		if back := mustCode(t, ExperienceLevels, value); back != code {
			t.Fatalf("unexpected round trip: got %d want %d", back, code)
		}
	}
	if _, ok := ExperienceLevels.Value(5); ok {
		t.Fatalf("expected out of range code to be rejected")
	}
}

func TestVocabularyParseAcceptsLooseSpelling(t *testing.T) {
	cases := map[string]enums.JobLocation{
		"On-site": enums.JobLocationOnSite,
		"ON_SITE": enums.JobLocationOnSite,
		"onsite":  enums.JobLocationOnSite,
		" Remote": enums.JobLocationRemote,
	}
	for raw, want := range cases {
		got, ok := Locations.Parse(raw)
		if !ok || got != want {
			t.Fatalf("unexpected parse of %q: got %q ok=%v", raw, got, ok)
		}
	}
	if _, ok := Locations.Parse("moon"); ok {
		t.Fatalf("expected unknown location to be rejected")
	}
	if got, ok := Industries.Parse("Software Engineering"); !ok || got != enums.IndustrySoftwareEngineering {
		t.Fatalf("unexpected industry parse: got %q ok=%v", got, ok)
	}
}

func TestEncodeUsesDimensionOrder(t *testing.T) {
	c := model.Candidate{
		ID:              7,
		Location:        enums.JobLocationHybrid,
		JobType:         enums.JobTypePartTime,
		ExperienceLevel: enums.ExperienceLevelMiddle,
		Industry:        enums.IndustryFinance,
	}
	vector, err := Encode(c, DefaultDimensions)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := FeatureVector{2, 1, 2}
	if len(vector) != len(want) {
		t.Fatalf("unexpected vector length: got %d want %d", len(vector), len(want))
	}
	for i := range want {
		if vector[i] != want[i] {
			t.Fatalf("unexpected vector[%d]: got %v want %v", i, vector[i], want[i])
		}
	}

	withIndustry, err := Encode(c, append(DefaultDimensions, DimensionIndustry))
	if err != nil {
		t.Fatalf("encode with industry: %v", err)
	}
	if withIndustry[3] != 1 {
		t.Fatalf("unexpected industry code: got %v want 1", withIndustry[3])
	}
}

func TestEncodeRejectsUnknownValue(t *testing.T) {
	c := model.Candidate{ID: 3, Location: "mars", JobType: enums.JobTypeFullTime, ExperienceLevel: enums.ExperienceLevelLead}
	_, err := Encode(c, DefaultDimensions)
	var malformed *MalformedFeatureError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed feature error, got %v", err)
	}
	if malformed.CandidateID != 3 || malformed.Dimension != DimensionLocation {
		t.Fatalf("unexpected malformed error: %+v", malformed)
	}
}

func mustCode[T ~string](t *testing.T, vocab Vocabulary[T], value T) int {
	t.Helper()
	code, ok := vocab.Code(value)
	if !ok {
		t.Fatalf("no code for %q", value)
	}
	return code
}
