package recommender

import (
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	"github.com/TLN1/linkr-back/backend/internal/domain/rules"
)

type Config struct {
	IncludeIndustry bool
}

// Service ranks candidates by summed cosine similarity to the actor's liked items.
// It holds no state between calls.
type Service struct {
	dims   []rules.Dimension
	logger *zap.Logger
}

func NewService(cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	dims := append([]rules.Dimension(nil), rules.DefaultDimensions...)
	if cfg.IncludeIndustry {
		dims = append(dims, rules.DimensionIndustry)
	}

	return &Service{dims: dims, logger: logger}
}

type scored struct {
	candidate model.Candidate
	score     float64
}

// Rerank returns candidate ids ordered by descending relevance.
func (s *Service) Rerank(liked, candidates []model.Candidate) []int64 {
	ranked := s.RerankCandidates(liked, candidates)
	ids := make([]int64, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.ID)
	}
	return ids
}

// RerankCandidates orders candidates by descending score. Ties keep their input
// order, and with no liked items the input is returned as is. A candidate whose
// attributes cannot be encoded scores 0 and is kept.
func (s *Service) RerankCandidates(liked, candidates []model.Candidate) []model.Candidate {
	if len(candidates) == 0 {
		return []model.Candidate{}
	}
	out := append([]model.Candidate(nil), candidates...)
	if len(liked) == 0 {
		return out
	}

	likedVectors := make([]rules.FeatureVector, 0, len(liked))
	for _, item := range liked {
		vector, err := rules.Encode(item, s.dims)
		if err != nil {
			s.logMalformed("liked item skipped", err)
			continue
		}
		likedVectors = append(likedVectors, vector)
	}
	if len(likedVectors) == 0 {
		return out
	}

	items := make([]scored, 0, len(out))
	for _, c := range out {
		vector, err := rules.Encode(c, s.dims)
		if err != nil {
			s.logMalformed("candidate scored zero", err)
			items = append(items, scored{candidate: c})
			continue
		}

		total := 0.0
		for _, likedVector := range likedVectors {
			total += CosineSimilarity(vector, likedVector)
		}
		items = append(items, scored{candidate: c, score: total})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	for i := range items {
		out[i] = items[i].candidate
	}
	return out
}

func (s *Service) logMalformed(msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	var malformed *rules.MalformedFeatureError
	if errors.As(err, &malformed) {
		fields = append(fields,
			zap.Int64("candidate_id", malformed.CandidateID),
			zap.String("dimension", string(malformed.Dimension)),
			zap.String("value", malformed.Value),
		)
	}
	s.logger.Warn(msg, fields...)
}

// CosineSimilarity is defined as 0 when either vector has zero norm or the lengths differ.
func CosineSimilarity(a, b rules.FeatureVector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
