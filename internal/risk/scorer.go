package risk

import (
	"context"

	"bookable/pkg/config"
	"bookable/pkg/model"
)

// Predictor is the opaque external risk model.
type Predictor interface {
	Predict(ctx context.Context, features model.RiskFeatures) (float64, error)
}

// Scorer combines the predictor's score with the deposit policy. When the
// model cannot be reached the booking proceeds with a zero score and no
// deposit; losing a prediction must not lose a customer.
type Scorer struct {
	predictor Predictor
	cfg       *config.Config
}

func NewScorer(predictor Predictor, cfg *config.Config) *Scorer {
	return &Scorer{
		predictor: predictor,
		cfg:       cfg,
	}
}

func (s *Scorer) Assess(ctx context.Context, features model.RiskFeatures) model.RiskAssessment {
	assessment := model.RiskAssessment{Features: features}

	score, err := s.predictor.Predict(ctx, features)
	if err != nil {
		s.cfg.Log.Warn("Risk prediction failed, admitting without deposit",
			"error", err,
		)
		assessment.Degraded = true
		return assessment
	}

	assessment.Score = score
	assessment.DepositRequired = score > s.cfg.DepositRiskThreshold
	return assessment
}
