package swipes

import (
	"context"

	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/domain/model"
)

// LogNotifier writes match events to the log. Used when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Publish(_ context.Context, event model.MatchEvent) error {
	n.logger.Info("match",
		zap.String("event_id", event.ID),
		zap.Int64("user_id", event.UserID),
		zap.Int64("application_id", event.ApplicationID),
		zap.Int64("owner_id", event.OwnerID),
		zap.Int64("company_id", event.CompanyID),
	)
	return nil
}
