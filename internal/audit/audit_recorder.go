package audit

import (
	"context"
	"encoding/json"

	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder persists audit entries. A failed write is logged and never reaches the caller.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

type gormRecorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRecorder(db *gorm.DB, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}
	return &gormRecorder{db: db, logger: l}
}

func (r *gormRecorder) Record(ctx context.Context, e Entry) {
	log := contextutil.GetLogger(ctx, r.logger)

	details, err := json.Marshal(e.Details)
	if err != nil {
		log.Warn("audit details encode failed", zap.String("action", e.Action), zap.Error(err))
		details = []byte("{}")
	}

	row := &Log{
		ID:          uuid.New(),
		Action:      e.Action,
		TargetID:    e.TargetID,
		PerformedBy: e.PerformedBy,
		Details:     details,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		log.Warn("audit record failed",
			zap.String("action", e.Action),
			zap.String("target_id", e.TargetID),
			zap.String("performed_by", e.PerformedBy),
			zap.Error(err),
		)
	}
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, Entry) {}

func Nop() Recorder {
	return nopRecorder{}
}
