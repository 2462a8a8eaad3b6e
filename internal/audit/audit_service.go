package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Recorder is the audit sink consumed by every state-changing service.
// Record never returns an error: a storage failure is logged and swallowed
// so the financial operation that triggered it is not rolled back.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
	Recent(ctx context.Context, limit int) ([]AuditLogResponse, error)
}

type recorder struct {
	repo   Repository
	logger *zap.Logger
	group  singleflight.Group
	now    func() time.Time
}

func NewRecorder(repo Repository, logger *zap.Logger) Recorder {
	return &recorder{
		repo:   repo,
		logger: logger.Named("audit"),
		now:    time.Now,
	}
}

func (r *recorder) Record(ctx context.Context, entry Entry) {
	row := &AuditLog{
		ID:         uuid.New(),
		ActorID:    parseOrNil(entry.ActorID),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   parseOrNil(entry.EntityID),
		Detail:     entry.Detail,
		CreatedAt:  r.now().UTC(),
	}

	if err := r.repo.Create(ctx, row); err != nil {
		r.logger.Warn("audit write failed, entry dropped",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
		return
	}

	r.logger.Info("audit event",
		zap.String("actor_id", entry.ActorID),
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
	)
}

// Recent returns the newest entries first. Concurrent identical reads are
// collapsed into one query via singleflight.
func (r *recorder) Recent(ctx context.Context, limit int) ([]AuditLogResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	key := fmt.Sprintf("recent:%d", limit)
	v, err, _ := r.group.Do(key, func() (any, error) {
		entries, err := r.repo.FindRecent(ctx, limit)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(entries), nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]AuditLogResponse), nil
}

func parseOrNil(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
