package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sanguo/internal/adapter/repo/gorm/model"
	"sanguo/internal/app/ports"
	"sanguo/internal/domain/world"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActionLogRepo struct {
	db *gorm.DB
}

var _ ports.ActionLogRepository = ActionLogRepo{}

func NewActionLogRepo(db *gorm.DB) ActionLogRepo {
	return ActionLogRepo{db: db}
}

func (r ActionLogRepo) Append(ctx context.Context, record ports.ActionRecord) error {
	row, err := toActionLogModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: action record %s already logged", ports.ErrConflict, row.ID)
		}
		return fmt.Errorf("%w: append action log: %v", ports.ErrStorageWrite, err)
	}
	return nil
}

func (r ActionLogRepo) List(ctx context.Context, limit int) ([]ports.ActionRecord, error) {
	rows := []model.ActionLog{}
	query := r.db.WithContext(ctx).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "seq"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.ActionRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := toActionRecord(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func toActionLogModel(record ports.ActionRecord) (model.ActionLog, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return model.ActionLog{}, fmt.Errorf("encode action payload: %w", err)
	}
	return model.ActionLog{
		ID:         record.ID,
		ActionType: string(record.Payload.Type),
		Actor:      record.Payload.Actor,
		Payload:    string(payload),
		Accepted:   record.Accepted,
		Rule:       string(record.Rule),
		Reason:     record.Reason,
		TimeBefore: int64(record.TimeBefore),
		TimeAfter:  int64(record.TimeAfter),
		RecordedAt: record.RecordedAt,
	}, nil
}

func toActionRecord(row model.ActionLog) (ports.ActionRecord, error) {
	var payload world.Payload
	if row.Payload != "" {
		if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
			return ports.ActionRecord{}, fmt.Errorf("decode action log %s payload: %w", row.ID, err)
		}
	}
	return ports.ActionRecord{
		ID:         row.ID,
		Payload:    payload,
		Accepted:   row.Accepted,
		Rule:       world.Rule(row.Rule),
		Reason:     row.Reason,
		TimeBefore: int(row.TimeBefore),
		TimeAfter:  int(row.TimeAfter),
		RecordedAt: row.RecordedAt,
	}, nil
}
