package repository

import (
	"context"
	"strings"

	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() auditdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *auditdomain.AuditLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO audit_logs (
			id, actor_type, actor_id, action, target_type, target_id, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ActorType,
		entry.ActorID,
		entry.Action,
		entry.TargetType,
		entry.TargetID,
		entry.Metadata,
		entry.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req auditdomain.ListRequest) ([]auditdomain.AuditLog, error) {
	query := `SELECT id, actor_type, actor_id, action, target_type, target_id, metadata, created_at
	 FROM audit_logs WHERE 1=1`
	args := []any{}

	if action := strings.TrimSpace(req.Action); action != "" {
		query += ` AND action = ?`
		args = append(args, action)
	}
	if targetType := strings.TrimSpace(req.TargetType); targetType != "" {
		query += ` AND target_type = ?`
		args = append(args, targetType)
	}
	if targetID := strings.TrimSpace(req.TargetID); targetID != "" {
		query += ` AND target_id = ?`
		args = append(args, targetID)
	}

	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	var items []auditdomain.AuditLog
	err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
