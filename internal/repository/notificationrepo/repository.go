package notificationrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
)

// NotificationRepository implementa a persistência de notificações.
// A coleção é append-only: registros nunca são removidos, apenas marcados
// como lidos.
type NotificationRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewNotificationRepository cria uma nova instância do Repositório de Notificações.
func NewNotificationRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *NotificationRepository {
	return &NotificationRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Insert adiciona uma nova notificação.
func (r *NotificationRepository) Insert(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `
        INSERT INTO notifications (id, user_id, message, type, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		n.ID, n.UserID, n.Message, n.Type, n.Read, n.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir notificação no DB.", err)
		return domain.Notification{}, apperror.NewDBError("Falha ao inserir notificação", err)
	}

	r.logger.Info("Notificação criada.", map[string]interface{}{"id": n.ID, "user_id": n.UserID, "type": string(n.Type)})
	return n, nil
}

// FindByUser retorna as notificações do usuário, da mais recente para a mais antiga.
func (r *NotificationRepository) FindByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, user_id, message, type, read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, userID)
	if err != nil {
		r.logger.Error("Falha ao listar notificações no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar notificações", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear notificação", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer notificações", err)
	}

	return notifications, nil
}

// MarkRead marca uma notificação do usuário como lida.
// O filtro por user_id impede que um usuário marque notificações alheias.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Falha ao marcar notificação como lida.", err)
		return apperror.NewDBError("Falha ao marcar notificação como lida", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Notificação com ID %s não encontrada para este usuário.", id))
	}

	return nil
}
