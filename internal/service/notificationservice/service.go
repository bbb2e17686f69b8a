package notificationservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
)

// NotificationRepository define o contrato que o Serviço de Notificações
// espera da camada de Persistência.
type NotificationRepository interface {
	Insert(ctx context.Context, n domain.Notification) (domain.Notification, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// Service é a estrutura que implementa a lógica de negócio de notificações.
type Service struct {
	repo   NotificationRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Notificações.
func NewService(repo NotificationRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateNotification adiciona um registro de notificação não lida para o
// usuário. É um append puro: não há deduplicação nem rate limiting — cada
// evento gera um novo registro mesmo que um idêntico exista sem resolução.
func (s *Service) CreateNotification(ctx context.Context, userID, message string, ntype domain.NotificationType) (domain.Notification, error) {
	if userID == "" {
		return domain.Notification{}, apperror.NewValidationError("O usuário da notificação é obrigatório.")
	}
	if message == "" {
		return domain.Notification{}, apperror.NewValidationError("A mensagem da notificação não pode ser vazia.")
	}
	if !ntype.Valid() {
		return domain.Notification{}, apperror.NewValidationError(fmt.Sprintf("Tipo de notificação inválido: %s", ntype))
	}

	n := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Type:      ntype,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, n)
	if err != nil {
		s.logger.Error("Falha ao persistir notificação.", err)
		return domain.Notification{}, err
	}
	return created, nil
}

// HandleLowStock compõe a mensagem de estoque baixo e dispara os canais
// conforme as preferências do usuário. As flags controlam apenas os canais
// persistidos: a mensagem retornada é sempre exibida como alerta transitório
// ao usuário ativo, independentemente das preferências. Falha na persistência
// da notificação é registrada, mas nunca derruba a operação de inventário que
// a originou.
func (s *Service) HandleLowStock(ctx context.Context, fabricName string, quantity int, user domain.User) string {
	message := fmt.Sprintf("Estoque Baixo: %s está com %d reabasteça", fabricName, quantity)

	if user.Preferences.InApp {
		if _, err := s.repo.Insert(ctx, domain.Notification{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Message:   message,
			Type:      domain.NotificationLowStock,
			Read:      false,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			s.logger.Error("Falha ao registrar notificação de estoque baixo.", err)
		}
	}

	if user.Preferences.Email {
		// Canal de e-mail é um stub: o envio é apenas registrado no log.
		s.logger.Info("Enviando notificação por e-mail.", map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
			"message": message,
		})
	}

	return message
}

// ListByUser retorna as notificações do usuário autenticado.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, apperror.NewValidationError("O usuário é obrigatório.")
	}
	return s.repo.FindByUser(ctx, userID)
}

// MarkRead marca uma notificação do usuário como lida.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da notificação deve ser um UUID válido.")
	}
	return s.repo.MarkRead(ctx, id, userID)
}
