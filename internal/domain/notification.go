package domain

import "time"

// NotificationType é um tipo string para o tipo enumerado de notificação.
type NotificationType string

// Tipos de notificação suportados.
const (
	NotificationLowStock       NotificationType = "low_stock"
	NotificationSystem         NotificationType = "system"
	NotificationActionRequired NotificationType = "action_required"
)

// Valid informa se o tipo pertence ao conjunto enumerado.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLowStock, NotificationSystem, NotificationActionRequired:
		return true
	}
	return false
}

// Notification representa um aviso persistido para um usuário.
// Criada apenas pelo serviço de notificações; nunca é removida
// automaticamente, apenas marcada como lida.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
