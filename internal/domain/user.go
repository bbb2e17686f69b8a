package domain

import "time"

// NotificationPreferences guarda as flags de preferência do usuário.
// Elas controlam apenas as notificações persistidas (in-app) e o canal de
// e-mail; o alerta transitório de cada operação é exibido sempre.
type NotificationPreferences struct {
	Email bool `json:"email"`
	InApp bool `json:"in_app"`
}

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string                  `json:"id"`
	Email        string                  `json:"email"`
	PasswordHash string                  `json:"-"` // Oculta o hash da senha no JSON de resposta
	DisplayName  string                  `json:"display_name"`
	PhotoURL     string                  `json:"photo_url"`
	Preferences  NotificationPreferences `json:"notification_preferences"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// ProfileUpdate representa o payload de atualização de perfil.
// O e-mail é imutável; apenas nome de exibição e preferências mudam aqui.
type ProfileUpdate struct {
	DisplayName string                  `json:"display_name"`
	Preferences NotificationPreferences `json:"notification_preferences"`
}
