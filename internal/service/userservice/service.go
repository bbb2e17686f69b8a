package userservice

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
)

// UserRepository define o contrato que o Serviço de Usuários espera da
// camada de Persistência.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error)
}

// TokenService gera o JWT de sessão após a autenticação.
type TokenService interface {
	GenerateToken(userID, email string) (string, error)
}

// Service é a estrutura que implementa a lógica de negócio de usuários.
type Service struct {
	repo   UserRepository
	tokens TokenService
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Usuários.
func NewService(repo UserRepository, tokens TokenService, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Register cria uma nova conta. Ambos os canais de notificação nascem
// habilitados; o usuário os desliga depois no perfil, se quiser.
func (s *Service) Register(ctx context.Context, reg domain.UserRegistration) (domain.User, error) {
	s.logger.Debug("Iniciando registro de usuário no serviço.", map[string]interface{}{"email": reg.Email})

	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, apperror.NewValidationError("O email informado é inválido.")
	}
	if len(reg.Password) < 6 {
		return domain.User{}, apperror.NewValidationError("A senha deve ter pelo menos 6 caracteres.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Falha ao gerar hash de senha.", err)
		return domain.User{}, apperror.NewInternalError("Falha ao processar senha.", err)
	}

	displayName := strings.TrimSpace(reg.DisplayName)
	if displayName == "" {
		// Sem nome de exibição, usa a parte local do e-mail.
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	user := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Preferences: domain.NotificationPreferences{
			Email: true,
			InApp: true,
		},
	}

	created, err := s.repo.Save(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado com sucesso.", map[string]interface{}{"user_id": created.ID, "email": created.Email})
	return created, nil
}

// Login autentica pelo par email/senha e emite o JWT de sessão.
// Usuário inexistente e senha errada retornam o mesmo 401 genérico, sem
// revelar qual dos dois falhou.
func (s *Service) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	s.logger.Debug("Iniciando autenticação no serviço.", map[string]interface{}{"email": email})

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domain.User{}, apperror.NewValidationError("Email e senha são obrigatórios.")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Usuário inexistente é rebaixado para 401 para não vazar quais
		// emails existem na base.
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Tentativa de login com senha inválida.", map[string]interface{}{"email": email})
		return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Falha ao gerar token de sessão.", err)
		return "", domain.User{}, apperror.NewInternalError("Falha ao gerar token de sessão.", err)
	}

	s.logger.Info("Login realizado com sucesso.", map[string]interface{}{"user_id": user.ID})
	return token, user, nil
}

// GetProfile retorna o perfil do usuário autenticado.
func (s *Service) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, apperror.NewValidationError("O usuário é obrigatório.")
	}
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile atualiza o nome de exibição e as preferências de notificação
// do usuário autenticado. O e-mail não pode ser alterado.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error) {
	s.logger.Debug("Iniciando atualização de perfil no serviço.", map[string]interface{}{"user_id": userID})

	if userID == "" {
		return domain.User{}, apperror.NewValidationError("O usuário é obrigatório.")
	}
	if strings.TrimSpace(update.DisplayName) == "" {
		return domain.User{}, apperror.NewValidationError("O nome de exibição não pode ser vazio.")
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		s.logger.Error("Falha ao atualizar perfil no repositório.", err)
		return domain.User{}, err
	}

	s.logger.Info("Perfil atualizado com sucesso.", map[string]interface{}{"user_id": updated.ID})
	return updated, nil
}
