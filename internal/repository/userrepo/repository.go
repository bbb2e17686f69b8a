package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
)

// Código de erro do PostgreSQL para violação de chave única.
const pgUniqueViolation = "23505"

const userColumns = `id, email, password_hash, display_name, photo_url, notify_email, notify_in_app, created_at, updated_at`

// UserRepository implementa o contrato de persistência de usuários.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

func scanUser(row interface{ Scan(...interface{}) error }) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.PhotoURL,
		&user.Preferences.Email, &user.Preferences.InApp,
		&user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// Save insere um novo usuário no banco de dados.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	const insertSQL = `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.PhotoURL,
		user.Preferences.Email, user.Preferences.InApp,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		// Violação de unicidade do e-mail vira um Conflito de negócio (409).
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			r.logger.Info("Tentativa de registro com e-mail duplicado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao inserir usuário", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, email))

	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Usuário não encontrado no DB por email.", map[string]interface{}{"email": email})
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário por email", err)
	}

	return user, nil
}

// FindByID busca um usuário pelo ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, id))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário por ID", err)
	}

	return user, nil
}

// UpdateProfile atualiza o nome de exibição e as preferências de notificação.
// O e-mail é imutável e não participa do UPDATE.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `
        UPDATE users
        SET display_name = $1, notify_email = $2, notify_in_app = $3, updated_at = $4
        WHERE id = $5
        RETURNING ` + userColumns

	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, updateSQL,
		update.DisplayName, update.Preferences.Email, update.Preferences.InApp,
		time.Now().UTC(), userID,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado", userID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar perfil no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao atualizar perfil", err)
	}

	r.logger.Info("Perfil atualizado com sucesso.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}
