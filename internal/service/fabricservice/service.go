package fabricservice

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/lowstock"
	"tecistock/internal/pkg/cache"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/taxonomy"
)

// Prefixo das chaves de token de confirmação de exclusão no cache.
const deleteTokenKey = "fabric-delete:%s"

// FabricRepository define o contrato que este Serviço espera da camada de
// Persistência (DB, Cache).
type FabricRepository interface {
	Save(ctx context.Context, fabric domain.Fabric) (domain.Fabric, error)
	FindByID(ctx context.Context, id string) (domain.Fabric, error)
	FindAll(ctx context.Context) ([]domain.Fabric, error)
	Update(ctx context.Context, fabric domain.Fabric) (domain.Fabric, error)
	Delete(ctx context.Context, id string) error
}

// UserFinder busca o usuário ativo para a decisão de canais de notificação.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// LowStockNotifier dispara a notificação de estoque baixo e retorna a
// mensagem do alerta transitório.
type LowStockNotifier interface {
	HandleLowStock(ctx context.Context, fabricName string, quantity int, user domain.User) string
}

// FabricInput é o payload de entrada para criação e atualização de tecidos.
type FabricInput struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	SubType     string  `json:"sub_type"`
	Supplier    string  `json:"supplier"`
	Color       string  `json:"color"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity"`
}

// Service é a estrutura que implementa a lógica de negócio do inventário.
type Service struct {
	repo       FabricRepository
	users      UserFinder
	notifier   LowStockNotifier
	cache      cache.Client
	confirmTTL time.Duration
	hub        *lowstock.Hub
	categories *taxonomy.Taxonomy
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Inventário.
func NewService(repo FabricRepository, users UserFinder, notifier LowStockNotifier, cacheClient cache.Client, confirmTTL time.Duration, hub *lowstock.Hub, categories *taxonomy.Taxonomy, logger logger.Logger) *Service {
	return &Service{
		repo:       repo,
		users:      users,
		notifier:   notifier,
		cache:      cacheClient,
		confirmTTL: confirmTTL,
		hub:        hub,
		categories: categories,
		logger:     logger,
	}
}

// CreateFabric valida e persiste um novo tecido, carimbando os campos de
// auditoria com o usuário atual. Se o estoque inicial já estiver baixo, a
// notificação é disparada após a persistência (nunca antes: se a escrita
// falhar, nenhuma notificação é emitida). Retorna também a mensagem de
// alerta de estoque baixo, vazia quando não houver.
func (s *Service) CreateFabric(ctx domain.Context, input FabricInput, userID string) (domain.Fabric, string, error) {
	s.logger.Debug("Iniciando criação de tecido no serviço.", map[string]interface{}{"name": input.Name, "user_id": userID})

	if err := s.validateInput(input); err != nil {
		return domain.Fabric{}, "", err
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para CreateFabric", nil)
	}

	now := time.Now().UTC()
	fabric := domain.Fabric{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(input.Name),
		Type:           input.Type,
		SubType:        input.SubType,
		Supplier:       strings.TrimSpace(input.Supplier),
		Color:          input.Color,
		Price:          input.Price,
		Quantity:       input.Quantity,
		MinQuantity:    input.MinQuantity,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      userID,
		LastModifiedBy: userID,
	}

	created, err := s.repo.Save(ctxGo, fabric)
	if err != nil {
		s.logger.Error("Falha ao criar tecido no repositório.", err)
		return domain.Fabric{}, "", err
	}

	warning := s.checkLowStock(ctxGo, created, userID)
	s.RefreshLowStock(ctxGo)

	s.logger.Info("Tecido criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, warning, nil
}

// UpdateFabric sobrescreve os campos mutáveis de um tecido e reavalia a
// condição de estoque baixo com os valores NOVOS, tenham eles mudado ou não.
// A verificação é repetida a cada chamada; não há supressão de notificações
// duplicadas para um estado de estoque baixo recorrente.
func (s *Service) UpdateFabric(ctx domain.Context, id string, input FabricInput, userID string) (domain.Fabric, string, error) {
	s.logger.Debug("Iniciando atualização de tecido no serviço.", map[string]interface{}{"id": id, "user_id": userID})

	if _, err := uuid.Parse(id); err != nil {
		return domain.Fabric{}, "", apperror.NewValidationError("O ID do tecido deve ser um UUID válido.")
	}
	if err := s.validateInput(input); err != nil {
		return domain.Fabric{}, "", err
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para UpdateFabric", nil)
	}

	fabric := domain.Fabric{
		ID:             id,
		Name:           strings.TrimSpace(input.Name),
		Type:           input.Type,
		SubType:        input.SubType,
		Supplier:       strings.TrimSpace(input.Supplier),
		Color:          input.Color,
		Price:          input.Price,
		Quantity:       input.Quantity,
		MinQuantity:    input.MinQuantity,
		UpdatedAt:      time.Now().UTC(),
		LastModifiedBy: userID,
	}

	updated, err := s.repo.Update(ctxGo, fabric)
	if err != nil {
		s.logger.Error("Falha ao atualizar tecido no repositório.", err)
		return domain.Fabric{}, "", err
	}

	warning := s.checkLowStock(ctxGo, updated, userID)
	s.RefreshLowStock(ctxGo)

	s.logger.Info("Tecido atualizado com sucesso.", map[string]interface{}{"id": updated.ID, "quantity": updated.Quantity})
	return updated, warning, nil
}

// GetFabricByID busca um tecido pelo ID.
func (s *Service) GetFabricByID(ctx domain.Context, id string) (domain.Fabric, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Fabric{}, apperror.NewValidationError("O ID do tecido deve ser um UUID válido.")
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	return s.repo.FindByID(ctxGo, id)
}

// ListFabrics retorna os tecidos que satisfazem o filtro conjuntivo
// (substring sobre nome/tipo, igualdade sobre tipo e subtipo). O filtro é
// aplicado em memória sobre a coleção completa, preservando o comportamento
// de filtragem do lado do cliente.
func (s *Service) ListFabrics(ctx domain.Context, filter domain.FabricFilter) ([]domain.Fabric, error) {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	fabrics, err := s.repo.FindAll(ctxGo)
	if err != nil {
		s.logger.Error("Falha ao listar tecidos no repositório.", err)
		return nil, err
	}

	filtered := make([]domain.Fabric, 0, len(fabrics))
	for _, f := range fabrics {
		if filter.Matches(f) {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// ListLowStock retorna os tecidos com estoque baixo que satisfazem o filtro.
// Invariante: um tecido aparece aqui se e somente se quantity <= minQuantity.
func (s *Service) ListLowStock(ctx domain.Context, filter domain.FabricFilter) ([]domain.Fabric, error) {
	fabrics, err := s.ListFabrics(ctx, filter)
	if err != nil {
		return nil, err
	}

	low := make([]domain.Fabric, 0, len(fabrics))
	for _, f := range fabrics {
		if f.IsLowStock() {
			low = append(low, f)
		}
	}
	return low, nil
}

// Summary agrega os indicadores do painel: totais, valor de estoque e média.
func (s *Service) Summary(ctx domain.Context) (domain.InventorySummary, error) {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	fabrics, err := s.repo.FindAll(ctxGo)
	if err != nil {
		return domain.InventorySummary{}, err
	}

	summary := domain.InventorySummary{TotalFabrics: len(fabrics)}
	totalQuantity := 0
	for _, f := range fabrics {
		if f.IsLowStock() {
			summary.LowStockFabrics++
		}
		summary.TotalValue += f.Price * float64(f.Quantity)
		totalQuantity += f.Quantity
	}
	if len(fabrics) > 0 {
		summary.AverageQuantity = int(math.Round(float64(totalQuantity) / float64(len(fabrics))))
	}
	return summary, nil
}

// ArmDelete arma a exclusão de um tecido: verifica que ele existe e emite um
// token de confirmação de uso único, com validade curta, guardado no cache.
// A exclusão em si só acontece em ConfirmDelete com o token correto — uma
// chamada de exclusão sem confirmação prévia nunca toca o banco.
func (s *Service) ArmDelete(ctx domain.Context, id string) (string, error) {
	s.logger.Debug("Armando exclusão de tecido.", map[string]interface{}{"id": id})

	if _, err := uuid.Parse(id); err != nil {
		return "", apperror.NewValidationError("O ID do tecido deve ser um UUID válido.")
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if _, err := s.repo.FindByID(ctxGo, id); err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.cache.Set(ctxGo, fmt.Sprintf(deleteTokenKey, id), token, s.confirmTTL); err != nil {
		s.logger.Error("Falha ao armazenar token de confirmação de exclusão.", err)
		return "", apperror.NewInternalError("Falha ao armar exclusão.", err)
	}

	return token, nil
}

// ConfirmDelete conclui a exclusão em duas etapas: confere o token emitido em
// ArmDelete e, somente então, remove o tecido.
func (s *Service) ConfirmDelete(ctx domain.Context, id, token string) error {
	s.logger.Debug("Confirmando exclusão de tecido.", map[string]interface{}{"id": id})

	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do tecido deve ser um UUID válido.")
	}
	if token == "" {
		return apperror.NewValidationError("O token de confirmação de exclusão é obrigatório.")
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	key := fmt.Sprintf(deleteTokenKey, id)
	stored, err := s.cache.Get(ctxGo, key)
	if err == cache.ErrCacheMiss {
		return apperror.NewConflictError("A exclusão não foi armada ou o token expirou. Solicite a exclusão novamente.")
	}
	if err != nil {
		s.logger.Error("Falha ao ler token de confirmação de exclusão.", err)
		return apperror.NewInternalError("Falha ao confirmar exclusão.", err)
	}
	if stored != token {
		s.logger.Warn("Token de confirmação de exclusão inválido.", map[string]interface{}{"id": id})
		return apperror.NewConflictError("Token de confirmação de exclusão inválido.")
	}

	if err := s.repo.Delete(ctxGo, id); err != nil {
		s.logger.Error("Falha ao excluir tecido no repositório.", err)
		return err
	}

	// Token é de uso único: descartado após a exclusão.
	s.cache.Delete(ctxGo, key)
	s.RefreshLowStock(ctxGo)

	s.logger.Info("Tecido excluído com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// SubscribeLowStock registra um assinante do fluxo de snapshots de estoque
// baixo. O snapshot atual é entregue imediatamente na assinatura.
func (s *Service) SubscribeLowStock(ctx context.Context) (<-chan []domain.Fabric, func()) {
	ch, cancel := s.hub.Subscribe()
	s.RefreshLowStock(ctx)
	return ch, cancel
}

// RefreshLowStock recalcula o conjunto completo de tecidos com estoque baixo
// e o reentrega a todos os assinantes. Chamado após toda mutação de
// inventário (inclusive reconciliação de entregas).
func (s *Service) RefreshLowStock(ctx context.Context) {
	if s.hub == nil || s.hub.Subscribers() == 0 {
		return
	}

	fabrics, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao recalcular snapshot de estoque baixo.", err)
		return
	}

	low := make([]domain.Fabric, 0)
	for _, f := range fabrics {
		if f.IsLowStock() {
			low = append(low, f)
		}
	}
	s.hub.Publish(low)
}

// checkLowStock reavalia a condição de estoque baixo após uma mutação e
// dispara a notificação quando aplicável. Retorna a mensagem do alerta
// transitório (vazia quando o estoque está saudável).
func (s *Service) checkLowStock(ctx context.Context, fabric domain.Fabric, userID string) string {
	if !fabric.IsLowStock() {
		return ""
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		// Sem o usuário não há como decidir canais; registra e segue.
		s.logger.Error("Falha ao buscar usuário para notificação de estoque baixo.", err)
		return ""
	}

	return s.notifier.HandleLowStock(ctx, fabric.Name, fabric.Quantity, user)
}

// validateInput aplica as regras de validação de entrada de tecidos.
func (s *Service) validateInput(input FabricInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperror.NewValidationError("O nome do tecido não pode ser vazio.")
	}
	if strings.TrimSpace(input.Supplier) == "" {
		return apperror.NewValidationError("O fornecedor do tecido é obrigatório.")
	}
	if strings.TrimSpace(input.Color) == "" {
		return apperror.NewValidationError("A cor do tecido é obrigatória.")
	}
	if input.Price < 0 {
		return apperror.NewValidationError("O preço do tecido não pode ser negativo.")
	}
	if input.Quantity < 0 {
		return apperror.NewValidationError("A quantidade em estoque não pode ser negativa.")
	}
	if input.MinQuantity < 0 {
		return apperror.NewValidationError("O estoque mínimo não pode ser negativo.")
	}
	if !s.categories.ValidPair(input.Type, input.SubType) {
		return apperror.NewValidationError(fmt.Sprintf("Categoria inválida: '%s' / '%s' não pertence à taxonomia.", input.Type, input.SubType))
	}
	return nil
}
