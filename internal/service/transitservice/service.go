package transitservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/taxonomy"
)

// Formato da data prevista de entrega aceito na entrada.
const expectedDateLayout = "2006-01-02"

// TransitRepository define o contrato que este Serviço espera da camada de
// Persistência de itens em trânsito.
type TransitRepository interface {
	Save(ctx context.Context, item domain.InTransitItem) (domain.InTransitItem, error)
	FindByID(ctx context.Context, id string) (domain.InTransitItem, error)
	FindAll(ctx context.Context) ([]domain.InTransitItem, error)
	Update(ctx context.Context, item domain.InTransitItem) (domain.InTransitItem, error)
	ReceiveDelivery(ctx context.Context, itemID, userID string) (domain.Fabric, error)
}

// StockRefresher reentrega o snapshot de estoque baixo após mutações de
// inventário originadas pela reconciliação de entregas.
type StockRefresher interface {
	RefreshLowStock(ctx context.Context)
}

// TransitInput é o payload de entrada para criação e atualização de itens
// em trânsito.
type TransitInput struct {
	FabricName   string `json:"fabric_name"`
	FabricType   string `json:"fabric_type"`
	SubType      string `json:"sub_type"`
	Supplier     string `json:"supplier"`
	Quantity     int    `json:"quantity"`
	ExpectedDate string `json:"expected_date"`
}

// Service é a estrutura que implementa a lógica de negócio de entregas.
type Service struct {
	repo       TransitRepository
	refresher  StockRefresher
	categories *taxonomy.Taxonomy
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Trânsito.
func NewService(repo TransitRepository, refresher StockRefresher, categories *taxonomy.Taxonomy, logger logger.Logger) *Service {
	return &Service{
		repo:       repo,
		refresher:  refresher,
		categories: categories,
		logger:     logger,
	}
}

// AddInTransit registra um novo pedido aguardando entrega.
func (s *Service) AddInTransit(ctx domain.Context, input TransitInput) (domain.InTransitItem, error) {
	s.logger.Debug("Iniciando criação de item em trânsito no serviço.", map[string]interface{}{"fabric_name": input.FabricName})

	expectedDate, err := s.validateInput(input)
	if err != nil {
		return domain.InTransitItem{}, err
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para AddInTransit", nil)
	}

	item := domain.InTransitItem{
		ID:           uuid.NewString(),
		FabricName:   strings.TrimSpace(input.FabricName),
		FabricType:   input.FabricType,
		SubType:      input.SubType,
		Supplier:     strings.TrimSpace(input.Supplier),
		Quantity:     input.Quantity,
		ExpectedDate: expectedDate,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Save(ctxGo, item)
	if err != nil {
		s.logger.Error("Falha ao criar item em trânsito no repositório.", err)
		return domain.InTransitItem{}, err
	}

	s.logger.Info("Item em trânsito criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// UpdateInTransit sobrescreve os campos de um pedido em trânsito existente.
func (s *Service) UpdateInTransit(ctx domain.Context, id string, input TransitInput) (domain.InTransitItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.InTransitItem{}, apperror.NewValidationError("O ID do item em trânsito deve ser um UUID válido.")
	}

	expectedDate, err := s.validateInput(input)
	if err != nil {
		return domain.InTransitItem{}, err
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para UpdateInTransit", nil)
	}

	item := domain.InTransitItem{
		ID:           id,
		FabricName:   strings.TrimSpace(input.FabricName),
		FabricType:   input.FabricType,
		SubType:      input.SubType,
		Supplier:     strings.TrimSpace(input.Supplier),
		Quantity:     input.Quantity,
		ExpectedDate: expectedDate,
	}

	updated, err := s.repo.Update(ctxGo, item)
	if err != nil {
		s.logger.Error("Falha ao atualizar item em trânsito no repositório.", err)
		return domain.InTransitItem{}, err
	}

	return updated, nil
}

// GetInTransitByID busca um item em trânsito pelo ID.
func (s *Service) GetInTransitByID(ctx domain.Context, id string) (domain.InTransitItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.InTransitItem{}, apperror.NewValidationError("O ID do item em trânsito deve ser um UUID válido.")
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	return s.repo.FindByID(ctxGo, id)
}

// ListInTransit retorna os itens em trânsito que satisfazem o filtro
// conjuntivo (substring sobre nome/fornecedor, igualdade sobre tipo e
// subtipo), aplicado em memória.
func (s *Service) ListInTransit(ctx domain.Context, filter domain.TransitFilter) ([]domain.InTransitItem, error) {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	items, err := s.repo.FindAll(ctxGo)
	if err != nil {
		s.logger.Error("Falha ao listar itens em trânsito no repositório.", err)
		return nil, err
	}

	filtered := make([]domain.InTransitItem, 0, len(items))
	for _, item := range items {
		if filter.Matches(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// ReceiveDelivery confirma a chegada de um pedido: o estoque é movido para o
// inventário em uma única transação e o item some da lista de trânsito.
// Retorna o tecido resultante e a mensagem de sucesso a exibir.
func (s *Service) ReceiveDelivery(ctx domain.Context, itemID, userID string) (domain.Fabric, string, error) {
	s.logger.Debug("Iniciando confirmação de entrega no serviço.", map[string]interface{}{"item_id": itemID, "user_id": userID})

	if _, err := uuid.Parse(itemID); err != nil {
		return domain.Fabric{}, "", apperror.NewValidationError("O ID do item em trânsito deve ser um UUID válido.")
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para ReceiveDelivery", nil)
	}

	fabric, err := s.repo.ReceiveDelivery(ctxGo, itemID, userID)
	if err != nil {
		s.logger.Error("Falha ao reconciliar entrega.", err)
		return domain.Fabric{}, "", err
	}

	s.refresher.RefreshLowStock(ctxGo)

	s.logger.Info("Entrega confirmada com sucesso.", map[string]interface{}{"item_id": itemID, "fabric_id": fabric.ID})
	return fabric, "Entrega confirmada com sucesso!", nil
}

// validateInput aplica as regras de validação de itens em trânsito e retorna
// a data prevista já convertida.
func (s *Service) validateInput(input TransitInput) (time.Time, error) {
	if strings.TrimSpace(input.FabricName) == "" {
		return time.Time{}, apperror.NewValidationError("O nome do tecido não pode ser vazio.")
	}
	if strings.TrimSpace(input.FabricType) == "" {
		return time.Time{}, apperror.NewValidationError("O tipo do tecido é obrigatório.")
	}
	if strings.TrimSpace(input.SubType) == "" {
		return time.Time{}, apperror.NewValidationError("O subtipo do tecido é obrigatório.")
	}
	// O par tipo/subtipo precisa ser válido já no pedido: a reconciliação da
	// entrega pode criar um tecido novo sem passar pela validação de inventário.
	if !s.categories.ValidPair(input.FabricType, input.SubType) {
		return time.Time{}, apperror.NewValidationError(fmt.Sprintf("Categoria inválida: '%s' / '%s' não pertence à taxonomia.", input.FabricType, input.SubType))
	}
	if strings.TrimSpace(input.Supplier) == "" {
		return time.Time{}, apperror.NewValidationError("O fornecedor é obrigatório.")
	}
	if input.Quantity <= 0 {
		return time.Time{}, apperror.NewValidationError("A quantidade do pedido deve ser maior que zero.")
	}

	expectedDate, err := time.Parse(expectedDateLayout, input.ExpectedDate)
	if err != nil {
		return time.Time{}, apperror.NewValidationError("A data prevista deve estar no formato AAAA-MM-DD.")
	}

	return expectedDate, nil
}
