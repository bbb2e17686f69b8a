package transitservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/service/transitservice"
	"tecistock/internal/taxonomy"
)

// MockTransitRepository é uma implementação mock da interface TransitRepository
type MockTransitRepository struct {
	mock.Mock
}

func (m *MockTransitRepository) Save(ctx context.Context, item domain.InTransitItem) (domain.InTransitItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(domain.InTransitItem), args.Error(1)
}

func (m *MockTransitRepository) FindByID(ctx context.Context, id string) (domain.InTransitItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.InTransitItem), args.Error(1)
}

func (m *MockTransitRepository) FindAll(ctx context.Context) ([]domain.InTransitItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InTransitItem), args.Error(1)
}

func (m *MockTransitRepository) Update(ctx context.Context, item domain.InTransitItem) (domain.InTransitItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(domain.InTransitItem), args.Error(1)
}

func (m *MockTransitRepository) ReceiveDelivery(ctx context.Context, itemID, userID string) (domain.Fabric, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Get(0).(domain.Fabric), args.Error(1)
}

// MockRefresher é um mock da interface StockRefresher
type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) RefreshLowStock(ctx context.Context) {
	m.Called(ctx)
}

func validInput() transitservice.TransitInput {
	return transitservice.TransitInput{
		FabricName:   "Sarja Bege",
		FabricType:   "Calça de Sarja",
		SubType:      "Sarja",
		Supplier:     "Têxtil Norte",
		Quantity:     40,
		ExpectedDate: "2026-09-15",
	}
}

// TestAddInTransit_Success testa o registro de um novo pedido em trânsito.
func TestAddInTransit_Success(t *testing.T) {
	mockRepo := new(MockTransitRepository)
	svc := transitservice.NewService(mockRepo, new(MockRefresher), taxonomy.Default(), logger.NewLogger("debug"))

	expectedDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(item domain.InTransitItem) bool {
		return item.ID != "" &&
			item.FabricName == "Sarja Bege" &&
			item.ExpectedDate.Equal(expectedDate)
	})).Return(domain.InTransitItem{ID: "item-1", FabricName: "Sarja Bege"}, nil)

	created, err := svc.AddInTransit(context.Background(), validInput())

	assert.NoError(t, err)
	assert.Equal(t, "item-1", created.ID)
	mockRepo.AssertExpectations(t)
}

// TestAddInTransit_ValidationErrors testa as regras de validação do pedido.
func TestAddInTransit_ValidationErrors(t *testing.T) {
	mockRepo := new(MockTransitRepository)
	svc := transitservice.NewService(mockRepo, new(MockRefresher), taxonomy.Default(), logger.NewLogger("debug"))

	cases := []struct {
		name   string
		mutate func(*transitservice.TransitInput)
	}{
		{"nome vazio", func(i *transitservice.TransitInput) { i.FabricName = " " }},
		{"tipo vazio", func(i *transitservice.TransitInput) { i.FabricType = "" }},
		{"subtipo vazio", func(i *transitservice.TransitInput) { i.SubType = "" }},
		{"categoria inexistente", func(i *transitservice.TransitInput) { i.FabricType = "Vestido" }},
		{"subtipo de outra categoria", func(i *transitservice.TransitInput) { i.SubType = "Piquet" }},
		{"categoria e subtipo inválidos", func(i *transitservice.TransitInput) { i.FabricType = "Vestido"; i.SubType = "" }},
		{"fornecedor vazio", func(i *transitservice.TransitInput) { i.Supplier = "" }},
		{"quantidade zero", func(i *transitservice.TransitInput) { i.Quantity = 0 }},
		{"quantidade negativa", func(i *transitservice.TransitInput) { i.Quantity = -5 }},
		{"data malformada", func(i *transitservice.TransitInput) { i.ExpectedDate = "15/09/2026" }},
		{"data vazia", func(i *transitservice.TransitInput) { i.ExpectedDate = "" }},
	}

	for _, tc := range cases {
		input := validInput()
		tc.mutate(&input)

		_, err := svc.AddInTransit(context.Background(), input)

		assert.Error(t, err, tc.name)
		assert.IsType(t, &apperror.ValidationError{}, err, tc.name)
	}

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestUpdateInTransit_Success testa a atualização de um pedido existente.
func TestUpdateInTransit_Success(t *testing.T) {
	mockRepo := new(MockTransitRepository)
	svc := transitservice.NewService(mockRepo, new(MockRefresher), taxonomy.Default(), logger.NewLogger("debug"))

	id := uuid.NewString()
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(item domain.InTransitItem) bool {
		return item.ID == id && item.Quantity == 40
	})).Return(domain.InTransitItem{ID: id, Quantity: 40}, nil)

	updated, err := svc.UpdateInTransit(context.Background(), id, validInput())

	assert.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	mockRepo.AssertExpectations(t)
}

// TestUpdateInTransit_InvalidID testa a rejeição de ID malformado.
func TestUpdateInTransit_InvalidID(t *testing.T) {
	mockRepo := new(MockTransitRepository)
	svc := transitservice.NewService(mockRepo, new(MockRefresher), taxonomy.Default(), logger.NewLogger("debug"))

	_, err := svc.UpdateInTransit(context.Background(), "nao-e-uuid", validInput())

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestListInTransit_AppliesFilter testa a filtragem conjuntiva da listagem.
func TestListInTransit_AppliesFilter(t *testing.T) {
	mockRepo := new(MockTransitRepository)
	svc := transitservice.NewService(mockRepo, new(MockRefresher), taxonomy.Default(), logger.NewLogger("debug"))

	all := []domain.InTransitItem{
		{ID: "1", FabricName: "Sarja Bege", FabricType: "Calça de Sarja", Supplier: "Têxtil Norte"},
		{ID: "2", FabricName: "Piquet Azul", FabricType: "Camiseta Polo", Supplier: "Malhas Sul"},
	}
	mockRepo.On("FindAll", mock.Anything).Return(all, nil)

	result, err := svc.ListInTransit(context.Background(), domain.TransitFilter{Search: "norte"})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "1", result[0].ID)
}

// TestReceiveDelivery_Success testa a confirmação de entrega: reconciliação
// delegada ao repositório, snapshot de estoque baixo reentregue e mensagem de
// sucesso retornada.
func TestReceiveDelivery_Success(t *testing.T) {
	mockRepo := new(MockTransitRepository)
	mockRefresher := new(MockRefresher)
	svc := transitservice.NewService(mockRepo, mockRefresher, taxonomy.Default(), logger.NewLogger("debug"))

	itemID := uuid.NewString()
	merged := domain.Fabric{ID: "fab-1", Name: "Sarja Bege", Quantity: 90}

	mockRepo.On("ReceiveDelivery", mock.Anything, itemID, "user-1").Return(merged, nil)
	mockRefresher.On("RefreshLowStock", mock.Anything).Return()

	fabric, alert, err := svc.ReceiveDelivery(context.Background(), itemID, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "fab-1", fabric.ID)
	assert.Equal(t, 90, fabric.Quantity)
	assert.Equal(t, "Entrega confirmada com sucesso!", alert)
	mockRepo.AssertExpectations(t)
	mockRefresher.AssertExpectations(t)
}

// TestReceiveDelivery_RetryAfterSuccessIsNotFound testa a garantia de
// exatamente-uma-vez: a repetição após sucesso encontra o item ausente.
func TestReceiveDelivery_RetryAfterSuccessIsNotFound(t *testing.T) {
	mockRepo := new(MockTransitRepository)
	mockRefresher := new(MockRefresher)
	svc := transitservice.NewService(mockRepo, mockRefresher, taxonomy.Default(), logger.NewLogger("debug"))

	itemID := uuid.NewString()
	mockRepo.On("ReceiveDelivery", mock.Anything, itemID, "user-1").
		Return(domain.Fabric{}, apperror.NewNotFoundError("Item em trânsito não existe."))

	_, _, err := svc.ReceiveDelivery(context.Background(), itemID, "user-1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	// Nenhuma mutação aconteceu: o snapshot não é reentregue.
	mockRefresher.AssertNotCalled(t, "RefreshLowStock", mock.Anything)
}

// TestReceiveDelivery_InvalidID testa a rejeição de ID malformado.
func TestReceiveDelivery_InvalidID(t *testing.T) {
	mockRepo := new(MockTransitRepository)
	svc := transitservice.NewService(mockRepo, new(MockRefresher), taxonomy.Default(), logger.NewLogger("debug"))

	_, _, err := svc.ReceiveDelivery(context.Background(), "nao-e-uuid", "user-1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "ReceiveDelivery", mock.Anything, mock.Anything, mock.Anything)
}
