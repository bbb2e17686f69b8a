package fabricservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/lowstock"
	"tecistock/internal/pkg/cache"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/service/fabricservice"
	"tecistock/internal/taxonomy"
)

// MockFabricRepository é uma implementação mock da interface FabricRepository
type MockFabricRepository struct {
	mock.Mock
}

func (m *MockFabricRepository) Save(ctx context.Context, fabric domain.Fabric) (domain.Fabric, error) {
	args := m.Called(ctx, fabric)
	return args.Get(0).(domain.Fabric), args.Error(1)
}

func (m *MockFabricRepository) FindByID(ctx context.Context, id string) (domain.Fabric, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Fabric), args.Error(1)
}

func (m *MockFabricRepository) FindAll(ctx context.Context) ([]domain.Fabric, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Fabric), args.Error(1)
}

func (m *MockFabricRepository) Update(ctx context.Context, fabric domain.Fabric) (domain.Fabric, error) {
	args := m.Called(ctx, fabric)
	return args.Get(0).(domain.Fabric), args.Error(1)
}

func (m *MockFabricRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserFinder é um mock da interface UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockNotifier é um mock da interface LowStockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) HandleLowStock(ctx context.Context, fabricName string, quantity int, user domain.User) string {
	args := m.Called(ctx, fabricName, quantity, user)
	return args.String(0)
}

// MockCache é um mock da interface cache.Client
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) GetInt(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Incr(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newTestService(repo *MockFabricRepository, users *MockUserFinder, notifier *MockNotifier, cacheClient *MockCache) *fabricservice.Service {
	return fabricservice.NewService(
		repo, users, notifier, cacheClient,
		time.Minute, lowstock.NewHub(), taxonomy.Default(), logger.NewLogger("debug"),
	)
}

func validInput() fabricservice.FabricInput {
	return fabricservice.FabricInput{
		Name:        "Denim Premium",
		Type:        "Calça jeans",
		SubType:     "Jeans",
		Supplier:    "Têxtil Sul",
		Color:       "#1a2b3c",
		Price:       35.50,
		Quantity:    80,
		MinQuantity: 20,
	}
}

// TestCreateFabric_Success testa a criação com estoque saudável: sem aviso e
// com os campos de auditoria carimbados com o usuário atual.
func TestCreateFabric_Success(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockUsers := new(MockUserFinder)
	mockNotifier := new(MockNotifier)
	mockCache := new(MockCache)

	svc := newTestService(mockRepo, mockUsers, mockNotifier, mockCache)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(f domain.Fabric) bool {
		return f.Name == "Denim Premium" &&
			f.CreatedBy == "user-1" &&
			f.LastModifiedBy == "user-1" &&
			f.ID != ""
	})).Return(domain.Fabric{ID: "fab-1", Name: "Denim Premium", Quantity: 80, MinQuantity: 20}, nil)

	created, warning, err := svc.CreateFabric(context.Background(), validInput(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "fab-1", created.ID)
	assert.Empty(t, warning)
	mockRepo.AssertExpectations(t)
	// Estoque saudável: nenhuma notificação disparada
	mockNotifier.AssertNotCalled(t, "HandleLowStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestCreateFabric_LowStockFiresNotification testa que a criação já em estoque
// baixo dispara a notificação uma única vez e devolve o aviso.
func TestCreateFabric_LowStockFiresNotification(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockUsers := new(MockUserFinder)
	mockNotifier := new(MockNotifier)
	mockCache := new(MockCache)

	svc := newTestService(mockRepo, mockUsers, mockNotifier, mockCache)

	input := validInput()
	input.Quantity = 5
	input.MinQuantity = 10

	saved := domain.Fabric{ID: "fab-1", Name: "Denim Premium", Quantity: 5, MinQuantity: 10}
	user := domain.User{ID: "user-1", Email: "ana@tecistock.com", Preferences: domain.NotificationPreferences{InApp: true}}

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(saved, nil)
	mockUsers.On("FindByID", mock.Anything, "user-1").Return(user, nil)
	mockNotifier.On("HandleLowStock", mock.Anything, "Denim Premium", 5, user).
		Return("Estoque Baixo: Denim Premium está com 5 reabasteça").Once()

	_, warning, err := svc.CreateFabric(context.Background(), input, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "Estoque Baixo: Denim Premium está com 5 reabasteça", warning)
	mockRepo.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
	mockNotifier.AssertNumberOfCalls(t, "HandleLowStock", 1)
}

// TestCreateFabric_SaveFailsNoNotification testa que a falha de persistência
// não emite notificação nem aviso.
func TestCreateFabric_SaveFailsNoNotification(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockUsers := new(MockUserFinder)
	mockNotifier := new(MockNotifier)
	mockCache := new(MockCache)

	svc := newTestService(mockRepo, mockUsers, mockNotifier, mockCache)

	input := validInput()
	input.Quantity = 0
	input.MinQuantity = 10

	dbErr := apperror.NewDBError("Falha ao inserir tecido", assert.AnError)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(domain.Fabric{}, dbErr)

	_, warning, err := svc.CreateFabric(context.Background(), input, "user-1")

	assert.Error(t, err)
	assert.Empty(t, warning)
	mockNotifier.AssertNotCalled(t, "HandleLowStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestCreateFabric_ValidationErrors testa as regras de validação de entrada.
func TestCreateFabric_ValidationErrors(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockUsers := new(MockUserFinder)
	mockNotifier := new(MockNotifier)
	mockCache := new(MockCache)

	svc := newTestService(mockRepo, mockUsers, mockNotifier, mockCache)

	cases := []struct {
		name   string
		mutate func(*fabricservice.FabricInput)
	}{
		{"nome vazio", func(i *fabricservice.FabricInput) { i.Name = "   " }},
		{"fornecedor vazio", func(i *fabricservice.FabricInput) { i.Supplier = "" }},
		{"cor vazia", func(i *fabricservice.FabricInput) { i.Color = "" }},
		{"preço negativo", func(i *fabricservice.FabricInput) { i.Price = -1 }},
		{"quantidade negativa", func(i *fabricservice.FabricInput) { i.Quantity = -1 }},
		{"mínimo negativo", func(i *fabricservice.FabricInput) { i.MinQuantity = -1 }},
		{"par fora da taxonomia", func(i *fabricservice.FabricInput) { i.SubType = "Piquet" }},
		{"categoria inexistente", func(i *fabricservice.FabricInput) { i.Type = "Vestido" }},
	}

	for _, tc := range cases {
		input := validInput()
		tc.mutate(&input)

		_, _, err := svc.CreateFabric(context.Background(), input, "user-1")

		assert.Error(t, err, tc.name)
		assert.IsType(t, &apperror.ValidationError{}, err, tc.name)
	}

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestUpdateFabric_RechecksLowStockEveryTime testa que a atualização reavalia
// o estoque baixo com os valores novos mesmo sem mudança de quantidade.
func TestUpdateFabric_RechecksLowStockEveryTime(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockUsers := new(MockUserFinder)
	mockNotifier := new(MockNotifier)
	mockCache := new(MockCache)

	svc := newTestService(mockRepo, mockUsers, mockNotifier, mockCache)

	id := uuid.NewString()
	input := validInput()
	input.Quantity = 10
	input.MinQuantity = 10

	updated := domain.Fabric{ID: id, Name: "Denim Premium", Quantity: 10, MinQuantity: 10}
	user := domain.User{ID: "user-2", Preferences: domain.NotificationPreferences{InApp: true}}

	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(f domain.Fabric) bool {
		return f.ID == id && f.LastModifiedBy == "user-2"
	})).Return(updated, nil)
	mockUsers.On("FindByID", mock.Anything, "user-2").Return(user, nil)
	mockNotifier.On("HandleLowStock", mock.Anything, "Denim Premium", 10, user).
		Return("Estoque Baixo: Denim Premium está com 10 reabasteça")

	// Duas atualizações idênticas: a notificação é disparada nas duas, sem
	// supressão de duplicatas.
	for i := 0; i < 2; i++ {
		_, warning, err := svc.UpdateFabric(context.Background(), id, input, "user-2")
		assert.NoError(t, err)
		assert.NotEmpty(t, warning)
	}

	mockNotifier.AssertNumberOfCalls(t, "HandleLowStock", 2)
}

// TestUpdateFabric_InvalidID testa a rejeição de ID malformado.
func TestUpdateFabric_InvalidID(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), new(MockCache))

	_, _, err := svc.UpdateFabric(context.Background(), "nao-e-uuid", validInput(), "user-1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestListFabrics_AppliesFilter testa a filtragem conjuntiva da listagem.
func TestListFabrics_AppliesFilter(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), new(MockCache))

	all := []domain.Fabric{
		{ID: "1", Name: "Denim Premium", Type: "Calça jeans", SubType: "Jeans"},
		{ID: "2", Name: "Piquet Azul", Type: "Camiseta Polo", SubType: "Piquet"},
		{ID: "3", Name: "Jeans Claro", Type: "Calça jeans", SubType: "Jeans"},
	}
	mockRepo.On("FindAll", mock.Anything).Return(all, nil)

	result, err := svc.ListFabrics(context.Background(), domain.FabricFilter{Type: "Calça jeans"})

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "1", result[0].ID)
	assert.Equal(t, "3", result[1].ID)
}

// TestListLowStock_OnlyLowStockItems testa o corte exato da visão de estoque baixo.
func TestListLowStock_OnlyLowStockItems(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), new(MockCache))

	all := []domain.Fabric{
		{ID: "1", Name: "A", Quantity: 5, MinQuantity: 10},  // baixo
		{ID: "2", Name: "B", Quantity: 10, MinQuantity: 10}, // baixo (limite)
		{ID: "3", Name: "C", Quantity: 11, MinQuantity: 10}, // saudável
	}
	mockRepo.On("FindAll", mock.Anything).Return(all, nil)

	result, err := svc.ListLowStock(context.Background(), domain.FabricFilter{})

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "1", result[0].ID)
	assert.Equal(t, "2", result[1].ID)
}

// TestSummary_Aggregates testa os indicadores agregados do painel.
func TestSummary_Aggregates(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), new(MockCache))

	all := []domain.Fabric{
		{ID: "1", Price: 10, Quantity: 5, MinQuantity: 10},
		{ID: "2", Price: 20, Quantity: 10, MinQuantity: 5},
	}
	mockRepo.On("FindAll", mock.Anything).Return(all, nil)

	summary, err := svc.Summary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.TotalFabrics)
	assert.Equal(t, 1, summary.LowStockFabrics)
	assert.Equal(t, 250.0, summary.TotalValue) // 10*5 + 20*10
	assert.Equal(t, 8, summary.AverageQuantity)
}

// TestSummary_EmptyInventory testa o painel com inventário vazio.
func TestSummary_EmptyInventory(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), new(MockCache))

	mockRepo.On("FindAll", mock.Anything).Return([]domain.Fabric{}, nil)

	summary, err := svc.Summary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.TotalFabrics)
	assert.Equal(t, 0, summary.AverageQuantity)
}

// TestArmDelete_IssuesToken testa a primeira etapa da exclusão: o token é
// emitido e guardado no cache, e o tecido NÃO é excluído.
func TestArmDelete_IssuesToken(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockCache := new(MockCache)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), mockCache)

	id := uuid.NewString()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Fabric{ID: id}, nil)
	mockCache.On("Set", mock.Anything, "fabric-delete:"+id, mock.Anything, time.Minute).Return(nil)

	token, err := svc.ArmDelete(context.Background(), id)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	mockCache.AssertExpectations(t)
}

// TestArmDelete_NotFound testa que armar a exclusão de um tecido inexistente falha.
func TestArmDelete_NotFound(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockCache := new(MockCache)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), mockCache)

	id := uuid.NewString()
	mockRepo.On("FindByID", mock.Anything, id).
		Return(domain.Fabric{}, apperror.NewNotFoundError("Tecido não encontrado"))

	_, err := svc.ArmDelete(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestConfirmDelete_Success testa a segunda etapa com o token correto.
func TestConfirmDelete_Success(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockCache := new(MockCache)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), mockCache)

	id := uuid.NewString()
	mockCache.On("Get", mock.Anything, "fabric-delete:"+id).Return("tok-123", nil)
	mockRepo.On("Delete", mock.Anything, id).Return(nil)
	mockCache.On("Delete", mock.Anything, "fabric-delete:"+id).Return(nil)

	err := svc.ConfirmDelete(context.Background(), id, "tok-123")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

// TestConfirmDelete_WithoutArmDoesNotDelete testa que a exclusão sem a etapa
// de armamento (token ausente no cache) nunca toca o repositório.
func TestConfirmDelete_WithoutArmDoesNotDelete(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockCache := new(MockCache)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), mockCache)

	id := uuid.NewString()
	mockCache.On("Get", mock.Anything, "fabric-delete:"+id).Return("", cache.ErrCacheMiss)

	err := svc.ConfirmDelete(context.Background(), id, "tok-qualquer")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestConfirmDelete_WrongToken testa a rejeição de token divergente.
func TestConfirmDelete_WrongToken(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockCache := new(MockCache)
	svc := newTestService(mockRepo, new(MockUserFinder), new(MockNotifier), mockCache)

	id := uuid.NewString()
	mockCache.On("Get", mock.Anything, "fabric-delete:"+id).Return("tok-correto", nil)

	err := svc.ConfirmDelete(context.Background(), id, "tok-errado")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestSubscribeLowStock_ReceivesSnapshotOnMutation testa a reentrega do
// conjunto completo de estoque baixo aos assinantes após uma mutação.
func TestSubscribeLowStock_ReceivesSnapshotOnMutation(t *testing.T) {
	mockRepo := new(MockFabricRepository)
	mockUsers := new(MockUserFinder)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockUsers, mockNotifier, new(MockCache))

	low := domain.Fabric{ID: "fab-1", Name: "Denim", Quantity: 2, MinQuantity: 10}
	mockRepo.On("FindAll", mock.Anything).Return([]domain.Fabric{low}, nil)

	snapshots, cancel := svc.SubscribeLowStock(context.Background())
	defer cancel()

	// A assinatura entrega o snapshot atual imediatamente.
	select {
	case snapshot := <-snapshots:
		assert.Len(t, snapshot, 1)
		assert.Equal(t, "fab-1", snapshot[0].ID)
	case <-time.After(time.Second):
		t.Fatal("snapshot inicial não entregue")
	}

	// Uma mutação posterior reentrega o conjunto completo.
	svc.RefreshLowStock(context.Background())
	select {
	case snapshot := <-snapshots:
		assert.Len(t, snapshot, 1)
	case <-time.After(time.Second):
		t.Fatal("snapshot de mutação não entregue")
	}
}
