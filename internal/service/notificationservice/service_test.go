package notificationservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/service/notificationservice"
)

// MockNotificationRepository é uma implementação mock da interface NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Insert(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// TestHandleLowStock_MessageTemplate testa o template exato da mensagem.
func TestHandleLowStock_MessageTemplate(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	user := domain.User{ID: "user-1"} // Ambos os canais desligados

	message := svc.HandleLowStock(context.Background(), "Denim Premium", 3, user)

	assert.Equal(t, "Estoque Baixo: Denim Premium está com 3 reabasteça", message)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestHandleLowStock_InAppEnabled testa a persistência quando o canal in-app
// está habilitado.
func TestHandleLowStock_InAppEnabled(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	user := domain.User{ID: "user-1", Preferences: domain.NotificationPreferences{InApp: true}}

	mockRepo.On("Insert", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == "user-1" &&
			n.Type == domain.NotificationLowStock &&
			!n.Read &&
			n.Message == "Estoque Baixo: Denim Premium está com 3 reabasteça"
	})).Return(domain.Notification{}, nil).Once()

	message := svc.HandleLowStock(context.Background(), "Denim Premium", 3, user)

	assert.NotEmpty(t, message)
	mockRepo.AssertExpectations(t)
}

// TestHandleLowStock_BothChannelsDisabled testa que as flags desligadas
// suprimem os canais persistidos, mas a mensagem transitória é sempre retornada.
func TestHandleLowStock_BothChannelsDisabled(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	user := domain.User{
		ID:          "user-1",
		Preferences: domain.NotificationPreferences{Email: false, InApp: false},
	}

	message := svc.HandleLowStock(context.Background(), "Piquet Azul", 0, user)

	assert.Equal(t, "Estoque Baixo: Piquet Azul está com 0 reabasteça", message)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestHandleLowStock_InsertFailureIsSwallowed testa que a falha de
// persistência da notificação não derruba a operação e ainda retorna a mensagem.
func TestHandleLowStock_InsertFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	user := domain.User{ID: "user-1", Preferences: domain.NotificationPreferences{InApp: true}}
	mockRepo.On("Insert", mock.Anything, mock.Anything).
		Return(domain.Notification{}, apperror.NewDBError("Falha ao inserir notificação", assert.AnError))

	message := svc.HandleLowStock(context.Background(), "Denim", 2, user)

	assert.Equal(t, "Estoque Baixo: Denim está com 2 reabasteça", message)
	mockRepo.AssertExpectations(t)
}

// TestCreateNotification_Success testa a criação de uma notificação avulsa.
func TestCreateNotification_Success(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	mockRepo.On("Insert", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.ID != "" && n.UserID == "user-1" && !n.Read && n.Type == domain.NotificationSystem
	})).Return(domain.Notification{ID: "n-1"}, nil)

	created, err := svc.CreateNotification(context.Background(), "user-1", "Backup concluído", domain.NotificationSystem)

	assert.NoError(t, err)
	assert.Equal(t, "n-1", created.ID)
	mockRepo.AssertExpectations(t)
}

// TestCreateNotification_ValidationErrors testa as validações de entrada.
func TestCreateNotification_ValidationErrors(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	_, err := svc.CreateNotification(context.Background(), "", "msg", domain.NotificationSystem)
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.CreateNotification(context.Background(), "user-1", "", domain.NotificationSystem)
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.CreateNotification(context.Background(), "user-1", "msg", domain.NotificationType("invalido"))
	assert.IsType(t, &apperror.ValidationError{}, err)

	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestListByUser_Success testa a listagem de notificações do usuário.
func TestListByUser_Success(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	expected := []domain.Notification{{ID: "n-2"}, {ID: "n-1"}}
	mockRepo.On("FindByUser", mock.Anything, "user-1").Return(expected, nil)

	notifications, err := svc.ListByUser(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, expected, notifications)
}

// TestMarkRead_InvalidID testa a rejeição de ID malformado.
func TestMarkRead_InvalidID(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	err := svc.MarkRead(context.Background(), "nao-e-uuid", "user-1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

// TestMarkRead_Success testa a marcação de leitura delegada ao repositório.
func TestMarkRead_Success(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := notificationservice.NewService(mockRepo, logger.NewLogger("debug"))

	id := uuid.NewString()
	mockRepo.On("MarkRead", mock.Anything, id, "user-1").Return(nil)

	err := svc.MarkRead(context.Background(), id, "user-1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
