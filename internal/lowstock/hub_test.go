package lowstock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tecistock/internal/domain"
	"tecistock/internal/lowstock"
)

// TestHub_PublishDeliversToAllSubscribers testa a entrega do snapshot a todos.
func TestHub_PublishDeliversToAllSubscribers(t *testing.T) {
	hub := lowstock.NewHub()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	assert.Equal(t, 2, hub.Subscribers())

	snapshot := []domain.Fabric{{ID: "fab-1"}}
	hub.Publish(snapshot)

	for _, ch := range []<-chan []domain.Fabric{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, snapshot, got)
		case <-time.After(time.Second):
			t.Fatal("snapshot não entregue")
		}
	}
}

// TestHub_SlowSubscriberGetsLatestOnly testa que o assinante lento recebe
// apenas o snapshot mais recente, sem bloquear a publicação.
func TestHub_SlowSubscriberGetsLatestOnly(t *testing.T) {
	hub := lowstock.NewHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish([]domain.Fabric{{ID: "antigo"}})
	hub.Publish([]domain.Fabric{{ID: "recente"}})

	select {
	case got := <-ch:
		assert.Len(t, got, 1)
		assert.Equal(t, "recente", got[0].ID)
	case <-time.After(time.Second):
		t.Fatal("snapshot não entregue")
	}
}

// TestHub_CancelClosesChannel testa que o cancelamento remove o assinante e
// fecha o canal, e que cancelar duas vezes é seguro.
func TestHub_CancelClosesChannel(t *testing.T) {
	hub := lowstock.NewHub()

	ch, cancel := hub.Subscribe()
	cancel()
	cancel() // Idempotente

	assert.Equal(t, 0, hub.Subscribers())

	_, open := <-ch
	assert.False(t, open)

	// Publicar sem assinantes não entra em pânico.
	hub.Publish([]domain.Fabric{{ID: "fab-1"}})
}
