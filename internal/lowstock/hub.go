package lowstock

import (
	"sync"

	"tecistock/internal/domain"
)

// Hub distribui snapshots da lista de estoque baixo para assinantes.
// A cada mudança no inventário, o conjunto COMPLETO atual é reentregue a
// todos os assinantes (fluxo de snapshots, não de diffs); consumidores
// lentos recebem apenas o snapshot mais recente.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan []domain.Fabric]struct{}
}

// NewHub cria um novo Hub sem assinantes.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan []domain.Fabric]struct{})}
}

// Subscribe registra um novo assinante e retorna o canal de snapshots e a
// função de cancelamento. O cancelamento fecha o canal.
func (h *Hub) Subscribe() (<-chan []domain.Fabric, func()) {
	ch := make(chan []domain.Fabric, 1)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish entrega o snapshot a todos os assinantes sem bloquear: se um
// assinante ainda não consumiu o snapshot anterior, ele é descartado e
// substituído pelo mais recente.
func (h *Hub) Publish(snapshot []domain.Fabric) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Canal cheio: drena o snapshot antigo e empurra o novo.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Subscribers retorna a quantidade atual de assinantes.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
