package stream

import (
	"encoding/json"

	"codeberg.org/weconnect/server/internal/logger"
	"codeberg.org/weconnect/server/weconnect/materials"
)

func NewHub() *Hub {
	return &Hub{
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		publish:         make(chan ownerDelta, 256),
		shutdown:        make(chan struct{}),
		clients:         make(map[string]map[string]*Client),
		subscribers:     make(map[string]map[uint64]chan Delta),
		userConnections: make(map[string]int),
	}
}

// starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case od := <-h.publish:
			h.deliver(od.ownerID, od.delta)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// stops the hub and closes all websocket connections
func (h *Hub) Shutdown() {
	close(h.shutdown)
}

// publishes an INSERT delta for a newly created record
func (h *Hub) PublishInsert(rec *materials.MaterialRecord) {
	h.enqueue(rec.OwnerID, Delta{EventType: EventInsert, New: rec})
}

// publishes an UPDATE delta for a changed record
func (h *Hub) PublishUpdate(rec *materials.MaterialRecord) {
	h.enqueue(rec.OwnerID, Delta{EventType: EventUpdate, New: rec})
}

// publishes a DELETE delta for a removed record
func (h *Hub) PublishDelete(ownerID, recordID string) {
	h.enqueue(ownerID, Delta{EventType: EventDelete, Old: &DeletedRecord{ID: recordID}})
}

// hands a delta to the run loop without blocking the caller. If the
// buffer is full (the run loop stopped or fell far behind) the delta is
// dropped and logged; affected consumers reload to converge, the same
// contract a stalled subscriber gets in deliver.
func (h *Hub) enqueue(ownerID string, delta Delta) {
	select {
	case h.publish <- ownerDelta{ownerID: ownerID, delta: delta}:
	default:
		logger.Warn("publish buffer full, dropping delta",
			"owner_id", ownerID,
			"event_type", delta.EventType,
		)
	}
}

// registers an in-process consumer for one owner's delta stream.
// The returned channel is buffered; consumers that need the
// fetch-then-replay ordering guarantee should subscribe before their initial
// fetch and drain the channel afterwards. The cancel func must be called on
// teardown so the hub stops holding the channel.
func (h *Hub) Subscribe(ownerID string) (<-chan Delta, CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Delta, subscriberBuffer)

	if h.subscribers[ownerID] == nil {
		h.subscribers[ownerID] = make(map[uint64]chan Delta)
	}

	id := h.nextSubID
	h.nextSubID++
	h.subscribers[ownerID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		subs, ok := h.subscribers[ownerID]
		if !ok {
			return
		}

		if _, ok := subs[id]; !ok {
			return
		}

		delete(subs, id)

		if len(subs) == 0 {
			delete(h.subscribers, ownerID)
		}

		close(ch)
	}

	return ch, cancel
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.UserID != "" && h.userConnections[client.UserID] >= maxConnectionsPerUser {
		logger.Warn("connection limit reached",
			"user_id", client.UserID,
			"limit", maxConnectionsPerUser,
		)
		client.Close()
		return
	}

	if h.clients[client.OwnerID] == nil {
		h.clients[client.OwnerID] = make(map[string]*Client)
	}

	h.clients[client.OwnerID][client.ID] = client

	if client.UserID != "" {
		h.userConnections[client.UserID]++
	}

	logger.Info("stream client registered",
		"client_id", client.ID,
		"owner_id", client.OwnerID,
		"user_id", client.UserID,
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerClients, exists := h.clients[client.OwnerID]
	if !exists {
		return
	}

	if _, exists := ownerClients[client.ID]; !exists {
		return
	}

	delete(ownerClients, client.ID)

	if len(ownerClients) == 0 {
		delete(h.clients, client.OwnerID)
	}

	if client.UserID != "" {
		h.userConnections[client.UserID]--
		if h.userConnections[client.UserID] <= 0 {
			delete(h.userConnections, client.UserID)
		}
	}

	client.Close()

	logger.Info("stream client unregistered",
		"client_id", client.ID,
		"owner_id", client.OwnerID,
	)
}

// fans a delta out to everyone watching the owner's record set
func (h *Hub) deliver(ownerID string, delta Delta) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers[ownerID] {
		select {
		case ch <- delta:
		default:
			// a stalled consumer loses the delta; it must reload to converge
			logger.Warn("subscriber buffer full, dropping delta",
				"owner_id", ownerID,
				"subscription_id", id,
				"event_type", delta.EventType,
			)
		}
	}

	clients := h.clients[ownerID]
	if len(clients) == 0 {
		return
	}

	payload, err := json.Marshal(delta)
	if err != nil {
		logger.ErrorErr(err, "failed to marshal delta", "owner_id", ownerID)
		return
	}

	for _, client := range clients {
		select {
		case client.send <- payload:
		default:
			logger.Warn("client send buffer full, dropping delta",
				"client_id", client.ID,
				"owner_id", ownerID,
			)
		}
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ownerID, ownerClients := range h.clients {
		for _, client := range ownerClients {
			client.Close()
		}

		delete(h.clients, ownerID)
	}

	for ownerID, subs := range h.subscribers {
		for _, ch := range subs {
			close(ch)
		}

		delete(h.subscribers, ownerID)
	}

	logger.Info("stream hub shut down")
}
