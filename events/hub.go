package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/mesa-backend/utils"
)

// WriteTimeout bounds a single websocket write.
const WriteTimeout = 5 * time.Second

// Hub keeps the websocket clients watching table changes, keyed by the
// restaurant cnpj they subscribed with. An empty cnpj receives everything.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, cnpj string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = cnpj
}

func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish sends event to every client watching its restaurant. Clients that
// subscribed without a cnpj get everything; events without a cnpj only reach them.
// A client that cannot be written to within WriteTimeout is dropped.
func (h *Hub) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	target := event.Metadata["cnpj"]
	sent := 0
	for conn, cnpj := range h.clients {
		if cnpj != "" && cnpj != target {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to client, dropping it: %v", event.Topic, err)
			delete(h.clients, conn)
			conn.Close()
			continue
		}
		sent++
	}
	utils.InfoLogger.Debugf("Broadcast %s to %d clients", event.Topic, sent)
	return nil
}
