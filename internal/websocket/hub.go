package websocket

import (
	"encoding/json"
	"sync"

	"github.com/servibook/servibook-backend/pkg/logger"
)

// Client conexión WebSocket de un usuario
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub gestor de conexiones WebSocket para el feed de notificaciones
type Hub struct {
	// Clientes registrados (UserID -> []*Client, soporta varios dispositivos)
	clients map[uint][]*Client

	// Registro de clientes
	register chan *Client

	// Baja de clientes
	unregister chan *Client

	// Mensajes dirigidos a un usuario
	direct chan *DirectMessage

	mu sync.RWMutex
}

// DirectMessage mensaje para todas las sesiones de un usuario
type DirectMessage struct {
	UserID  uint
	Message []byte
}

// NewHub crea el Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		direct:     make(chan *DirectMessage, 1024),
	}
}

// Run bucle principal del Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// Varios dispositivos: añadir a la lista del usuario
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.direct:
			h.mu.RLock()
			// Varios dispositivos: enviar a todas las sesiones del usuario
			if clientList, ok := h.clients[message.UserID]; ok {
				for _, client := range clientList {
					select {
					case client.Send <- message.Message:
						// Enviado
					default:
						// Buffer de envío lleno, desconectar en segundo plano
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": message.UserID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendNotificationToUser envía un mensaje a todas las sesiones de un usuario.
// Si el usuario no está conectado, el mensaje se descarta en silencio: la
// notificación persistida en base de datos es la fuente de verdad.
func (h *Hub) SendNotificationToUser(userID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal notification message", err, nil)
		return err
	}

	select {
	case h.direct <- &DirectMessage{
		UserID:  userID,
		Message: data,
	}:
		return nil
	default:
		logger.Warn("Direct channel full, message dropped", map[string]interface{}{
			"user_id": userID,
		})
		return nil // se tolera la pérdida, no afecta a la lógica principal
	}
}

// Register registra un cliente
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister da de baja un cliente
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline indica si el usuario tiene alguna sesión abierta
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
