package websocket

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	PrincipalID uuid.UUID
	Conn        *websocket.Conn
}

type message struct {
	recipientID uuid.UUID
	payload     interface{}
}

// Hub keeps one live connection per principal. Only the Run goroutine touches
// the client map.
type Hub struct {
	clients    map[uuid.UUID]*websocket.Conn
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan message
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*websocket.Conn),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
	}
}

// Push queues a payload for a principal. It drops the payload when the hub is
// saturated; the email copy is still delivered.
func (h *Hub) Push(recipientID uuid.UUID, payload interface{}) {
	select {
	case h.broadcast <- message{recipientID: recipientID, payload: payload}:
	default:
		log.Printf("Websocket hub saturated, dropping live notification for %s", recipientID)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			log.Printf("Client registered: %s", client.PrincipalID)
			if old, ok := h.clients[client.PrincipalID]; ok && old != client.Conn {
				old.Close()
			}
			h.clients[client.PrincipalID] = client.Conn
		case client := <-h.Unregister:
			log.Printf("Client unregistered: %s", client.PrincipalID)
			if conn, ok := h.clients[client.PrincipalID]; ok && conn == client.Conn {
				delete(h.clients, client.PrincipalID)
			}
		case msg := <-h.broadcast:
			conn, ok := h.clients[msg.recipientID]
			if !ok {
				continue
			}
			if err := conn.WriteJSON(msg.payload); err != nil {
				log.Printf("Error sending notification to client %s: %v", msg.recipientID, err)
				conn.Close()
				delete(h.clients, msg.recipientID)
			}
		}
	}
}

// Serve registers the connection and blocks until the client goes away.
func (h *Hub) Serve(principalID uuid.UUID, conn *websocket.Conn) {
	client := &Client{PrincipalID: principalID, Conn: conn}
	h.Register <- client
	defer func() { h.Unregister <- client }()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
