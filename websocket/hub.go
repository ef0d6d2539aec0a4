package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Define notification types
const (
	NotificationTypeCommissionRecorded  = "commission_recorded"
	NotificationTypeWithdrawalSubmitted = "withdrawal_submitted"
	NotificationTypeWithdrawalSettled   = "withdrawal_settled"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type     string      `json:"type"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	EarnerID string      `json:"earnerId,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	EarnerID primitive.ObjectID
	Conn     *websocket.Conn
}

// Hub maintains the set of connected earner dashboards and pushes ledger
// events to them.
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.EarnerID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.EarnerID]; ok {
				delete(h.clients, client.EarnerID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToEarner sends a message to a specific earner's dashboard
func (h *Hub) SendToEarner(earnerID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[earnerID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("earner not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// NotifyCommissionRecorded tells an earner a new commission entry landed
// in their pending balance.
func (h *Hub) NotifyCommissionRecorded(earnerID primitive.ObjectID, entry interface{}) error {
	return h.SendToEarner(earnerID, Notification{
		Type:    NotificationTypeCommissionRecorded,
		Message: "A new commission was added to your pending balance",
		Data:    entry,
	})
}

// NotifyWithdrawalSubmitted confirms a withdrawal request was created.
func (h *Hub) NotifyWithdrawalSubmitted(earnerID primitive.ObjectID, request interface{}) error {
	return h.SendToEarner(earnerID, Notification{
		Type:    NotificationTypeWithdrawalSubmitted,
		Message: "Your withdrawal request was submitted",
		Data:    request,
	})
}

// NotifyWithdrawalSettled tells an earner an operator processed their
// withdrawal request.
func (h *Hub) NotifyWithdrawalSettled(earnerID primitive.ObjectID, request interface{}) error {
	return h.SendToEarner(earnerID, Notification{
		Type:    NotificationTypeWithdrawalSettled,
		Message: "Your withdrawal request has been processed",
		Data:    request,
	})
}
