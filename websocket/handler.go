package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades an authenticated earner request and keeps the
// connection registered with the hub until the earner disconnects. The
// earner's identity comes from the JWT middleware, so the socket needs no
// second authentication step.
func HandleWebSocket(c echo.Context, hub *Hub, earnerID primitive.ObjectID) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		EarnerID: earnerID,
		Conn:     conn,
	}

	hub.register <- client

	conn.WriteJSON(Notification{
		Type:     "connected",
		Message:  "WebSocket connection established",
		EarnerID: earnerID.Hex(),
	})

	// Drain the connection until the client goes away.
	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
