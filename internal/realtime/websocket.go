package realtime

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Serve pumps hub messages for userID to the socket until either side closes.
func Serve(hub *Hub, c *websocket.Conn, userID uuid.UUID, log zerolog.Logger) {
	client := NewClient(userID)
	hub.RegisterClient(client)

	l := log.With().Str("user_id", userID.String()).Str("client_id", client.ID).Logger()
	l.Debug().Msg("websocket connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-client.Send:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = c.WriteMessage(websocket.CloseMessage, nil)
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					l.Debug().Err(err).Msg("websocket write")
					return
				}
			case <-ticker.C:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
	// client tidak mengirim apa-apa, read hanya untuk deteksi close
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	l.Debug().Msg("websocket disconnected")
	hub.UnregisterClient(client)
	<-done
}
