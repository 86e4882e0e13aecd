package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/aritzberg/wildsight/internal/adapters/nats"
	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/pkg/metrics"
)

// wsCommand is sent by the client to move its viewport. The same corner
// parameters as the REST endpoints apply; clearing all corners subscribes
// to everything.
type wsCommand struct {
	Action string   `json:"action"` // "viewport" | "clear"
	SwLat  *float64 `json:"swLat"`
	SwLon  *float64 `json:"swLon"`
	NeLat  *float64 `json:"neLat"`
	NeLon  *float64 `json:"neLon"`
}

// wsUpdate is the broadcast envelope relayed from NATS. Location and
// timing ride alongside the payload so the relay can filter without
// understanding the entity itself.
type wsUpdate struct {
	Kind     string          `json:"kind"`
	Location domain.GeoPoint `json:"location"`
	Modified int64           `json:"modified"` // epoch ms
	Expires  int64           `json:"expires"`  // epoch ms, 0 = does not expire
	Data     json.RawMessage `json:"data"`
}

// WebSocketHandler relays live map updates to connected clients, filtered
// by each client's current viewport.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Debug("ws client connected", "addr", remoteAddr)

		var mu sync.Mutex
		var view domain.Viewport // zero value: no box, everything matches

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		sub, err := nc.Subscribe(natsadapter.SubjectBroadcast, func(msg *nats.Msg) {
			var u wsUpdate
			if err := json.Unmarshal(msg.Data, &u); err != nil {
				return
			}

			live := u.Expires == 0 || time.UnixMilli(u.Expires).After(domain.Now())

			mu.Lock()
			v := view
			mu.Unlock()
			if !v.Matches(u.Location, time.UnixMilli(u.Modified), live) {
				return
			}

			_ = writeJSON(u)
		})
		if err != nil {
			slog.Warn("ws subscribe failed", "error", err)
			return
		}
		defer func() { _ = sub.Unsubscribe() }()

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var cmd wsCommand
			if err := json.Unmarshal(msg, &cmd); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch cmd.Action {
			case "viewport":
				if cmd.SwLat == nil || cmd.SwLon == nil || cmd.NeLat == nil || cmd.NeLon == nil {
					_ = writeJSON(map[string]string{"error": "viewport needs swLat, swLon, neLat, neLon"})
					continue
				}
				mu.Lock()
				view = domain.Viewport{Bounds: &domain.Bounds{
					MinLat: *cmd.SwLat, MinLon: *cmd.SwLon,
					MaxLat: *cmd.NeLat, MaxLon: *cmd.NeLon,
				}}
				mu.Unlock()
				_ = writeJSON(map[string]string{"status": "viewport set"})

			case "clear":
				mu.Lock()
				view = domain.Viewport{}
				mu.Unlock()
				_ = writeJSON(map[string]string{"status": "viewport cleared"})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + cmd.Action})
			}
		}

		slog.Debug("ws client disconnected", "addr", remoteAddr)
	}
}
