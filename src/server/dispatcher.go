package server

import (
	"encoding/json"
	"net/http"

	"price-movers/src/report"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Dispatcher
// -----------------------------------------------------------------------------

// dispatch owns the subscriber set and every send on a subscriber queue.
// It returns when the server stops.
func (s *ReportServer) dispatch() {
	subs := make(map[*subscriber]struct{})

	drop := func(sub *subscriber) {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			close(sub.out)
		}
	}
	offer := func(sub *subscriber, doc report.Document) {
		select {
		case sub.out <- doc:
		default:
			s.Logger.Warning("Subscriber %s is not keeping up, dropping it", sub.conn.RemoteAddr())
			drop(sub)
		}
	}

	for {
		select {
		case <-s.done:
			for sub := range subs {
				drop(sub)
			}
			return

		case sub := <-s.joins:
			subs[sub] = struct{}{}
			if r := s.latestReport(); r != nil {
				offer(sub, report.BuildDocument(r))
			}

		case sub := <-s.leaves:
			drop(sub)

		case sub := <-s.refresh:
			if _, ok := subs[sub]; !ok {
				continue
			}
			if r := s.latestReport(); r != nil {
				offer(sub, report.BuildDocument(r))
			}

		case doc := <-s.broadcast:
			for sub := range subs {
				offer(sub, doc)
			}
		}
	}
}

// -----------------------------------------------------------------------------
// WebSocket endpoint
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Read-only feed of the published report
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *ReportServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	sub := newSubscriber(s, conn)
	select {
	case s.joins <- sub:
	case <-s.done:
		conn.Close()
		return
	}

	go sub.writeDocuments()
	go sub.readCommands()
}

// -----------------------------------------------------------------------------

// subscriberCommand is the only inbound message: {"command": "refresh"}.
type subscriberCommand struct {
	Command string `json:"command"`
}

// handleCommand reports whether the connection should stay open.
func (s *ReportServer) handleCommand(sub *subscriber, msg []byte) bool {
	var cmd subscriberCommand
	if err := json.Unmarshal(msg, &cmd); err != nil {
		s.Logger.Info("Malformed subscriber command, disconnecting: %v", err)
		return false
	}

	switch cmd.Command {
	case "refresh":
		select {
		case s.refresh <- sub:
		case <-s.done:
			return false
		}
	default:
		s.Logger.Debug("Ignoring subscriber command %q", cmd.Command)
	}
	return true
}
