package server

import (
	"time"

	"price-movers/src/report"

	"github.com/gorilla/websocket"
)

const (
	writeWait       = 2 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxCommandBytes = 4 * 1024
	subscriberQueue = 8
)

// -----------------------------------------------------------------------------

// subscriber is one websocket connection receiving report documents.
// The dispatcher owns out and is the only one that closes it.
type subscriber struct {
	srv  *ReportServer
	conn *websocket.Conn
	out  chan report.Document
}

func newSubscriber(srv *ReportServer, conn *websocket.Conn) *subscriber {
	return &subscriber{srv: srv, conn: conn, out: make(chan report.Document, subscriberQueue)}
}

// -----------------------------------------------------------------------------

// readCommands handles inbound commands and keeps the connection alive
// through pongs. Returning leaves the dispatcher.
func (sub *subscriber) readCommands() {
	defer func() {
		select {
		case sub.srv.leaves <- sub:
		case <-sub.srv.done:
		}
		sub.conn.Close()
		sub.srv.Logger.Debug("Subscriber %s left", sub.conn.RemoteAddr())
	}()

	sub.conn.SetReadLimit(maxCommandBytes)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := sub.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sub.srv.Logger.Info("Subscriber read error: %v", err)
			}
			return
		}
		if !sub.srv.handleCommand(sub, msg) {
			return
		}
	}
}

// -----------------------------------------------------------------------------

// writeDocuments forwards queued documents and pings until out is closed.
func (sub *subscriber) writeDocuments() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer sub.conn.Close()

	for {
		select {
		case doc, ok := <-sub.out:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server stopping"))
				return
			}
			if err := sub.conn.WriteJSON(doc); err != nil {
				sub.srv.Logger.Info("Subscriber write error: %v", err)
				return
			}

		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
