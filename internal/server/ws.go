package server

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/tobiaswagner/gruppentool/internal/search"
)

// wsQuery is one live-search request. The client increments seq with every
// keystroke it sends.
type wsQuery struct {
	Seq   int64  `json:"seq"`
	Query string `json:"q"`
}

// wsResult echoes the query's seq so the client can match responses.
type wsResult struct {
	Seq   int64         `json:"seq"`
	Query string        `json:"q"`
	Items []search.Item `json:"items"`
}

// searchSocketHandler runs live search over a WebSocket. Every incoming
// query cancels the previous one, and a result is only written while its seq
// is still the latest, so stale responses can never overwrite fresher ones.
func (s *Server) searchSocketHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return s.cfg.AllowAll || localOrigin(r)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// The socket outlives the upgrade request, whose context expires under
	// the router's timeout middleware. Queries run against the connection's
	// lifetime instead.
	connCtx, connCancel := context.WithCancel(context.Background())
	defer connCancel()

	var (
		writeMu sync.Mutex // one writer at a time
		latest  atomic.Int64
		cancel  context.CancelFunc = func() {}
	)
	defer func() { cancel() }()

	for {
		var q wsQuery
		if err := conn.ReadJSON(&q); err != nil {
			return
		}
		if q.Seq <= latest.Load() {
			// Out-of-order or duplicate query, already superseded.
			continue
		}
		latest.Store(q.Seq)
		cancel()
		qctx, qcancel := context.WithCancel(connCtx)
		cancel = qcancel

		go func() {
			items, err := s.engine.Search(qctx, q.Query)
			if err != nil || latest.Load() != q.Seq {
				return
			}
			if items == nil {
				items = []search.Item{}
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			if latest.Load() != q.Seq {
				return
			}
			if err := conn.WriteJSON(wsResult{Seq: q.Seq, Query: q.Query, Items: items}); err != nil {
				s.logger.Debug().Err(err).Msg("websocket write failed")
			}
		}()
	}
}

// localOrigin accepts browser origins on localhost, matching the CORS
// policy of the REST routes.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}
