package livereload

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nzambello/ploneview/pkg/log"
)

// Path is where Handler is mounted.
const Path = "/__livereload"

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades requests to websockets and forwards hub events to them.
type Handler struct {
	hub    *Hub
	logger *log.Logger
}

// NewHandler returns a handler serving hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub, logger: log.ForService("livereload")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debugf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, events := h.hub.Register()
	defer h.hub.Unregister(id)
	h.logger.Debugf("page connected (%d listening)", h.hub.Size())

	// The reader only exists to notice the page going away and to handle
	// pongs.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, Event{Type: TypeHello, Time: time.Now().UTC()}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case e, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if err := h.write(conn, e); err != nil {
				h.logger.Debugf("write failed: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, e Event) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(e)
}

// Script is the snippet pages include to reload on reload events. It
// reconnects after the server restarts and reloads once it is back.
const Script = `(function () {
  var wasClosed = false;
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "` + Path + `");
    ws.onmessage = function (msg) {
      var e = JSON.parse(msg.data);
      if (e.type === "reload" || (e.type === "hello" && wasClosed)) {
        location.reload();
      }
    };
    ws.onclose = function () {
      wasClosed = true;
      setTimeout(connect, 1000);
    };
  }
  connect();
})();`
