package control

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/subscriber"
)

// Streamer attaches and detaches the single event listener.
type Streamer interface {
	Subscribe(sink subscriber.Sink) error
	UnsubscribeSink(sink subscriber.Sink) error
}

// StreamServer sends every normalized event to the most recent websocket
// client. A new client supersedes the previous one.
type StreamServer struct {
	upgrader websocket.Upgrader
	streamer Streamer
	authFn   func() bool
	buffer   int
	log      *zap.Logger
}

// NewStreamServer creates the event stream endpoint with a per-connection
// buffer of buffer events.
func NewStreamServer(streamer Streamer, authFn func() bool, buffer int, log *zap.Logger) *StreamServer {
	return &StreamServer{
		upgrader: newUpgrader(),
		streamer: streamer,
		authFn:   authFn,
		buffer:   buffer,
		log:      logging.OrNop(log),
	}
}

// ServeHTTP upgrades the connection and streams events until either side ends.
func (s *StreamServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authFn != nil && !s.authFn() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sink := subscriber.NewBuffered(s.buffer, func(ev input.Event) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(ev)
	}, s.log)
	if err := s.streamer.Subscribe(sink); err != nil {
		s.log.Warn("subscribe failed", zap.Error(err))
		sink.Close()
		<-sink.Done()
		closeWith(conn, websocket.CloseInternalServerErr, "subscribe failed")
		return
	}
	s.log.Info("stream attached", zap.String("remote", r.RemoteAddr))

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-readDone:
	case <-sink.Done():
	}
	if err := s.streamer.UnsubscribeSink(sink); err != nil {
		s.log.Warn("unsubscribe failed", zap.Error(err))
	}
	select {
	case <-sink.Done():
	case <-time.After(writeWait):
	}
	closeWith(conn, websocket.CloseNormalClosure, "stream ended")
	s.log.Info("stream detached",
		zap.String("remote", r.RemoteAddr),
		zap.Uint64("dropped", sink.Dropped()))
}

// closeWith sends a close frame before the socket is torn down.
func closeWith(conn *websocket.Conn, code int, reason string) {
	message := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
}
