package control

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/logging"
)

const writeWait = 5 * time.Second

// newUpgrader returns the upgrader shared by both sockets.
func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
}

// Server handles command calls on the control websocket.
type Server struct {
	upgrader websocket.Upgrader
	cmds     Commands
	authFn   func() bool
	log      *zap.Logger
}

// NewServer creates a control websocket server.
func NewServer(cmds Commands, authFn func() bool, log *zap.Logger) *Server {
	return &Server{
		upgrader: newUpgrader(),
		cmds:     cmds,
		authFn:   authFn,
		log:      logging.OrNop(log),
	}
}

// ServeHTTP upgrades the connection and answers calls until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authFn != nil && !s.authFn() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	s.log.Debug("control connected", zap.String("remote", r.RemoteAddr))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		resp := s.handleMessage(data)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

// handleMessage decodes and dispatches a single control message.
func (s *Server) handleMessage(data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return failure(nil, CodeInvalidArguments, "malformed request")
	}
	resp := Dispatch(s.cmds, req)
	if resp.Error != nil {
		s.log.Debug("control call failed",
			zap.String("method", req.Method),
			zap.String("code", resp.Error.Code),
			zap.String("message", resp.Error.Message))
	}
	return resp
}
