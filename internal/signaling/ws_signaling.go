package signaling

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/logging"
	pub "github.com/frudas24/inputtap/internal/webrtc"
)

// ViewerPolicy controls how additional viewers are handled.
type ViewerPolicy int

const (
	// ViewerReject rejects new connections when one is active.
	ViewerReject ViewerPolicy = iota
	// ViewerReplace closes the active connection when a new one arrives.
	ViewerReplace
)

// Peers creates the peer a viewer negotiates its event channel on.
type Peers interface {
	NewPeer(notify func(pub.StreamNotice)) (*webrtc.PeerConnection, error)
}

const writeWait = 2 * time.Second

// Server negotiates one viewer at a time and relays its event stream state.
type Server struct {
	mu       sync.Mutex
	active   *viewer
	upgrader websocket.Upgrader
	peers    Peers
	policy   ViewerPolicy
	authFn   func() bool
	log      *zap.Logger
}

// NewServer creates a signaling server with the chosen viewer policy and auth function.
func NewServer(peers Peers, policy ViewerPolicy, authFn func() bool, log *zap.Logger) *Server {
	return &Server{
		peers:  peers,
		policy: policy,
		authFn: authFn,
		log:    logging.OrNop(log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs one viewer session.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authFn != nil && !s.authFn() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	v := &viewer{conn: conn, log: s.log.With(zap.String("remote", r.RemoteAddr))}
	if err := s.claim(v); err != nil {
		v.end(websocket.ClosePolicyViolation, err.Error())
		return
	}
	defer s.release(v)

	peer, err := s.peers.NewPeer(func(n pub.StreamNotice) { s.relay(v, n) })
	if err != nil {
		v.log.Warn("peer init failed", zap.Error(err))
		v.end(websocket.CloseInternalServerErr, "peer unavailable")
		return
	}
	if !s.bind(v, peer) {
		_ = peer.Close()
		return
	}
	peer.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		candidate := c.ToJSON()
		_ = v.send(Message{T: TypeICE, Candidate: &candidate})
	})
	if err := v.send(Message{T: TypeHello, Label: pub.ChannelLabel}); err != nil {
		return
	}
	v.serve()
}

// claim makes v the active viewer according to the policy.
func (s *Server) claim(v *viewer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev := s.active; prev != nil {
		if s.policy != ViewerReplace {
			return fmt.Errorf("viewer already connected")
		}
		prev.end(websocket.CloseNormalClosure, "replaced by another viewer")
	}
	s.active = v
	return nil
}

// bind records peer on v while v is still the active viewer.
func (s *Server) bind(v *viewer, peer *webrtc.PeerConnection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != v {
		return false
	}
	v.peer = peer
	return true
}

// release drops v and its peer.
func (s *Server) release(v *viewer) {
	s.mu.Lock()
	if s.active == v {
		s.active = nil
	}
	peer := v.peer
	s.mu.Unlock()
	if peer != nil {
		_ = peer.Close()
	}
	_ = v.conn.Close()
}

// relay tells v how its event channel is bound. Once the engine releases the
// channel the session is over and the socket is closed.
func (s *Server) relay(v *viewer, n pub.StreamNotice) {
	msg := Message{T: TypeStream, State: string(n.State), Dropped: n.Dropped}
	if n.Err != nil {
		msg.Error = n.Err.Error()
	}
	if err := v.send(msg); err != nil {
		v.log.Debug("stream notice not delivered", zap.String("state", msg.State), zap.Error(err))
		return
	}
	if n.State == pub.StreamReleased {
		v.end(websocket.CloseNormalClosure, "event stream released")
	}
}

// viewer is one signaling socket and the peer negotiated over it.
type viewer struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	peer    *webrtc.PeerConnection
	log     *zap.Logger
}

// serve reads messages until the socket fails or the viewer hangs up.
// Negotiation failures are reported and keep the socket open for a retry.
func (v *viewer) serve() {
	for {
		var msg Message
		if err := v.conn.ReadJSON(&msg); err != nil {
			return
		}
		var err error
		switch msg.T {
		case TypeOffer:
			err = v.answer(msg.SDP)
		case TypeICE:
			err = v.addCandidate(msg.Candidate)
		case TypeHangup:
			v.log.Debug("viewer hung up")
			return
		}
		if err == nil {
			continue
		}
		v.log.Warn("negotiation failed", zap.String("type", msg.T), zap.Error(err))
		if err := v.send(Message{T: TypeError, Error: err.Error()}); err != nil {
			return
		}
	}
}

// answer applies an SDP offer and replies with a fully gathered answer.
func (v *viewer) answer(sdp string) error {
	if sdp == "" {
		return fmt.Errorf("empty offer")
	}
	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: sdp}
	if err := v.peer.SetRemoteDescription(offer); err != nil {
		return err
	}
	answer, err := v.peer.CreateAnswer(nil)
	if err != nil {
		return err
	}
	gathered := webrtc.GatheringCompletePromise(v.peer)
	if err := v.peer.SetLocalDescription(answer); err != nil {
		return err
	}
	<-gathered
	local := v.peer.LocalDescription()
	if local == nil {
		return fmt.Errorf("missing local description")
	}
	return v.send(Message{T: TypeAnswer, SDP: local.SDP})
}

// addCandidate adds a remote ICE candidate; an empty one is ignored.
func (v *viewer) addCandidate(candidate *webrtc.ICECandidateInit) error {
	if candidate == nil {
		return nil
	}
	return v.peer.AddICECandidate(*candidate)
}

// send writes one message, serialized with other writers.
func (v *viewer) send(msg Message) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return v.conn.WriteJSON(msg)
}

// end sends a close frame with code and reason, then closes the socket.
func (v *viewer) end(code int, reason string) {
	message := websocket.FormatCloseMessage(code, reason)
	_ = v.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
	_ = v.conn.Close()
}
