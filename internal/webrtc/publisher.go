// Package webrtc streams normalized events to a browser over an ordered
// WebRTC data channel.
package webrtc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/logging"
	"github.com/frudas24/inputtap/internal/subscriber"
)

// ChannelLabel is the data channel the viewer opens for the event stream.
const ChannelLabel = "inputs"

// Streamer attaches and detaches the single event listener.
type Streamer interface {
	Subscribe(sink subscriber.Sink) error
	UnsubscribeSink(sink subscriber.Sink) error
}

// textSender is the part of a data channel the sink writes to.
type textSender interface {
	SendText(s string) error
}

// Publisher manages the viewer peer connection and binds its data channel
// as the event subscriber.
type Publisher struct {
	mu       sync.Mutex
	api      *webrtc.API
	peer     *webrtc.PeerConnection
	streamer Streamer
	buffer   int
	log      *zap.Logger
}

// NewPublisher initializes a WebRTC API with default codecs and interceptors.
func NewPublisher(streamer Streamer, buffer int, log *zap.Logger) (*Publisher, error) {
	log = logging.OrNop(log)
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	settings := webrtc.SettingEngine{LoggerFactory: zapFactory{log: log.Named("pion")}}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
		webrtc.WithSettingEngine(settings),
	)

	return &Publisher{api: api, streamer: streamer, buffer: buffer, log: log}, nil
}

// NewPeer replaces the current peer connection with a fresh one that
// accepts the viewer's event channel. notify, when set, hears every change
// of that channel's binding to the engine.
func (p *Publisher) NewPeer(notify func(StreamNotice)) (*webrtc.PeerConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.peer != nil {
		_ = p.peer.Close()
		p.peer = nil
	}

	peer, err := p.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, err
	}
	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		p.bindChannel(dc, notify)
	})
	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		p.log.Debug("peer state", zap.String("state", state.String()))
	})

	p.peer = peer
	return peer, nil
}

// ClosePeer closes the current peer connection.
func (p *Publisher) ClosePeer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peer != nil {
		_ = p.peer.Close()
		p.peer = nil
	}
}

// bindChannel subscribes an ordered events channel once it opens.
func (p *Publisher) bindChannel(dc *webrtc.DataChannel, notify func(StreamNotice)) {
	name := describe(dc.Label(), dc.ID())
	if dc.Label() != ChannelLabel {
		p.log.Debug("ignoring data channel", zap.String("channel", name))
		return
	}
	if !dc.Ordered() {
		p.log.Warn("rejecting unordered event channel", zap.String("channel", name))
		_ = dc.Close()
		return
	}

	st := newChannelStream(name, dc, p.streamer, p.buffer, notify, p.log)
	dc.OnOpen(st.open)
	dc.OnClose(st.closed)
}

// newChannelSink encodes each event as one JSON text message on dc.
func newChannelSink(dc textSender, buffer int, log *zap.Logger) *subscriber.Buffered {
	return subscriber.NewBuffered(buffer, func(ev input.Event) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		return dc.SendText(string(data))
	}, log)
}

// describe formats a data channel for logs.
func describe(label string, id *uint16) string {
	if id == nil {
		return label
	}
	return fmt.Sprintf("%s#%d", label, *id)
}
