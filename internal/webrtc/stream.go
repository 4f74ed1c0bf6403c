package webrtc

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/subscriber"
)

// StreamState is the binding of a viewer's event channel to the engine.
type StreamState string

const (
	// StreamAttached means the channel is the active subscriber.
	StreamAttached StreamState = "attached"
	// StreamFailed means the engine refused the channel as subscriber.
	StreamFailed StreamState = "failed"
	// StreamReleased means the engine dropped the channel, because another
	// subscriber took over or the engine shut down.
	StreamReleased StreamState = "released"
	// StreamClosed means the viewer closed the channel.
	StreamClosed StreamState = "closed"
)

// StreamNotice reports one change of a channel's binding.
type StreamNotice struct {
	State   StreamState
	Channel string
	Dropped uint64
	Err     error
}

// dataChannel is the part of a data channel a stream drives.
type dataChannel interface {
	textSender
	Close() error
}

// channelStream ties one data channel to the engine subscription. It
// reports attach once and exactly one terminal state.
type channelStream struct {
	name     string
	dc       dataChannel
	sink     *subscriber.Buffered
	streamer Streamer
	notify   func(StreamNotice)
	log      *zap.Logger

	ended    sync.Once
	byViewer atomic.Bool
}

// newChannelStream builds the sink for dc without subscribing it yet.
func newChannelStream(name string, dc dataChannel, streamer Streamer, buffer int, notify func(StreamNotice), log *zap.Logger) *channelStream {
	return &channelStream{
		name:     name,
		dc:       dc,
		sink:     newChannelSink(dc, buffer, log),
		streamer: streamer,
		notify:   notify,
		log:      log,
	}
}

// open subscribes the sink and watches for the engine releasing it.
func (s *channelStream) open() {
	if err := s.streamer.Subscribe(s.sink); err != nil {
		s.log.Warn("subscribe failed", zap.String("channel", s.name), zap.Error(err))
		s.sink.Close()
		s.end(StreamFailed, err)
		_ = s.dc.Close()
		return
	}
	s.log.Info("stream attached", zap.String("channel", s.name))
	s.report(StreamNotice{State: StreamAttached, Channel: s.name})
	go s.watch()
}

// watch closes the channel once the sink's writer exits.
func (s *channelStream) watch() {
	<-s.sink.Done()
	if !s.byViewer.Load() {
		s.end(StreamReleased, nil)
	}
	_ = s.dc.Close()
}

// closed detaches the sink after the viewer closed the channel.
func (s *channelStream) closed() {
	s.byViewer.Store(true)
	if err := s.streamer.UnsubscribeSink(s.sink); err != nil {
		s.log.Warn("unsubscribe failed", zap.String("channel", s.name), zap.Error(err))
	}
	s.end(StreamClosed, nil)
}

// end reports the first terminal state only.
func (s *channelStream) end(state StreamState, err error) {
	s.ended.Do(func() {
		s.log.Info("stream detached",
			zap.String("channel", s.name),
			zap.String("state", string(state)),
			zap.Uint64("dropped", s.sink.Dropped()))
		s.report(StreamNotice{State: state, Channel: s.name, Dropped: s.sink.Dropped(), Err: err})
	})
}

// report forwards n to the listener, if any.
func (s *channelStream) report(n StreamNotice) {
	if s.notify != nil {
		s.notify(n)
	}
}
