// Package signaling negotiates the WebRTC event channel over WebSocket.
package signaling

import "github.com/pion/webrtc/v3"

// Message types.
const (
	TypeHello  = "hello"
	TypeOffer  = "offer"
	TypeAnswer = "answer"
	TypeICE    = "ice"
	TypeHangup = "hangup"
	TypeError  = "error"
	TypeStream = "stream"
)

// Message is a websocket signaling payload.
type Message struct {
	T         string                   `json:"t"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
	// Label names the data channel the viewer must open; sent with hello.
	Label string `json:"label,omitempty"`
	Error string `json:"error,omitempty"`
	// State and Dropped describe the event channel; sent with stream.
	State   string `json:"state,omitempty"`
	Dropped uint64 `json:"dropped,omitempty"`
}
