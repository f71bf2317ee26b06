package signaling

import (
	"encoding/json"
	"fmt"
	"share-lab/errors"

	"github.com/pion/webrtc/v4"
)

// Inbound events.
const (
	EventJoinRoom     = "join-room"
	EventSignal       = "signal"
	EventShareRequest = "share-request"
	EventShareStarted = "share-started"
	EventShareStopped = "sender-share-stopped"
	EventDeleteRoom   = "del-room"
	EventFrameTS      = "frame-ts"
)

// Outbound events.
const (
	EventJoinReply          = "join-room"
	EventJoinedRoom         = "joined-room"
	EventSenderList         = "sender-list"
	EventSenderShareStarted = "sender-share-started"
	EventSenderDisconnected = "sender-disconnected"
	EventRoomDeleted        = "room-deleted"
)

type Role string

const (
	RoleReceiver Role = "receiver"
	RoleSender   Role = "sender"
)

// Message is the envelope read from a signaling websocket.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinRequest struct {
	Role Role   `json:"role"`
	Name string `json:"name"`
}

type JoinReply struct {
	Success bool   `json:"success"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
}

type PeerRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type ShareRequest struct {
	To string `json:"to"`
}

type FrameTimestamp struct {
	From string  `json:"from"`
	Name string  `json:"name,omitempty"`
	TsMs float64 `json:"ts_ms"`
	Seq  int     `json:"seq"`
}

// Signal carries either a session description or a trickled ICE candidate.
type Signal struct {
	From      string                   `json:"from,omitempty"`
	To        string                   `json:"to,omitempty"`
	Type      string                   `json:"type,omitempty"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
}

// Validate parses the SDP of an offer or answer. Candidates are relayed as
// they are, an empty one marks the end of gathering.
func (s Signal) Validate() error {
	if s.Candidate != nil {
		return nil
	}
	sdpType := webrtc.NewSDPType(s.Type)
	switch sdpType {
	case webrtc.SDPTypeOffer, webrtc.SDPTypeAnswer, webrtc.SDPTypePranswer:
	case webrtc.SDPTypeRollback:
		return nil
	default:
		return fmt.Errorf("%w: type %q", errors.ErrInvalidSDP, s.Type)
	}
	desc := webrtc.SessionDescription{Type: sdpType, SDP: s.SDP}
	if _, err := desc.Unmarshal(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidSDP, err)
	}
	return nil
}
