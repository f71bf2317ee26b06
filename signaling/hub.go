// Package signaling relays WebRTC negotiation between the screen senders and
// the single receiver, and announces the sender roster over MQTT.
package signaling

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/errors"
	"sync"

	"github.com/samber/lo"
)

const generatedNamePrefix = "Sender-"

// Conn is the write side of a peer connection. Send must be safe for
// concurrent use.
type Conn interface {
	Send(event string, data any) error
}

type Peer struct {
	ID   string
	Name string
	Role Role
	conn Conn
}

func NewPeer(id string, conn Conn) *Peer {
	return &Peer{ID: id, conn: conn}
}

func (p *Peer) participant() domain.Participant {
	return domain.Participant{ID: p.ID, Name: p.Name}
}

type delivery struct {
	to    *Peer
	event string
	data  any
}

// outcome is what a hub operation decided under the lock. It is carried out
// once the lock is released.
type outcome struct {
	deliveries    []delivery
	rosterChanged bool
	roster        []domain.Participant
	left          []domain.Participant
}

func (o *outcome) send(to *Peer, event string, data any) {
	if to != nil {
		o.deliveries = append(o.deliveries, delivery{to: to, event: event, data: data})
	}
}

// Hub is the room: one receiver and its senders in join order.
type Hub struct {
	mu sync.Mutex
	// outMu is taken before mu is released, outcomes are carried out in the
	// order they were decided.
	outMu     sync.Mutex
	log       *slog.Logger
	publisher contract.RosterPublisher
	receiver  *Peer
	senders   []*Peer
}

func NewHub(log *slog.Logger, publisher contract.RosterPublisher) *Hub {
	return &Hub{log: log, publisher: publisher}
}

// Handle decodes one inbound message and applies it for peer.
func (h *Hub) Handle(peer *Peer, msg Message) error {
	switch msg.Event {
	case EventJoinRoom:
		var req JoinRequest
		if err := decode(msg, &req); err != nil {
			return err
		}
		reply := h.Join(peer, req)
		return peer.conn.Send(EventJoinReply, reply)
	case EventSignal:
		var sig Signal
		if err := decode(msg, &sig); err != nil {
			return err
		}
		return h.Relay(peer, sig)
	case EventShareRequest:
		var req ShareRequest
		if err := decode(msg, &req); err != nil {
			return err
		}
		return h.RequestShare(peer, req.To)
	case EventShareStarted:
		var ref PeerRef
		if len(msg.Data) > 0 {
			if err := decode(msg, &ref); err != nil {
				return err
			}
		}
		h.ShareStarted(peer, ref.Name)
	case EventShareStopped:
		h.ShareStopped(peer)
	case EventDeleteRoom:
		h.DeleteRoom(peer)
	case EventFrameTS:
		var ts FrameTimestamp
		if err := decode(msg, &ts); err != nil {
			return err
		}
		h.ForwardFrameTimestamp(peer, ts)
	default:
		h.log.Debug("Ignoring unknown signaling event", "event", msg.Event, "peer", peer.ID)
	}
	return nil
}

// Join admits the receiver, or a sender once a receiver is present and its
// name is free. An empty sender name is generated from its id.
func (h *Hub) Join(peer *Peer, req JoinRequest) JoinReply {
	var reply JoinReply
	h.run(func(out *outcome) {
		reply = h.join(out, peer, req)
	})
	return reply
}

func (h *Hub) join(out *outcome, peer *Peer, req JoinRequest) JoinReply {
	switch req.Role {
	case RoleReceiver:
		if h.receiver != nil && h.receiver != peer {
			h.log.Warn("Second receiver refused", "peer", peer.ID)
			return refuse(errors.ErrReceiverTaken)
		}
		peer.Role = RoleReceiver
		h.receiver = peer
		out.send(peer, EventSenderList, h.senderRefs())
		h.log.Info("Receiver joined", "peer", peer.ID)
		return JoinReply{Success: true}
	case RoleSender:
		if h.receiver == nil {
			return refuse(errors.ErrNoReceiver)
		}
		if h.isSender(peer) {
			return JoinReply{Success: true, Name: peer.Name}
		}
		name := lo.CoalesceOrEmpty(req.Name, generatedName(peer.ID))
		if h.findByName(name) != nil {
			h.log.Warn("Sender name already in use", "name", name, "peer", peer.ID)
			return refuse(fmt.Errorf("%w: %s", errors.ErrNameInUse, name))
		}
		peer.Role = RoleSender
		peer.Name = name
		h.senders = append(h.senders, peer)
		out.rosterChanged = true
		out.send(h.receiver, EventSenderList, h.senderRefs())
		out.send(peer, EventJoinedRoom, PeerRef{ID: peer.ID, Name: name})
		h.log.Info("Sender joined", "name", name, "peer", peer.ID)
		return JoinReply{Success: true, Name: name}
	default:
		return refuse(fmt.Errorf("%w: %q", errors.ErrInvalidRole, req.Role))
	}
}

// Relay forwards a signal from a sender to the receiver, or from the
// receiver to the sender it addresses.
func (h *Hub) Relay(peer *Peer, sig Signal) error {
	if err := sig.Validate(); err != nil {
		h.log.Warn("Dropping invalid signal", "peer", peer.ID, "err", err)
		return err
	}
	var err error
	h.run(func(out *outcome) {
		sig.From = peer.ID
		switch {
		case h.isSender(peer):
			if h.receiver == nil {
				err = errors.ErrNoReceiver
				return
			}
			sig.To = h.receiver.ID
			out.send(h.receiver, EventSignal, sig)
		case peer == h.receiver:
			target := h.findByID(sig.To)
			if target == nil {
				err = fmt.Errorf("%w: %s", errors.ErrUnknownPeer, sig.To)
				return
			}
			out.send(target, EventSignal, sig)
		default:
			err = fmt.Errorf("%w: %s has not joined", errors.ErrUnknownPeer, peer.ID)
		}
	})
	return err
}

// RequestShare asks a sender to start sharing its screen.
func (h *Hub) RequestShare(peer *Peer, to string) error {
	var err error
	h.run(func(out *outcome) {
		target := h.findByID(to)
		if target == nil {
			err = fmt.Errorf("%w: %s", errors.ErrUnknownPeer, to)
			return
		}
		out.send(target, EventShareRequest, PeerRef{ID: peer.ID})
	})
	return err
}

func (h *Hub) ShareStarted(peer *Peer, name string) {
	h.run(func(out *outcome) {
		if h.receiver == nil {
			return
		}
		display := lo.CoalesceOrEmpty(peer.Name, name, generatedName(peer.ID))
		out.send(h.receiver, EventSenderShareStarted, PeerRef{ID: peer.ID, Name: display})
		out.send(h.receiver, EventSenderList, h.senderRefs())
	})
}

func (h *Hub) ShareStopped(peer *Peer) {
	h.run(func(out *outcome) {
		out.send(h.receiver, EventShareStopped, PeerRef{ID: peer.ID})
	})
}

func (h *Hub) ForwardFrameTimestamp(peer *Peer, ts FrameTimestamp) {
	h.run(func(out *outcome) {
		ts.From = peer.ID
		ts.Name = peer.Name
		out.send(h.receiver, EventFrameTS, ts)
	})
}

// DeleteRoom is only honored for the receiver.
func (h *Hub) DeleteRoom(peer *Peer) {
	h.run(func(out *outcome) {
		if peer != h.receiver {
			h.log.Warn("Room deletion refused", "peer", peer.ID)
			return
		}
		h.closeRoom(out)
	})
}

// Disconnect cleans up after a closed connection. A sender leaves the
// roster, the receiver takes the whole room down with it.
func (h *Hub) Disconnect(peer *Peer) {
	h.run(func(out *outcome) {
		switch {
		case peer == h.receiver:
			h.log.Info("Receiver disconnected", "peer", peer.ID)
			h.closeRoom(out)
		case h.isSender(peer):
			h.removeSender(out, peer)
		}
	})
}

// Leave removes a sender by id, or by name when no id is given.
func (h *Hub) Leave(id, name string) bool {
	var ok bool
	h.run(func(out *outcome) {
		target := h.findByID(id)
		if target == nil && id == "" {
			target = h.findByName(name)
		}
		if target == nil {
			h.log.Info("Leave beacon for unknown sender", "id", id, "name", name)
			return
		}
		h.removeSender(out, target)
		ok = true
	})
	return ok
}

// Roster lists the joined senders in join order.
func (h *Hub) Roster() []domain.Participant {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.roster()
}

func (h *Hub) HasReceiver() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.receiver != nil
}

func (h *Hub) removeSender(out *outcome, peer *Peer) {
	h.senders = lo.Without(h.senders, peer)
	out.rosterChanged = true
	out.left = append(out.left, peer.participant())
	out.send(h.receiver, EventSenderDisconnected, PeerRef{ID: peer.ID})
	out.send(h.receiver, EventSenderList, h.senderRefs())
	h.log.Info("Sender left", "name", peer.Name, "peer", peer.ID)
}

func (h *Hub) closeRoom(out *outcome) {
	for _, s := range h.senders {
		out.send(s, EventRoomDeleted, struct{}{})
		s.Role = ""
	}
	out.rosterChanged = len(h.senders) > 0
	h.receiver = nil
	h.senders = nil
	h.log.Info("Room deleted")
}

func (h *Hub) roster() []domain.Participant {
	return lo.Map(h.senders, func(p *Peer, _ int) domain.Participant { return p.participant() })
}

func (h *Hub) senderRefs() []PeerRef {
	return lo.Map(h.senders, func(p *Peer, _ int) PeerRef { return PeerRef{ID: p.ID, Name: p.Name} })
}

func (h *Hub) isSender(peer *Peer) bool {
	return lo.Contains(h.senders, peer)
}

func (h *Hub) findByID(id string) *Peer {
	p, _ := lo.Find(h.senders, func(p *Peer) bool { return id != "" && p.ID == id })
	return p
}

func (h *Hub) findByName(name string) *Peer {
	p, _ := lo.Find(h.senders, func(p *Peer) bool { return p.Name == name })
	return p
}

// run applies fn under the hub lock, then writes to the peers and publishes
// once the lock is released. A later roster is never published before an
// earlier one.
func (h *Hub) run(fn func(out *outcome)) {
	var out outcome
	h.mu.Lock()
	fn(&out)
	if out.rosterChanged {
		out.roster = h.roster()
	}
	h.outMu.Lock()
	h.mu.Unlock()
	defer h.outMu.Unlock()
	h.apply(out)
}

func (h *Hub) apply(out outcome) {
	for _, d := range out.deliveries {
		if err := d.to.conn.Send(d.event, d.data); err != nil {
			h.log.Warn("Signaling write failed", "event", d.event, "peer", d.to.ID, "err", err)
		}
	}
	if h.publisher == nil {
		return
	}
	for _, p := range out.left {
		if err := h.publisher.PublishLeft(p); err != nil {
			h.log.Warn("Failed to publish participant left", "name", p.Name, "err", err)
		}
	}
	if out.rosterChanged {
		if err := h.publisher.PublishRoster(out.roster); err != nil {
			h.log.Warn("Failed to publish roster", "count", len(out.roster), "err", err)
		}
	}
}

func generatedName(id string) string {
	return generatedNamePrefix + lo.Substring(id, 0, 5)
}

func refuse(err error) JoinReply {
	return JoinReply{Success: false, Message: err.Error()}
}

func decode(msg Message, v any) error {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrInvalidPayload, msg.Event, err)
	}
	return nil
}

type RosterResponder interface {
	RespondRoster(participants []domain.Participant) error
}

// AnswerRosterRequest returns the handler for participant/request: the
// dashboard asks for the roster when it (re)connects.
func (h *Hub) AnswerRosterRequest(responder RosterResponder) func(payload []byte) error {
	return func([]byte) error {
		roster := h.Roster()
		h.log.Debug("Answering roster request", "count", len(roster))
		return responder.RespondRoster(roster)
	}
}
