package hub

import (
	"testing"
)

func TestHandleInboundPing(t *testing.T) {
	h := New()
	defer h.Close()
	handler := NewHandler(h)

	c := h.Connect(nil, 1)

	handler.handleInbound(c, &InboundMessage{Type: InboundPing})

	ev := decodeEvent(t, receive(t, c))
	if ev.Type != EventPong {
		t.Errorf("expected %s event, got %s", EventPong, ev.Type)
	}
}

func TestHandleInboundTyping(t *testing.T) {
	h := New()
	defer h.Close()
	handler := NewHandler(h)

	agent := h.Connect(nil, 4)
	observer := h.Connect(nil, 0)

	handler.handleInbound(agent, &InboundMessage{
		Type:           InboundTyping,
		ConversationID: 11,
		IsTyping:       true,
	})

	for _, c := range []*Client{agent, observer} {
		ev := decodeEvent(t, receive(t, c))
		if ev.Type != EventAgentTyping {
			t.Fatalf("expected %s event, got %s", EventAgentTyping, ev.Type)
		}
		data := ev.Data.(map[string]any)
		if data["agent_id"] != float64(4) || data["conversation_id"] != float64(11) {
			t.Errorf("unexpected typing payload: %#v", data)
		}
	}
}

func TestHandleInboundTypingFromAnonymousIsIgnored(t *testing.T) {
	h := New()
	defer h.Close()
	handler := NewHandler(h)

	anon := h.Connect(nil, 0)

	handler.handleInbound(anon, &InboundMessage{
		Type:           InboundTyping,
		ConversationID: 11,
		IsTyping:       true,
	})

	expectNothing(t, anon)
}

func TestHandleInboundViewing(t *testing.T) {
	h := New()
	defer h.Close()
	handler := NewHandler(h)

	agent := h.Connect(nil, 6)

	handler.handleInbound(agent, &InboundMessage{Type: InboundView, ConversationID: 33})
	if got := h.AgentsViewing(33); len(got) != 1 || got[0] != 6 {
		t.Fatalf("expected agent 6 viewing, got %v", got)
	}

	handler.handleInbound(agent, &InboundMessage{Type: InboundUnview, ConversationID: 33})
	if got := h.AgentsViewing(33); len(got) != 0 {
		t.Errorf("expected no viewers, got %v", got)
	}
}

func TestHandleInboundUnknownTypeIsIgnored(t *testing.T) {
	h := New()
	defer h.Close()
	handler := NewHandler(h)

	c := h.Connect(nil, 2)
	handler.handleInbound(c, &InboundMessage{Type: "bogus"})
	expectNothing(t, c)
}
