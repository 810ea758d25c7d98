package model

import (
	"errors"
	"testing"
)

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		if !p.Valid() {
			t.Errorf("expected %s to be valid", p)
		}
	}
	for _, p := range []Priority{"", "critical", "URGENT"} {
		if p.Valid() {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	ordered := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("expected %s to outrank %s", ordered[i], ordered[i-1])
		}
	}

	// Unknown priorities rank as medium so comparisons stay sane.
	if Priority("bogus").Rank() != PriorityMedium.Rank() {
		t.Errorf("expected unknown priority to rank as medium")
	}
}

func TestCreateMessageRequestValidate(t *testing.T) {
	agentID := int64(1)

	tests := []struct {
		name string
		req  CreateMessageRequest
		err  error
	}{
		{"customer message", CreateMessageRequest{Content: "hi", IsFromCustomer: true}, nil},
		{"agent message", CreateMessageRequest{Content: "hi", AgentID: &agentID}, nil},
		{"empty content", CreateMessageRequest{IsFromCustomer: true}, ErrContentRequired},
		{"agent reply without agent", CreateMessageRequest{Content: "hi"}, ErrAgentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}
