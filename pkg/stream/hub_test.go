package stream

import (
	"testing"
)

func newTestClient() *Client {
	return &Client{
		send:   make(chan []byte, 1),
		sports: map[string]bool{allSports: true},
	}
}

func TestClientWantsDefaultsToEverything(t *testing.T) {
	c := newTestClient()

	if !c.wants("basketball_nba") {
		t.Error("fresh client must receive all sports")
	}
	if !c.wants("") {
		t.Error("untagged messages always pass")
	}
}

func TestClientSubscriptionNarrowing(t *testing.T) {
	c := newTestClient()

	c.handleMessage([]byte(`{"type":"unsubscribe","sports":["ice_hockey_nhl"]}`))
	if c.wants("ice_hockey_nhl") {
		t.Error("unsubscribed sport still delivered")
	}
	if c.wants("basketball_nba") {
		t.Error("narrowing must drop the wildcard")
	}

	c.handleMessage([]byte(`{"type":"subscribe","sports":["basketball_nba"]}`))
	if !c.wants("basketball_nba") {
		t.Error("explicit subscription ignored")
	}
	if !c.wants("") {
		t.Error("untagged messages always pass")
	}
}

func TestClientHandleMessageIgnoresGarbage(t *testing.T) {
	c := newTestClient()
	c.handleMessage([]byte(`not json`))
	if !c.wants("basketball_nba") {
		t.Error("garbage must not change subscriptions")
	}
}
