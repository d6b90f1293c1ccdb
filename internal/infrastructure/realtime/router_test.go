package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textPayload(s string) *string { return &s }

func testMessage(id, sender, recipient string) MessagePayload {
	return MessagePayload{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		Body:        textPayload("hi"),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestDeliverReachesEveryRecipientConnection(t *testing.T) {
	reg := NewRegistry()
	router := NewMessageRouter(reg)

	c1 := newFakeConn("bob")
	c2 := newFakeConn("bob")
	sender := newFakeConn("alice")
	reg.Register(c1)
	reg.Register(c2)
	reg.Register(sender)

	delivered := router.Deliver(testMessage("m1", "alice", "bob"))
	require.Equal(t, 2, delivered)

	for _, conn := range []*fakeConn{c1, c2} {
		payloads := conn.received()
		require.Len(t, payloads, 1)

		var event NewMessageEvent
		require.NoError(t, json.Unmarshal(payloads[0], &event))
		assert.Equal(t, EventNewMessage, event.Type)
		assert.Equal(t, "m1", event.Message.ID)
		assert.Equal(t, "alice", event.Message.SenderID)
	}

	// The router only pushes to the recipient; the sender reconciles via the
	// REST response instead.
	assert.Empty(t, sender.received())
}

func TestDeliverIsolatesConnectionFailures(t *testing.T) {
	reg := NewRegistry()
	router := NewMessageRouter(reg)

	broken := newFakeConn("bob")
	broken.failSend = true
	healthy := newFakeConn("bob")
	reg.Register(broken)
	reg.Register(healthy)

	delivered := router.Deliver(testMessage("m2", "alice", "bob"))
	assert.Equal(t, 1, delivered)
	assert.Len(t, healthy.received(), 1)
}

func TestDeliverWithNoRecipientConnections(t *testing.T) {
	reg := NewRegistry()
	router := NewMessageRouter(reg)

	// Offline recipient: the push is silently dropped, not an error.
	assert.Equal(t, 0, router.Deliver(testMessage("m3", "alice", "bob")))
}

type recordingPolicy struct {
	pushes int
}

func (p *recordingPolicy) Push(conn Conn, payload []byte) error {
	p.pushes++
	return conn.Send(payload)
}

func TestDeliveryPolicyIsSubstitutable(t *testing.T) {
	reg := NewRegistry()
	router := NewMessageRouter(reg)
	policy := &recordingPolicy{}
	router.SetPolicy(policy)

	reg.Register(newFakeConn("bob"))
	router.Deliver(testMessage("m4", "alice", "bob"))

	assert.Equal(t, 1, policy.pushes)
}
