package transport

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/common"
	"github.com/dmitrijs2005/audiopanel/internal/logging"
	"github.com/dmitrijs2005/audiopanel/internal/panel/activity"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	payload string
}

type fakeClient struct {
	mqtt.Client

	mu         sync.Mutex
	published  []published
	subscribed []string
	handler    mqtt.MessageHandler
	subErr     error
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, published{topic: topic, payload: payload.(string)})
	return doneToken{}
}

func (f *fakeClient) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, topic)
	f.handler = cb
	return doneToken{err: f.subErr}
}

func (f *fakeClient) Disconnect(uint) {}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestMQTT(t *testing.T) (*MQTT, *fakeClient, *syncBuffer) {
	t.Helper()
	var out syncBuffer
	fc := &fakeClient{}
	m := &MQTT{client: fc, log: logging.NewTextLogger(&out, "debug"), statusTopic: "audio/status"}
	return m, fc, &out
}

func TestPublish_RefusedWhileDisconnected(t *testing.T) {
	m, fc, _ := newTestMQTT(t)

	err := m.Publish("audio/control", "ON")
	require.ErrorIs(t, err, common.ErrNotConnected)
	assert.Empty(t, fc.published)
}

func TestConnectSubscribesAndPublishes(t *testing.T) {
	m, fc, out := newTestMQTT(t)
	connected := make(chan struct{}, 1)
	m.OnConnected(func() { connected <- struct{}{} })

	m.handleConnect(fc)

	select {
	case <-connected:
	case <-time.After(time.Second):
		t.Fatal("OnConnected callback not run")
	}
	assert.True(t, m.IsConnected())
	assert.Equal(t, []string{"audio/status"}, fc.subscribed)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Subscribed to status updates")
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, m.Publish("audio/schedule", "08:00|*"))
	assert.Equal(t, []published{{topic: "audio/schedule", payload: "08:00|*"}}, fc.published)
}

func TestSubscribeFailureIsLogged(t *testing.T) {
	m, fc, out := newTestMQTT(t)
	fc.subErr = errors.New("not authorized")

	m.handleConnect(fc)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "not authorized")
	}, time.Second, 10*time.Millisecond)
}

func TestConnectionLostClearsFlag(t *testing.T) {
	m, fc, out := newTestMQTT(t)
	m.handleConnect(fc)
	require.True(t, m.IsConnected())

	m.handleConnectionLost(fc, errors.New("eof"))

	assert.False(t, m.IsConnected())
	assert.ErrorIs(t, m.Publish("audio/control", "OFF"), common.ErrNotConnected)
	assert.Contains(t, out.String(), "Disconnected from broker")

	m.handleReconnecting(fc, nil)
	assert.Contains(t, out.String(), "Reconnecting...")
}

func TestStatusMessagesReachHandler(t *testing.T) {
	m, fc, _ := newTestMQTT(t)
	var got [][]byte
	m.OnStatus(func(p []byte) { got = append(got, p) })

	m.handleMessage(fc, fakeMessage{topic: "audio/status", payload: []byte(`{"audio":"ON"}`)})
	m.handleMessage(fc, fakeMessage{topic: "other/topic", payload: []byte(`ignored`)})

	require.Len(t, got, 1)
	assert.Equal(t, `{"audio":"ON"}`, string(got[0]))
}

func TestDisconnectClearsFlag(t *testing.T) {
	m, fc, _ := newTestMQTT(t)
	m.handleConnect(fc)
	m.Disconnect()
	assert.False(t, m.IsConnected())
}

func TestClientID(t *testing.T) {
	a := ClientID("panel_")
	b := ClientID("panel_")
	assert.True(t, strings.HasPrefix(a, "panel_"))
	assert.Len(t, a, len("panel_")+8)
	assert.NotEqual(t, a, b)
}

func TestNewMQTT_DoesNotConnect(t *testing.T) {
	m := NewMQTT(Options{
		BrokerURL:       "tcp://127.0.0.1:1",
		ClientIDPrefix:  "test_",
		StatusTopic:     "audio/status",
		ConnectTimeout:  time.Second,
		ReconnectPeriod: time.Second,
	}, logging.Nop())
	assert.False(t, m.IsConnected())
	assert.ErrorIs(t, m.Publish("x", "y"), common.ErrNotConnected)
}

func TestConnectReportsSuccessToActivityFeed(t *testing.T) {
	feed := activity.NewLogger(nil, 10)
	fc := &fakeClient{}
	m := &MQTT{client: fc, log: feed, statusTopic: "audio/status"}

	m.handleConnect(fc)

	assert.Eventually(t, func() bool { return len(feed.Entries()) == 2 }, time.Second, 10*time.Millisecond)
	for _, e := range feed.Entries() {
		assert.Equal(t, activity.LevelSuccess, e.Level, e.Message)
	}
}
