package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/common"
	"github.com/dmitrijs2005/audiopanel/internal/logging"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Options configures the broker connection.
type Options struct {
	BrokerURL       string
	ClientIDPrefix  string
	StatusTopic     string
	ConnectTimeout  time.Duration
	ReconnectPeriod time.Duration
}

// MQTT is a Publisher over an eclipse/paho client. It subscribes to the
// status topic on every (re)connect and hands status payloads to the
// registered handler.
type MQTT struct {
	client      mqtt.Client
	log         logging.Logger
	statusTopic string

	connected atomic.Bool

	mu          sync.Mutex
	onStatus    func(payload []byte)
	onConnected func()
}

var _ Publisher = (*MQTT)(nil)

// NewMQTT prepares a client; nothing touches the network until Connect.
func NewMQTT(o Options, log logging.Logger) *MQTT {
	m := &MQTT{log: log, statusTopic: o.StatusTopic}

	opts := mqtt.NewClientOptions().
		AddBroker(o.BrokerURL).
		SetClientID(ClientID(o.ClientIDPrefix)).
		SetCleanSession(true).
		SetConnectTimeout(o.ConnectTimeout).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(o.ReconnectPeriod).
		SetConnectRetry(true).
		SetConnectRetryInterval(o.ReconnectPeriod).
		SetOnConnectHandler(m.handleConnect).
		SetConnectionLostHandler(m.handleConnectionLost).
		SetReconnectingHandler(m.handleReconnecting)

	m.client = mqtt.NewClient(opts)
	return m
}

// ClientID returns prefix followed by eight random hex digits.
func ClientID(prefix string) string {
	id := uuid.New()
	return fmt.Sprintf("%s%x", prefix, id[:4])
}

// OnStatus registers the handler for payloads arriving on the status topic.
func (m *MQTT) OnStatus(fn func(payload []byte)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStatus = fn
}

// OnConnected registers a callback run after each successful (re)connect.
func (m *MQTT) OnConnected(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onConnected = fn
}

// Connect starts connecting in the background. Failures are logged and
// retried by the client every ReconnectPeriod.
func (m *MQTT) Connect(ctx context.Context) {
	m.log.Info(ctx, "Connecting to MQTT broker...")
	token := m.client.Connect()
	go func() {
		select {
		case <-token.Done():
			if err := token.Error(); err != nil {
				m.log.Error(ctx, "Connection error: "+err.Error())
			}
		case <-ctx.Done():
		}
	}()
}

// Disconnect closes the connection, waiting up to 250ms for in-flight work.
func (m *MQTT) Disconnect() {
	m.connected.Store(false)
	m.client.Disconnect(250)
}

func (m *MQTT) IsConnected() bool {
	return m.connected.Load()
}

func (m *MQTT) Publish(topic, payload string) error {
	if !m.IsConnected() {
		return common.ErrNotConnected
	}
	token := m.client.Publish(topic, 0, false, payload)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			m.log.Warn(context.Background(), "publish failed", "topic", topic, "error", err)
		}
	}()
	return nil
}

func (m *MQTT) handleConnect(c mqtt.Client) {
	ctx := context.Background()
	m.connected.Store(true)
	logging.Success(ctx, m.log, "Connected to MQTT broker")

	token := c.Subscribe(m.statusTopic, 0, m.handleMessage)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			m.log.Error(ctx, "Subscribe failed", "topic", m.statusTopic, "error", err)
			return
		}
		logging.Success(ctx, m.log, "Subscribed to status updates")
	}()

	m.mu.Lock()
	fn := m.onConnected
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (m *MQTT) handleConnectionLost(_ mqtt.Client, err error) {
	m.connected.Store(false)
	m.log.Error(context.Background(), "Disconnected from broker", "error", err)
}

func (m *MQTT) handleReconnecting(mqtt.Client, *mqtt.ClientOptions) {
	m.log.Info(context.Background(), "Reconnecting...")
}

func (m *MQTT) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	m.log.Debug(context.Background(), "received", "topic", msg.Topic(), "payload", string(msg.Payload()))
	if msg.Topic() != m.statusTopic {
		return
	}
	m.mu.Lock()
	fn := m.onStatus
	m.mu.Unlock()
	if fn != nil {
		fn(msg.Payload())
	}
}
