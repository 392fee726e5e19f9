// Package metrics exposes panel activity to Prometheus. Instrumentation is
// done by decorating the controller's collaborators, so the controller
// itself stays unaware of it.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/common"
	"github.com/dmitrijs2005/audiopanel/internal/logging"
	"github.com/dmitrijs2005/audiopanel/internal/panel/device"
	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "audiopanel"

// Device is the subset of device.Remote being counted.
type Device interface {
	Send(ctx context.Context, cmd device.Command) error
	PushSchedule(ctx context.Context, payload string) error
}

// Notifier is the fired-alarm presenter being counted.
type Notifier interface {
	Notify(ctx context.Context, alarm models.Alarm)
}

type Metrics struct {
	Registry *prometheus.Registry

	alarmsFired    prometheus.Counter
	commands       *prometheus.CounterVec
	schedulePushes *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		alarmsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alarms_fired_total",
			Help:      "Alarms that started ringing.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_commands_total",
			Help:      "Control commands by command and result.",
		}, []string{"command", "result"}),
		schedulePushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_pushes_total",
			Help:      "Schedule payload publications by result.",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(m.alarmsFired, m.commands, m.schedulePushes)
	return m
}

// WatchConnection exports the broker connection state as a 0/1 gauge.
func (m *Metrics) WatchConnection(isConnected func() bool) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "broker_connected",
		Help:      "1 while the MQTT connection is up.",
	}, func() float64 {
		if isConnected() {
			return 1
		}
		return 0
	}))
}

// WatchAlarms exports the number of configured and enabled alarms.
func (m *Metrics) WatchAlarms(list func() []models.Alarm) {
	count := func(enabledOnly bool) func() float64 {
		return func() float64 {
			n := 0
			for _, a := range list() {
				if a.Enabled || !enabledOnly {
					n++
				}
			}
			return float64(n)
		}
	}
	m.Registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alarms",
			Help:      "Configured alarms.",
		}, count(false)),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alarms_enabled",
			Help:      "Enabled alarms.",
		}, count(true)),
	)
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrNotConnected):
		return "offline"
	default:
		return "error"
	}
}

type instrumentedDevice struct {
	next Device
	m    *Metrics
}

// InstrumentDevice counts every command and schedule push made through d.
func (m *Metrics) InstrumentDevice(d Device) Device {
	return &instrumentedDevice{next: d, m: m}
}

func (d *instrumentedDevice) Send(ctx context.Context, cmd device.Command) error {
	err := d.next.Send(ctx, cmd)
	d.m.commands.WithLabelValues(string(cmd), result(err)).Inc()
	return err
}

func (d *instrumentedDevice) PushSchedule(ctx context.Context, payload string) error {
	err := d.next.PushSchedule(ctx, payload)
	d.m.schedulePushes.WithLabelValues(result(err)).Inc()
	return err
}

type instrumentedNotifier struct {
	next Notifier
	m    *Metrics
}

// InstrumentNotifier counts fired alarms before handing them to n.
func (m *Metrics) InstrumentNotifier(n Notifier) Notifier {
	return &instrumentedNotifier{next: n, m: m}
}

func (n *instrumentedNotifier) Notify(ctx context.Context, alarm models.Alarm) {
	n.m.alarmsFired.Inc()
	n.next.Notify(ctx, alarm)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn(ctx, "metrics server forced to shutdown", "error", err)
		}
	}()

	log.Debug(ctx, "metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
