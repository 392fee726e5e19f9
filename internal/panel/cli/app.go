package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/audiopanel/internal/logging"
	"github.com/dmitrijs2005/audiopanel/internal/panel/activity"
	"github.com/dmitrijs2005/audiopanel/internal/panel/client"
	"github.com/dmitrijs2005/audiopanel/internal/panel/config"
	"github.com/dmitrijs2005/audiopanel/internal/panel/device"
	"github.com/dmitrijs2005/audiopanel/internal/panel/metrics"
	"github.com/dmitrijs2005/audiopanel/internal/panel/scheduler"
	"github.com/dmitrijs2005/audiopanel/internal/panel/services"
	"github.com/dmitrijs2005/audiopanel/internal/panel/store"
	"github.com/dmitrijs2005/audiopanel/internal/panel/transport"
	"golang.org/x/term"

	_ "modernc.org/sqlite"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type connection interface {
	Connect(ctx context.Context)
	Disconnect()
	IsConnected() bool
}

type commander interface {
	Send(ctx context.Context, cmd device.Command) error
}

type statusSource interface {
	Snapshot() device.Snapshot
}

type App struct {
	config   *config.Config
	log      logging.Logger
	activity *activity.Logger
	repos    *client.Repositories
	conn     connection
	remote   commander
	monitor  statusSource
	engine   *scheduler.Engine
	svc      *services.AlarmService
	metrics  *metrics.Metrics
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the database and builds every component. Nothing touches the
// network until Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	base := logging.NewTextLogger(os.Stderr, c.LogLevel)
	act := activity.NewLogger(base, activity.DefaultCapacity)

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		base.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	mq := transport.NewMQTT(transport.Options{
		BrokerURL:       c.BrokerURL,
		ClientIDPrefix:  c.ClientIDPrefix,
		StatusTopic:     c.StatusTopic,
		ConnectTimeout:  c.ConnectTimeout,
		ReconnectPeriod: c.ReconnectPeriod,
	}, act)
	m := metrics.New()
	remote := m.InstrumentDevice(device.NewRemote(mq, device.Topics{
		Control:  c.ControlTopic,
		Status:   c.StatusTopic,
		Schedule: c.ScheduleTopic,
	}, act))
	monitor := device.NewMonitor(act)
	engine := scheduler.NewEngine(c.TickInterval)

	out := io.Writer(os.Stdout)
	notifier := m.InstrumentNotifier(newBannerNotifier(out, isTerminal(int(os.Stdout.Fd()))))

	svc := services.NewAlarmService(store.NewKVStore(repos.Storage, act), remote, engine, act,
		services.WithSnooze(c.SnoozeDuration),
		services.WithNotifier(notifier),
	)

	m.WatchConnection(mq.IsConnected)
	m.WatchAlarms(svc.List)

	// Broker callbacks run on paho goroutines.
	cbCtx := context.Background()
	mq.OnStatus(func(payload []byte) { monitor.Handle(cbCtx, payload) })
	mq.OnConnected(func() { svc.Resync(cbCtx) })

	return &App{
		config:   c,
		log:      base,
		activity: act,
		repos:    repos,
		conn:     mq,
		remote:   remote,
		monitor:  monitor,
		engine:   engine,
		svc:      svc,
		metrics:  m,
		reader:   bufio.NewReader(os.Stdin),
		out:      out,
	}, nil
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (a *App) getStatus() string {
	s := "offline"
	if a.conn.IsConnected() {
		s = "online"
	}
	if alarm, ok := a.svc.Active(); ok {
		s += " RINGING " + alarm.Label
	}
	return fmt.Sprintf("(%s)", s)
}

// Run restores alarms, connects to the broker, starts the scheduler and
// blocks in the REPL until the user exits or a signal arrives.
func (a *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	a.initSignalHandler(cancelFunc)
	defer a.close(ctx)

	if !isTerminal(int(os.Stdin.Fd())) {
		promptFn = func(string) {}
	}

	a.log.Info(ctx, "Starting audio panel...", "broker", a.config.BrokerURL)
	a.svc.Load(ctx)
	a.conn.Connect(ctx)

	if a.config.MetricsAddr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, a.config.MetricsAddr, a.log); err != nil {
				a.log.Error(ctx, "metrics server failed", "error", err)
			}
		}()
	}

	if err := a.engine.Run(ctx, a.svc); err != nil {
		a.log.Error(ctx, "scheduler start failed", "error", err)
		return
	}

	printlnFn("Audio panel (type 'help' for commands)")

	go func() {
		defer cancelFunc()
		runREPL(ctx, a, a.getStatus, a.reader)
	}()

	<-ctx.Done()
	// The REPL goroutine may be parked on stdin; it is not waited for on signal.
	_ = a.engine.Interrupt()
}

func (a *App) close(ctx context.Context) {
	a.conn.Disconnect()
	if err := a.repos.Close(); err != nil {
		a.log.Warn(ctx, "closing database", "error", err)
	}
}
