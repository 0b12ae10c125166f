// Package app wires animd's components together: config loading and hot
// reload, the logging service, the animation contexts, the scene director,
// and the pprof/debug server.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"animd/internal/anim"
	"animd/internal/config"
	"animd/internal/director"
	pprofsvc "animd/internal/observability/pprof"
	logx "animd/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.ConfigManager

	log  logx.Logger
	logs *logx.Service

	contexts map[string]*anim.Context

	director *director.Service
	pprof    *pprofsvc.Service

	// lastCfg is the config the running services currently reflect; only
	// applyConfig replaces it.
	lastCfg *config.Config

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewConfigManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logs, log := logx.New(mapLoggingConfig(cfg.Logging))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))

	baseOpts, err := mapEngineOptions(cfg.Engine)
	if err != nil {
		return nil, err
	}

	contexts := map[string]*anim.Context{}
	appOpts := baseOpts
	appOpts.Kind = anim.ContextApp
	appOpts.Logger = log.With(logx.String("comp", "anim"), logx.String("context", "app"))
	contexts["app"] = anim.New(appOpts)

	if cfg.Engine.KernelContext {
		kernOpts := baseOpts
		kernOpts.Kind = anim.ContextKernel
		kernOpts.Logger = log.With(logx.String("comp", "anim"), logx.String("context", "kernel"))
		contexts["kernel"] = anim.New(kernOpts)
	}

	dirCfg, bindings := mapDirectorConfig(cfg.Director)
	dir := director.New(dirCfg, contexts, log.With(logx.String("comp", "director")))
	dir.Apply(dirCfg, bindings)

	ppCfg, err := mapPprofConfig(cfg)
	if err != nil {
		return nil, err
	}
	pp := pprofsvc.New(ppCfg, log.With(logx.String("comp", "pprof")))
	for name, c := range contexts {
		c := c
		pp.RegisterDumper("anim:"+name, func(ctx context.Context) (string, bool) {
			var out string
			ok := c.Call(ctx, func() { out = c.DumpString() })
			return out, ok
		})
	}

	return &App{
		cfgPath:  cfgPath,
		cfgm:     cfgm,
		log:      log,
		logs:     logs,
		contexts: contexts,
		director: dir,
		pprof:    pp,
		lastCfg:  cfg,
	}, nil
}

// Context returns the named execution context ("app", "kernel"), or nil.
func (a *App) Context(name string) *anim.Context { return a.contexts[name] }

// RegisterScene installs a scene builder config bindings can refer to.
func (a *App) RegisterScene(name string, fn director.SceneFunc) {
	a.director.Register(name, fn)
}

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	for name, c := range a.contexts {
		a.wg.Add(1)
		go func(name string, c *anim.Context) {
			defer a.wg.Done()
			c.Run(runCtx)
		}(name, c)
	}

	if a.director.Enabled() {
		if err := a.director.Start(runCtx); err != nil {
			cancel()
			return fmt.Errorf("start director: %w", err)
		}
	}

	a.pprof.Start(runCtx)

	// Config hot reload.
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.cfgm.Watch(runCtx)
	}()
	sub := a.cfgm.Subscribe(1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-runCtx.Done():
				return
			case cfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyConfig(runCtx, cfg)
			}
		}
	}()

	// SIGUSR1 dumps every context's node listing to the log.
	a.wg.Add(1)
	go a.watchDumpSignal(runCtx)

	// systemd integration is a no-op outside a unit.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	if interval, err := daemon.SdWatchdogEnabled(false); err == nil && interval > 0 {
		a.wg.Add(1)
		go a.watchdogLoop(runCtx, interval/2)
	}

	a.log.Info("app.started",
		logx.Int("contexts", len(a.contexts)),
		logx.Bool("director", a.director.Enabled()),
		logx.Bool("pprof", a.pprof.Enabled()))
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
		a.director.Stop(ctx)
		a.pprof.Stop(ctx)
		if a.cancel != nil {
			a.cancel()
		}
		a.wg.Wait()
		a.log.Info("app.stopped")
		_ = a.logs.Close()
	})
	return nil
}

// applyConfig propagates a hot-reloaded config. Engine sizing is fixed at
// startup; a changed engine section only logs a restart hint.
func (a *App) applyConfig(ctx context.Context, cfg *config.Config) {
	old := a.lastCfg
	a.lastCfg = cfg
	changed, attrs, sceneChanged := config.SummarizeConfigChange(old, cfg)
	if len(changed) == 0 && len(sceneChanged) == 0 {
		return
	}
	a.log.Info("config.reloaded", append([]logx.Field{logx.Any("sections", changed)}, attrs...)...)

	a.logs.Apply(mapLoggingConfig(cfg.Logging))

	dirCfg, bindings := mapDirectorConfig(cfg.Director)
	a.director.Apply(dirCfg, bindings)
	if dirCfg.Enabled {
		_ = a.director.Start(ctx)
	} else {
		a.director.Stop(ctx)
	}

	if ppCfg, err := mapPprofConfig(cfg); err != nil {
		a.log.Warn("config.pprof_rejected", logx.Err(err))
	} else {
		a.pprof.Reconfigure(ctx, ppCfg)
	}

	if old != nil && old.Engine != cfg.Engine {
		a.log.Warn("config.engine_changed_requires_restart")
	}
}

func (a *App) watchDumpSignal(ctx context.Context) {
	defer a.wg.Done()
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			for name, c := range a.contexts {
				var out string
				callCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				ok := c.Call(callCtx, func() { out = c.DumpString() })
				cancel()
				if !ok {
					a.log.Warn("app.dump_unavailable", logx.String("context", name))
					continue
				}
				a.log.Info("app.dump", logx.String("context", name), logx.String("nodes", out))
			}
		}
	}
}

func (a *App) watchdogLoop(ctx context.Context, interval time.Duration) {
	defer a.wg.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}
