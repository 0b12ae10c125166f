package director

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"animd/internal/anim"
	logx "animd/pkg/logx"
)

type Config struct {
	Enabled     bool
	HistorySize int
	Timezone    string // IANA TZ, e.g. "Asia/Jakarta"
}

// Binding ties a registered scene builder to a cron spec and a target
// context.
type Binding struct {
	Name    string
	Spec    string
	Scene   string
	Context string // "app" (default) or "kernel"
}

// SceneFunc builds an animation tree on the given context and returns its
// top-level handle, or zero when the build failed.
type SceneFunc func(c *anim.Context) anim.Handle

type HistoryItem struct {
	Name    string
	Scene   string
	Context string
	Started time.Time
	Handle  anim.Handle
	Error   string
}

type Service struct {
	mu sync.Mutex

	log logx.Logger
	cfg Config
	loc *time.Location

	parser   cron.Parser
	c        *cron.Cron
	bindings []Binding

	scenes  map[string]SceneFunc
	targets map[string]*anim.Context

	running bool

	hmu     sync.Mutex
	history []HistoryItem
}

// New creates the director. targets maps context names ("app", "kernel") to
// the loops scene triggers post onto.
func New(cfg Config, targets map[string]*anim.Context, log logx.Logger) *Service {
	return &Service{
		cfg: cfg,
		log: log,
		parser: cron.NewParser(
			cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		scenes:  map[string]SceneFunc{},
		targets: targets,
	}
}

func (s *Service) Enabled() bool { return s.cfg.Enabled }

// Register installs a scene builder under a name bindings refer to.
// Registration must happen before Start; later calls still take effect on the
// next trigger.
func (s *Service) Register(name string, fn SceneFunc) {
	s.mu.Lock()
	s.scenes[name] = fn
	s.mu.Unlock()
}

// Apply swaps config and bindings at runtime. A running director restarts its
// cron when the timezone or any binding changed.
func (s *Service) Apply(cfg Config, bindings []Binding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldTZ := strings.TrimSpace(s.cfg.Timezone)
	newTZ := strings.TrimSpace(cfg.Timezone)
	changed := oldTZ != newTZ || !bindingsEqual(s.bindings, bindings)
	s.cfg = cfg
	s.bindings = bindings

	if !s.running {
		return
	}
	if changed {
		s.restartLocked()
	}
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	loc := s.loadLocationLocked()
	s.loc = loc
	s.c = cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))

	for _, b := range s.bindings {
		if err := s.addBindingLocked(b); err != nil {
			s.c = nil
			return fmt.Errorf("binding %q: %w", b.Name, err)
		}
	}

	s.c.Start()
	s.running = true
	s.log.Info("director.started",
		logx.Int("bindings", len(s.bindings)),
		logx.String("tz", loc.String()))
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	if s.c != nil {
		<-s.c.Stop().Done()
		s.c = nil
	}
	s.log.Info("director.stopped")
}

// AddBinding registers a new trigger at runtime.
func (s *Service) AddBinding(b Binding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validateBindingLocked(b); err != nil {
		return err
	}
	s.bindings = append(s.bindings, b)
	if !s.running {
		return nil
	}
	return s.addBindingLocked(b)
}

func (s *Service) validateBindingLocked(b Binding) error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("binding needs a name")
	}
	if _, ok := s.scenes[b.Scene]; !ok {
		return fmt.Errorf("unknown scene %q", b.Scene)
	}
	if _, ok := s.targets[targetName(b.Context)]; !ok {
		return fmt.Errorf("unknown context %q", b.Context)
	}
	if _, err := s.parser.Parse(b.Spec); err != nil {
		return fmt.Errorf("invalid spec %q: %w", b.Spec, err)
	}
	return nil
}

func (s *Service) addBindingLocked(b Binding) error {
	_, err := s.c.AddFunc(b.Spec, func() { s.trigger(b) })
	return err
}

func (s *Service) restartLocked() {
	if s.c != nil {
		<-s.c.Stop().Done()
	}
	loc := s.loadLocationLocked()
	s.loc = loc
	s.c = cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))
	for _, b := range s.bindings {
		if err := s.addBindingLocked(b); err != nil {
			s.log.Warn("director.binding_rejected",
				logx.String("binding", b.Name), logx.Err(err))
		}
	}
	s.c.Start()
	s.log.Info("director.restarted", logx.String("tz", loc.String()))
}

func (s *Service) loadLocationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("director.invalid_timezone, falling back to Local",
			logx.String("tz", tz), logx.Err(err))
		return time.Local
	}
	return loc
}

// trigger runs on a cron goroutine. The scene build and scheduling are
// marshaled onto the target context's loop; only the history record is
// written here.
func (s *Service) trigger(b Binding) {
	s.mu.Lock()
	scene := s.scenes[b.Scene]
	target := s.targets[targetName(b.Context)]
	s.mu.Unlock()

	if scene == nil || target == nil {
		s.record(HistoryItem{
			Name: b.Name, Scene: b.Scene, Context: targetName(b.Context),
			Started: time.Now(), Error: "scene or context unbound",
		})
		return
	}

	posted := target.Post(func() {
		item := HistoryItem{
			Name: b.Name, Scene: b.Scene, Context: targetName(b.Context),
			Started: time.Now(),
		}
		defer func() {
			if rec := recover(); rec != nil {
				item.Error = fmt.Sprint(rec)
				s.log.Error("director.scene_panicked",
					logx.String("binding", b.Name),
					logx.Any("panic", rec),
					logx.Stack(logx.CaptureStack(1)))
			}
			s.record(item)
		}()

		h := scene(target)
		if h == 0 {
			item.Error = "scene build failed"
			s.log.Warn("director.scene_failed", logx.String("binding", b.Name))
			return
		}
		item.Handle = h
		// Fire-and-forget: the tree frees itself once it finishes.
		target.SetAutoDestroy(h, true)
		if !target.Schedule(h) {
			item.Error = "schedule rejected"
			target.Destroy(h)
			item.Handle = 0
			return
		}
		s.log.Debug("director.scene_scheduled",
			logx.String("binding", b.Name),
			logx.Uint64("handle", uint64(h)))
	})
	if !posted {
		s.record(HistoryItem{
			Name: b.Name, Scene: b.Scene, Context: targetName(b.Context),
			Started: time.Now(), Error: "context queue full",
		})
	}
}

func (s *Service) record(item HistoryItem) {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.history = append(s.history, item)
	limit := s.cfg.HistorySize
	if limit <= 0 {
		limit = 100
	}
	if len(s.history) > limit {
		s.history = s.history[len(s.history)-limit:]
	}
}

// Snapshot copies the run history, most recent last.
func (s *Service) Snapshot() []HistoryItem {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	out := make([]HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}

func targetName(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "app"
	}
	return s
}

func bindingsEqual(a, b []Binding) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
