package config

type Config struct {
	Logging LoggingConfig `json:"logging"`

	// Engine controls the animation execution contexts.
	Engine EngineConfig `json:"engine"`

	// Director drives cron-triggered scene scheduling.
	Director DirectorConfig `json:"director"`

	Pprof PprofConfig `json:"pprof,omitempty"`
}

// EngineConfig controls the animation contexts created at startup.
//
// All durations are Go duration strings (e.g. "33ms", "1s").
//
// Defaults (when fields are omitted/zero):
//   - target_frame_interval: "33ms"
//   - queue_size: 128
//   - max_nodes: 0 (unlimited)
//   - kernel_context: false
type EngineConfig struct {
	// TargetFrameInterval is the frame pacing goal; the timer smoothing
	// converges actual callback spacing toward it.
	TargetFrameInterval string `json:"target_frame_interval,omitempty"`

	// QueueSize bounds each context's cross-goroutine post queue.
	QueueSize int `json:"queue_size,omitempty"`

	// MaxNodes caps live animation nodes per context. 0 means unlimited.
	MaxNodes int `json:"max_nodes,omitempty"`

	// KernelContext additionally starts an isolated kernel-priority context
	// next to the default app context.
	KernelContext bool `json:"kernel_context,omitempty"`
}

// DirectorConfig controls the scene director (cron-triggered scheduling).
type DirectorConfig struct {
	Enabled bool `json:"enabled"`

	// Timezone for cron specs, e.g. "Europe/Berlin". Empty means local time.
	Timezone string `json:"timezone,omitempty"`

	// HistorySize bounds the in-memory run history ring. Default 100.
	HistorySize int `json:"history_size,omitempty"`

	Scenes []SceneConfig `json:"scenes,omitempty"`
}

// SceneConfig binds a registered scene builder to a cron spec.
type SceneConfig struct {
	// Name identifies the entry in logs and the run history.
	Name string `json:"name"`

	// Spec is a cron expression ("*/30 * * * * *" with seconds field).
	Spec string `json:"spec"`

	// Scene names the registered scene builder to run.
	Scene string `json:"scene"`

	// Context selects the target execution context: "app" (default) or
	// "kernel".
	Context string `json:"context,omitempty"`
}

// PprofConfig controls the optional pprof HTTP server.
//
// Security note:
//   - Prefer binding to localhost (e.g. "127.0.0.1:6060").
//   - If you bind to a non-loopback address, set a token or explicitly allow_insecure.
type PprofConfig struct {
	Enabled       bool   `json:"enabled"`
	Addr          string `json:"addr,omitempty"`   // default: "127.0.0.1:6060"
	Prefix        string `json:"prefix,omitempty"` // default: "/debug/pprof/"
	Token         string `json:"token,omitempty"`  // optional bearer token (do not log)
	AllowInsecure bool   `json:"allow_insecure,omitempty"`

	// Server timeouts (Go duration strings). WriteTimeout defaults to 0 (disabled)
	// so /profile (which can take 30s+) works reliably.
	ReadTimeout  string `json:"read_timeout,omitempty"`
	WriteTimeout string `json:"write_timeout,omitempty"`
	IdleTimeout  string `json:"idle_timeout,omitempty"`

	// Runtime profiling rates. Leave 0 to keep Go defaults.
	MutexProfileFraction int `json:"mutex_profile_fraction,omitempty"`
	BlockProfileRate     int `json:"block_profile_rate,omitempty"`
	MemProfileRate       int `json:"mem_profile_rate,omitempty"`
}

type LoggingConfig struct {
	Level   string       `json:"level"`
	Console bool         `json:"console"`
	File    LoggingFile  `json:"file"`
	Alert   LoggingAlert `json:"alert"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoggingAlert mirrors logx.AlertConfig: high-severity events copied to
// stderr, rate limited.
type LoggingAlert struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}
