package config

import (
	"reflect"
	"sort"
	"strings"

	logx "animd/pkg/logx"
)

// SummarizeConfigChange returns (1) a compact list of changed sections,
// (2) safe structured attrs for logging (never includes secrets like tokens),
// and (3) a list of scene names whose bindings changed.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field, []string) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 4)
	attrs := make([]logx.Field, 0, 16)

	// Logging
	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logx.level", newCfg.Logging.Level),
			logx.Bool("logx.console", newCfg.Logging.Console),
			logx.Bool("logx.file_enabled", newCfg.Logging.File.Enabled),
			logx.Bool("logx.alert_enabled", newCfg.Logging.Alert.Enabled),
		)
	}

	// Engine
	if oldCfg.Engine != newCfg.Engine {
		changed = append(changed, "engine")
		attrs = append(attrs,
			logx.String("engine.target_frame_interval", strings.TrimSpace(newCfg.Engine.TargetFrameInterval)),
			logx.Int("engine.queue_size", newCfg.Engine.QueueSize),
			logx.Int("engine.max_nodes", newCfg.Engine.MaxNodes),
			logx.Bool("engine.kernel_context", newCfg.Engine.KernelContext),
		)
	}

	// Director (scene list summarized separately)
	dirChanged := oldCfg.Director.Enabled != newCfg.Director.Enabled ||
		strings.TrimSpace(oldCfg.Director.Timezone) != strings.TrimSpace(newCfg.Director.Timezone) ||
		oldCfg.Director.HistorySize != newCfg.Director.HistorySize
	sceneChanged := diffScenes(oldCfg.Director.Scenes, newCfg.Director.Scenes)
	if dirChanged || len(sceneChanged) > 0 {
		changed = append(changed, "director")
		attrs = append(attrs,
			logx.Bool("director.enabled", newCfg.Director.Enabled),
			logx.String("director.timezone", strings.TrimSpace(newCfg.Director.Timezone)),
			logx.Int("director.scene_count", len(newCfg.Director.Scenes)),
			logx.Int("director.scenes_changed", len(sceneChanged)),
		)
	}

	// Pprof (never log token)
	if oldCfg.Pprof.Enabled != newCfg.Pprof.Enabled ||
		strings.TrimSpace(oldCfg.Pprof.Addr) != strings.TrimSpace(newCfg.Pprof.Addr) ||
		strings.TrimSpace(oldCfg.Pprof.Prefix) != strings.TrimSpace(newCfg.Pprof.Prefix) ||
		oldCfg.Pprof.AllowInsecure != newCfg.Pprof.AllowInsecure ||
		strings.TrimSpace(oldCfg.Pprof.ReadTimeout) != strings.TrimSpace(newCfg.Pprof.ReadTimeout) ||
		strings.TrimSpace(oldCfg.Pprof.WriteTimeout) != strings.TrimSpace(newCfg.Pprof.WriteTimeout) ||
		strings.TrimSpace(oldCfg.Pprof.IdleTimeout) != strings.TrimSpace(newCfg.Pprof.IdleTimeout) ||
		oldCfg.Pprof.MutexProfileFraction != newCfg.Pprof.MutexProfileFraction ||
		oldCfg.Pprof.BlockProfileRate != newCfg.Pprof.BlockProfileRate ||
		oldCfg.Pprof.MemProfileRate != newCfg.Pprof.MemProfileRate ||
		(strings.TrimSpace(oldCfg.Pprof.Token) != "") != (strings.TrimSpace(newCfg.Pprof.Token) != "") {
		changed = append(changed, "pprof")
		attrs = append(attrs,
			logx.Bool("pprof.enabled", newCfg.Pprof.Enabled),
			logx.String("pprof.addr", strings.TrimSpace(newCfg.Pprof.Addr)),
			logx.String("pprof.prefix", strings.TrimSpace(newCfg.Pprof.Prefix)),
			logx.Bool("pprof.token_set", strings.TrimSpace(newCfg.Pprof.Token) != ""),
			logx.Bool("pprof.allow_insecure", newCfg.Pprof.AllowInsecure),
		)
	}

	sort.Strings(changed)
	return changed, attrs, sceneChanged
}

// diffScenes reports scene names that were added, removed, or rebound.
func diffScenes(oldS, newS []SceneConfig) []string {
	oldM := make(map[string]SceneConfig, len(oldS))
	for _, s := range oldS {
		oldM[s.Name] = s
	}
	newM := make(map[string]SceneConfig, len(newS))
	for _, s := range newS {
		newM[s.Name] = s
	}

	set := map[string]struct{}{}
	for k := range oldM {
		set[k] = struct{}{}
	}
	for k := range newM {
		set[k] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		o, oOK := oldM[name]
		n, nOK := newM[name]
		if oOK != nOK || !reflect.DeepEqual(o, n) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
