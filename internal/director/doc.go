// Package director triggers animation scenes on a cron schedule.
//
// # Overview
//
// A scene is a builder function registered under a logical name (e.g.
// "breathing-led"). Config bindings tie a scene to a cron spec and a target
// animation context. When a trigger fires, the director posts the scene build
// onto the target context's loop goroutine, schedules the resulting tree, and
// records the outcome in a bounded in-memory history.
//
// # Schedule formats
//
// Bindings accept standard cron expressions, 5-field or 6-field with optional
// seconds (e.g. "*/30 * * * * *"), plus descriptors like "@hourly" and
// "@every 55m". Specs are evaluated in the configured timezone.
//
// # Lifecycle
//
// The Service can be started/stopped at runtime (e.g. via config hot reload).
// Applying new bindings or a new timezone restarts the underlying cron;
// registering scenes while stopped is supported.
package director
