/*
Package scheduler ties a state's entry effect, exit effect, long-running
run (stream or one-shot invoke), and delayed after-transition to the
lifetime of the state's scope.

# Architecture

	┌───────────────────── STATE SCOPE ─────────────────────────┐
	│                                                             │
	│   Enter(tag, cfg, ctx)                                     │
	│     ├── fork cfg.Entry           (tracked, not awaited)   │
	│     ├── cfg.Run.Stream → StreamForEach, each event         │
	│     │     re-enqueued on the mailbox while scope is alive  │
	│     ├── cfg.Run.Invoke → fork once; success/failure/defect │
	│     │     re-enters the mailbox as $invoke.*               │
	│     └── cfg.After → timer; fires $after(tag) unless         │
	│           superseded by a state change (or is persistent)  │
	│                                                             │
	│   Exit(cfg)                                                │
	│     ├── cancel scope → interrupt entry/run/non-persistent  │
	│     │     after-timer; AWAIT their terminal before return  │
	│     └── fork cfg.Exit detached (fire-and-forget)           │
	└─────────────────────────────────────────────────────────────┘

Persistent after-timers are rooted above the state scope (they survive
Exit) and are keyed by AfterConfig.ID; scheduling a second persistent
timer under the same ID replaces the first.
*/
package scheduler
