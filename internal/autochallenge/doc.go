// Package autochallenge decides whether to create a challenge automatically
// and creates it.
//
// Evaluate reads the app_config entries once, honours the enabled switch for
// scheduled triggers, asks a generator for a template, stores the challenge
// starting tomorrow and finally records the run time. The run time is only
// written after the challenge was stored.
//
// Cadence is owned by whatever calls Evaluate (system cron, the cron HTTP
// endpoint). The configured interval is reported by State but not enforced.
package autochallenge
