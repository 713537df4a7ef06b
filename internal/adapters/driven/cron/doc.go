// Package cron implements driven.Timers on github.com/robfig/cron/v3.
//
// Accepted schedules:
//   - cron: "0 2 * * *", with an optional leading seconds field ("30 0 2 * * *")
//   - descriptors: "@daily", "@hourly", "@every 90m"
//   - interval shorthand: "15m", "2h30m", "01:30" (HH:MM as a duration)
//   - explicit prefixes: "cron:<expr>", "every:<interval>", "interval:<interval>"
//
// Each timer owns one execution slot. A fire that arrives while the previous
// run of the same timer is still going is skipped.
package cron
