package cron

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the normalized form of a schedule string.
type Kind int

// Schedule kinds.
const (
	KindCron Kind = iota
	KindInterval
)

// Spec is a parsed schedule string.
type Spec struct {
	Kind Kind

	// Cron is the expression handed to the cron parser. Intervals are
	// rendered as "@every <duration>".
	Cron string

	// Every is set for KindInterval.
	Every time.Duration
}

var (
	reHHMM = regexp.MustCompile(`^(\d{1,3}):(\d{2})$`)

	errEmptySchedule = errors.New("schedule is empty")
	errNonPositive   = errors.New("interval must be greater than zero")
)

// ParseSchedule classifies raw as a cron expression or an interval.
// It does not check cron field syntax; Timers.Validate does that.
func ParseSchedule(raw string) (Spec, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Spec{}, errEmptySchedule
	}

	low := strings.ToLower(s)
	switch {
	case strings.HasPrefix(low, "cron:"):
		expr := strings.TrimSpace(s[len("cron:"):])
		if expr == "" {
			return Spec{}, fmt.Errorf("cron expression required after %q", "cron:")
		}
		return Spec{Kind: KindCron, Cron: expr}, nil
	case strings.HasPrefix(low, "interval:"):
		return intervalSpec(s[len("interval:"):])
	case strings.HasPrefix(low, "every:"):
		return intervalSpec(s[len("every:"):])
	}

	// Whitespace or a leading '@' means cron syntax.
	if strings.ContainsAny(s, " \t") || strings.HasPrefix(s, "@") {
		return Spec{Kind: KindCron, Cron: s}, nil
	}

	if spec, err := intervalSpec(s); err == nil {
		return spec, nil
	} else if errors.Is(err, errNonPositive) {
		return Spec{}, err
	}

	return Spec{}, fmt.Errorf(
		"invalid schedule %q (use cron like \"*/5 * * * *\", HH:MM like \"02:30\", or a duration like \"45m\")",
		raw,
	)
}

func intervalSpec(v string) (Spec, error) {
	d, err := parseInterval(strings.TrimSpace(v))
	if err != nil {
		return Spec{}, err
	}
	return Spec{Kind: KindInterval, Every: d, Cron: "@every " + d.String()}, nil
}

func parseInterval(v string) (time.Duration, error) {
	if v == "" {
		return 0, errors.New("interval required")
	}

	var d time.Duration
	if m := reHHMM.FindStringSubmatch(v); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return 0, fmt.Errorf("invalid minutes in %q", v)
		}
		d = time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
	} else {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q (use HH:MM or a duration like \"2h30m\")", v)
		}
		d = parsed
	}

	if d <= 0 {
		return 0, errNonPositive
	}
	return d, nil
}
