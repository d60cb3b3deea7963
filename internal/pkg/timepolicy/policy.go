package timepolicy

import (
	"fmt"
	"time"

	"github.com/orgpulse/attendance-backend-go/internal/config"
)

// Policy encodes the organization's clock rules. All comparisons run in the
// configured organization timezone, never in server-local time.
type Policy struct {
	loc                 *time.Location
	earliestCheckInHour int
	lateThresholdHour   int
	latestCheckInHour   int
	autoCheckoutHour    int
	maxClassDuration    time.Duration
}

type CheckInDecision struct {
	Allowed bool
	IsLate  bool
	Reason  string
}

type CheckOutDecision struct {
	Allowed            bool
	ForcedAutoCheckout bool
	Reason             string
}

func New(cfg config.AttendanceConfig) (*Policy, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load attendance timezone: %w", err)
	}
	return &Policy{
		loc:                 loc,
		earliestCheckInHour: cfg.EarliestCheckInHour,
		lateThresholdHour:   cfg.LateThresholdHour,
		latestCheckInHour:   cfg.LatestCheckInHour,
		autoCheckoutHour:    cfg.AutoCheckoutHour,
		maxClassDuration:    cfg.MaxClassDuration,
	}, nil
}

func (p *Policy) Location() *time.Location {
	return p.loc
}

func (p *Policy) MaxClassDuration() time.Duration {
	return p.maxClassDuration
}

// DayOf truncates a timestamp to the calendar day in the organization
// timezone. Day records are keyed on this value.
func (p *Policy) DayOf(t time.Time) time.Time {
	local := t.In(p.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.loc)
}

// AutoCheckoutBoundary returns the auto-checkout instant for the calendar day
// containing t.
func (p *Policy) AutoCheckoutBoundary(t time.Time) time.Time {
	local := t.In(p.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), p.autoCheckoutHour, 0, 0, 0, p.loc)
}

// ValidateCheckIn rejects check-ins outside [earliest, latest) and flags
// lateness strictly after the late threshold.
func (p *Policy) ValidateCheckIn(now time.Time) CheckInDecision {
	local := now.In(p.loc)

	earliest := time.Date(local.Year(), local.Month(), local.Day(), p.earliestCheckInHour, 0, 0, 0, p.loc)
	lateThreshold := time.Date(local.Year(), local.Month(), local.Day(), p.lateThresholdHour, 0, 0, 0, p.loc)
	latest := time.Date(local.Year(), local.Month(), local.Day(), p.latestCheckInHour, 0, 0, 0, p.loc)

	if local.Before(earliest) {
		return CheckInDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("check-in opens at %02d:00", p.earliestCheckInHour),
		}
	}
	if !local.Before(latest) {
		return CheckInDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("check-in closes at %02d:00", p.latestCheckInHour),
		}
	}

	return CheckInDecision{
		Allowed: true,
		IsLate:  local.After(lateThreshold),
	}
}

// ValidateCheckOut rejects manual checkout at or after the auto-checkout
// boundary; only the sweeper may close the session then.
func (p *Policy) ValidateCheckOut(now time.Time) CheckOutDecision {
	if !now.Before(p.AutoCheckoutBoundary(now)) {
		return CheckOutDecision{
			Allowed:            false,
			ForcedAutoCheckout: true,
			Reason:             fmt.Sprintf("manual checkout is closed at %02d:00; the session is closed automatically", p.autoCheckoutHour),
		}
	}
	return CheckOutDecision{Allowed: true}
}
