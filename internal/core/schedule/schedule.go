// Package schedule implements the slot and shift calculus for a restaurant
// day: timezone-correct slot generation, shift containment, party-size
// duration rules and the advance-booking window.
package schedule

import (
	"fmt"
	"sort"
	"time"

	perr "maitred/internal/platform/errors"
)

// SlotStep is the slot grid granularity
const SlotStep = 15 * time.Minute

// Shift is a local-time window [Start, End) in "HH:MM" form during which
// reservations may begin and must finish. "HH:MM" strings compare
// lexicographically, so Start < End also holds as a string comparison.
type Shift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DurationRule maps party sizes up to MaxPartySize to a seating duration
type DurationRule struct {
	MaxPartySize    int `json:"max_party_size"`
	DurationMinutes int `json:"duration_minutes"`
}

// AdvancePolicy bounds how far ahead a reservation may be placed.
// A zero bound disables that check.
type AdvancePolicy struct {
	MinAdvanceMinutes int `json:"min_advance_minutes"`
	MaxAdvanceDays    int `json:"max_advance_days"`
}

// parseHHMM validates and splits a "HH:MM" local time string
func parseHHMM(s string) (hour, min int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, perr.InvalidArgf("shift time %q must be HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &min); err != nil {
		return 0, 0, perr.InvalidArgf("shift time %q must be HH:MM", s)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, 0, perr.InvalidArgf("shift time %q out of range", s)
	}
	return hour, min, nil
}

// ValidateShifts rejects malformed windows. Midnight-spanning shifts
// (Start >= End) are not representable; configure them as two shifts.
func ValidateShifts(shifts []Shift) error {
	for _, sh := range shifts {
		if _, _, err := parseHHMM(sh.Start); err != nil {
			return err
		}
		if _, _, err := parseHHMM(sh.End); err != nil {
			return err
		}
		if sh.Start >= sh.End {
			return perr.InvalidArgf("shift %s-%s must start before it ends", sh.Start, sh.End)
		}
	}
	return nil
}

// DayBounds resolves a local calendar date to its absolute [start, end)
// bounds in loc. A local day may be 23 or 25 hours long around DST.
func DayBounds(date string, loc *time.Location) (start, end time.Time, err error) {
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, perr.InvalidArgf("date %q must be YYYY-MM-DD", date)
	}
	start = d
	end = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
	return start, end, nil
}

// localHHMM renders an absolute instant as its local wall-clock "HH:MM"
func localHHMM(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

// WithinShift reports whether t's local wall-clock time falls inside any
// shift window. No shifts means the restaurant operates around the clock.
func WithinShift(t time.Time, loc *time.Location, shifts []Shift) bool {
	if len(shifts) == 0 {
		return true
	}
	hhmm := localHHMM(t, loc)
	for _, sh := range shifts {
		if sh.Start <= hhmm && hhmm < sh.End {
			return true
		}
	}
	return false
}

// ShiftEnd returns the absolute end instant of the shift containing t.
// With no shifts configured the day itself is the shift and the end is
// the next local midnight. ok is false when t is outside every shift.
func ShiftEnd(t time.Time, loc *time.Location, shifts []Shift) (time.Time, bool) {
	lt := t.In(loc)
	if len(shifts) == 0 {
		return time.Date(lt.Year(), lt.Month(), lt.Day()+1, 0, 0, 0, 0, loc), true
	}
	hhmm := lt.Format("15:04")
	for _, sh := range shifts {
		if sh.Start <= hhmm && hhmm < sh.End {
			eh, em, err := parseHHMM(sh.End)
			if err != nil {
				return time.Time{}, false
			}
			return time.Date(lt.Year(), lt.Month(), lt.Day(), eh, em, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

// DaySlots generates the 15-minute slot start instants for one local day
// that lie within a shift and still fit a reservation of maxDur before the
// shift ends. The grid is anchored at local midnight, so the first slot of
// an evening shift lands exactly on the shift's opening minute.
func DaySlots(date string, loc *time.Location, shifts []Shift, maxDur time.Duration) ([]time.Time, error) {
	dayStart, dayEnd, err := DayBounds(date, loc)
	if err != nil {
		return nil, err
	}

	var slots []time.Time
	for t := dayStart; t.Before(dayEnd); t = t.Add(SlotStep) {
		if len(shifts) == 0 {
			if !t.Add(maxDur).After(dayEnd) {
				slots = append(slots, t)
			}
			continue
		}
		hhmm := localHHMM(t, loc)
		for _, sh := range shifts {
			if hhmm < sh.Start || hhmm >= sh.End {
				continue
			}
			end, ok := ShiftEnd(t, loc, shifts)
			if ok && !t.Add(maxDur).After(end) {
				slots = append(slots, t)
			}
			break
		}
	}
	return slots, nil
}

// Duration resolves the seating duration for a party size. Rules are
// scanned in ascending MaxPartySize and the first one that admits p wins;
// a party larger than every threshold gets the largest rule; with no rules
// the default applies.
func Duration(p int, rules []DurationRule, defaultMinutes int) time.Duration {
	if len(rules) == 0 {
		return time.Duration(defaultMinutes) * time.Minute
	}
	sorted := make([]DurationRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MaxPartySize < sorted[j].MaxPartySize })
	for _, r := range sorted {
		if p <= r.MaxPartySize {
			return time.Duration(r.DurationMinutes) * time.Minute
		}
	}
	return time.Duration(sorted[len(sorted)-1].DurationMinutes) * time.Minute
}

// MaxDuration returns the longest duration any party size can produce.
// Slot generation uses it so a slot feasible for a small party is never
// excluded by a longer hypothetical booking.
func MaxDuration(rules []DurationRule, defaultMinutes int) time.Duration {
	max := time.Duration(defaultMinutes) * time.Minute
	for _, r := range rules {
		if d := time.Duration(r.DurationMinutes) * time.Minute; d > max {
			max = d
		}
	}
	return max
}

// CheckAdvance validates start against the booking window relative to now.
// Starts in the past are always rejected.
func CheckAdvance(now, start time.Time, pol AdvancePolicy) error {
	if start.Before(now) {
		return perr.InvalidArgf("start is in the past")
	}
	if pol.MinAdvanceMinutes > 0 {
		if start.Before(now.Add(time.Duration(pol.MinAdvanceMinutes) * time.Minute)) {
			return perr.InvalidArgf("start must be at least %d minutes ahead", pol.MinAdvanceMinutes)
		}
	}
	if pol.MaxAdvanceDays > 0 {
		if start.After(now.AddDate(0, 0, pol.MaxAdvanceDays)) {
			return perr.InvalidArgf("start must be at most %d days ahead", pol.MaxAdvanceDays)
		}
	}
	return nil
}
