package domain

import (
	"strconv"
	"strings"
	"time"
)

// invasionHours are the UTC hours at which a Kritias invasion starts.
var invasionHours = []int{8, 10, 12, 14, 16, 18, 20, 22}

// ServerTime is the MapleStory server clock with the time left until each
// reset. The server runs on UTC.
type ServerTime struct {
	Now        time.Time
	Daily      time.Duration
	WeeklyBoss time.Duration
	// WeeklyMule is the guild and dojo reset.
	WeeklyMule time.Duration
	Invasion   time.Duration
}

// NewServerTime computes the server clock at now.
func NewServerTime(now time.Time) ServerTime {
	now = now.UTC()
	return ServerTime{
		Now:        now,
		Daily:      UntilDailyReset(now),
		WeeklyBoss: untilWeekday(now, time.Thursday),
		WeeklyMule: untilWeekday(now, time.Monday),
		Invasion:   UntilInvasion(now),
	}
}

// UntilDailyReset returns the time left until the next midnight UTC.
func UntilDailyReset(now time.Time) time.Duration {
	now = now.UTC()
	return startOfDay(now).AddDate(0, 0, 1).Sub(now)
}

// UntilWeeklyBossReset returns the time left until Thursday 00:00 UTC.
func UntilWeeklyBossReset(now time.Time) time.Duration {
	return untilWeekday(now.UTC(), time.Thursday)
}

// UntilGuildReset returns the time left until Monday 00:00 UTC.
func UntilGuildReset(now time.Time) time.Duration {
	return untilWeekday(now.UTC(), time.Monday)
}

// UntilInvasion returns the time left until the next invasion. An
// invasion starting exactly now counts as next.
func UntilInvasion(now time.Time) time.Duration {
	now = now.UTC()
	day := startOfDay(now)
	for _, hour := range invasionHours {
		start := day.Add(time.Duration(hour) * time.Hour)
		if !now.After(start) {
			return start.Sub(now)
		}
	}
	return day.AddDate(0, 0, 1).Add(time.Duration(invasionHours[0]) * time.Hour).Sub(now)
}

func untilWeekday(now time.Time, weekday time.Weekday) time.Duration {
	day := startOfDay(now)
	next := day.AddDate(0, 0, (int(weekday)-int(day.Weekday())+7)%7)
	if now.After(next) {
		next = next.AddDate(0, 0, 7)
	}
	return next.Sub(now)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatCountdown renders d as "1d 2h 3m 4s", leaving out zero units.
func FormatCountdown(d time.Duration) string {
	d = d.Round(time.Second)
	units := []struct {
		size   time.Duration
		suffix string
	}{
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}

	var parts []string
	for _, u := range units {
		n := d / u.size
		d -= n * u.size
		if n > 0 {
			parts = append(parts, strconv.FormatInt(int64(n), 10)+u.suffix)
		}
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}
