package ban

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/greenbridge-eco/greenbridge/internal/notify"
	"github.com/greenbridge-eco/greenbridge/internal/redissvc"
)

// Policy controls how many throttled requests a client may accumulate inside
// the strike window before it is locked out entirely.
type Policy struct {
	StrikeLimit  int
	StrikeWindow time.Duration
	BanDuration  time.Duration
}

var DefaultPolicy = Policy{
	StrikeLimit:  10,
	StrikeWindow: time.Minute,
	BanDuration:  15 * time.Minute,
}

// LogEntry records one ban for the daily admin report.
type LogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

var (
	store  StrikeStore
	mailer *notify.Mailer
	policy = DefaultPolicy
)

func SetRedisService(rs *redissvc.RedisService) {
	store = NewRedisStrikeStore(rs.Rdb(), rs.Ctx())
}

func SetStore(s StrikeStore)     { store = s }
func SetMailer(m *notify.Mailer) { mailer = m }
func SetPolicy(p Policy)         { policy = p }

// IsBanned reports whether the client is currently locked out. Without a
// store configured nothing is ever banned.
func IsBanned(target string) bool {
	if store == nil {
		return false
	}
	banned, err := store.IsBanned(target)
	if err != nil {
		log.Printf("ban lookup failed for %s: %v", target, err)
		return false
	}
	return banned
}

// RecordStrike counts one throttled request against the client and bans it
// once the strike limit is reached. Returns true when this strike triggered
// the ban.
func RecordStrike(target, route string) bool {
	if store == nil {
		return false
	}
	strikes, err := store.Strike(target, policy.StrikeWindow)
	if err != nil {
		log.Printf("strike tracking failed for %s: %v", target, err)
		return false
	}
	if strikes < policy.StrikeLimit {
		return false
	}
	if err := store.Ban(target, policy.BanDuration); err != nil {
		log.Printf("could not ban %s: %v", target, err)
		return false
	}

	entry := LogEntry{Target: target, Route: route, Strikes: strikes, Time: time.Now()}
	if err := store.LogBan(entry); err != nil {
		log.Printf("could not log ban for %s: %v", target, err)
	}
	if mailer != nil {
		mailer.SendAdmin("Rate-limit ban: "+target,
			fmt.Sprintf("<p>Target: %s<br>Route: %s<br>Strikes: %d<br>Time: %s</p>",
				entry.Target, entry.Route, entry.Strikes, entry.Time.Format(time.RFC3339)))
	}
	return true
}

// SendDailySummary mails an aggregate of the day's bans to the admin address
// and clears the log. A day without bans sends nothing.
func SendDailySummary() error {
	if store == nil {
		return nil
	}
	entries, err := store.DrainLog()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	routeCounts := make(map[string]int)
	targetCounts := make(map[string]int)
	for _, e := range entries {
		routeCounts[e.Route]++
		targetCounts[e.Target]++
	}

	var sb strings.Builder
	sb.WriteString("<h2>Daily ban summary</h2>")
	sb.WriteString(fmt.Sprintf("<p>Total bans: <strong>%d</strong></p>", len(entries)))
	sb.WriteString("<h3>By route</h3><ul>")
	for route, count := range routeCounts {
		sb.WriteString(fmt.Sprintf("<li><code>%s</code>: %d</li>", route, count))
	}
	sb.WriteString("</ul><h3>By client</h3><ul>")
	for target, count := range targetCounts {
		sb.WriteString(fmt.Sprintf("<li>%s: %d</li>", target, count))
	}
	sb.WriteString("</ul><h3>Full log</h3><ul>")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("<li><b>%s</b> on <code>%s</code> (%d strikes) at %s</li>",
			e.Target, e.Route, e.Strikes, e.Time.Format(time.RFC822)))
	}
	sb.WriteString("</ul>")

	if mailer != nil {
		mailer.SendAdmin("Daily ban report", sb.String())
	}
	return nil
}
