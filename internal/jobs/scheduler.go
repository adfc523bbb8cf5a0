package jobs

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/greenbridge-eco/greenbridge/internal/http/ban"
	"github.com/greenbridge-eco/greenbridge/internal/metrics"
	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/notify"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

// Scheduler runs the platform's recurring jobs: expired-token cleanup,
// collection reminders, the daily admin summary and the daily ban report.
type Scheduler struct {
	cron    *cron.Cron
	tokens  repo.TokenRepository
	users   repo.UserRepository
	colls   repo.CollectionRepository
	metrics repo.MetricsRepository
	mailer  *notify.Mailer
}

func NewScheduler(
	tokens repo.TokenRepository,
	users repo.UserRepository,
	colls repo.CollectionRepository,
	metricsRepo repo.MetricsRepository,
	mailer *notify.Mailer,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		tokens:  tokens,
		users:   users,
		colls:   colls,
		metrics: metricsRepo,
		mailer:  mailer,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", func() { s.run("token_cleanup", s.CleanupExpiredTokens) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 7 * * *", func() { s.run("collection_reminders", s.SendCollectionReminders) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 6 * * *", func() { s.run("admin_summary", s.SendAdminSummary) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("59 23 * * *", func() { s.run("ban_summary", ban.SendDailySummary) }); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run(name string, fn func() error) {
	start := time.Now()
	err := fn()
	metrics.RecordJobRun(name, time.Since(start), err == nil)
	if err != nil {
		log.Printf("job %s failed: %v", name, err)
	}
}

// CleanupExpiredTokens deletes account tokens past their expiry.
func (s *Scheduler) CleanupExpiredTokens() error {
	n, err := s.tokens.DeleteExpired(time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("removed %d expired tokens", n)
	}
	return nil
}

// SendCollectionReminders mails the creator of every collection scheduled in
// the next 24 hours.
func (s *Scheduler) SendCollectionReminders() error {
	now := time.Now()
	upcoming, err := s.colls.ScheduledBetween(now, now.Add(24*time.Hour))
	if err != nil {
		return err
	}

	for _, c := range upcoming {
		user, err := s.users.GetByID(c.CreatedBy)
		if err != nil {
			log.Printf("reminder for collection %s skipped: %v", c.ID, err)
			continue
		}
		when := c.CollectionDate.Format("Mon, 02 Jan 2006 15:04")
		body := fmt.Sprintf("Hi %s,\n\nYour waste collection %s is scheduled for %s.\nExpected weight: %.1f kg.\n\nGreenBridge",
			user.FirstName, c.ID, when, c.TotalWeightKg())
		s.mailer.Send(user.Email, "Upcoming waste collection reminder", body)
	}
	return nil
}

// SendAdminSummary mails platform totals to the configured admin address.
func (s *Scheduler) SendAdminSummary() error {
	m, err := s.metrics.GetDashboardMetrics()
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("<h2>GreenBridge daily summary</h2><ul>")
	sb.WriteString(fmt.Sprintf("<li>Users: <strong>%d</strong></li>", m.TotalUsers))
	sb.WriteString(fmt.Sprintf("<li>Organizations: <strong>%d</strong> (%d pending verification)</li>",
		m.TotalOrganizations, m.PendingOrganizations))
	sb.WriteString(fmt.Sprintf("<li>Collections: <strong>%d</strong> (%d completed)</li>",
		m.TotalCollections, m.CompletedCollections))
	sb.WriteString(fmt.Sprintf("<li>Total weight collected: <strong>%.1f kg</strong></li>", m.TotalWeightKg))
	sb.WriteString(fmt.Sprintf("<li>CO2 offset: <strong>%.1f kg</strong></li>", m.TotalCO2OffsetKg))
	if m.TopMaterial.Name != "" {
		sb.WriteString(fmt.Sprintf("<li>Top material: %s (%.1f kg)</li>", m.TopMaterial.Name, m.TopMaterial.WeightKg))
	}
	sb.WriteString("</ul>")

	s.mailer.SendAdmin("GreenBridge daily summary", sb.String())
	return nil
}

// NotifyStatusChange mails the collection creator after a status transition.
func (s *Scheduler) NotifyStatusChange(c models.WasteCollection) {
	user, err := s.users.GetByID(c.CreatedBy)
	if err != nil {
		return
	}
	body := fmt.Sprintf("Hi %s,\n\nCollection %s is now %s.\n\nGreenBridge",
		user.FirstName, c.ID, c.Status)
	s.mailer.Send(user.Email, "Collection status update", body)
}
