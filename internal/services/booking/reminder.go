package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

// DefaultReminderSchedule runs every evening, local time.
const DefaultReminderSchedule = "0 18 * * *"

const EventBookingReminder = "booking.reminder"

type ReminderStore interface {
	// ConfirmedOn returns CONFIRMED bookings for the given calendar day with
	// Service and Customer loaded.
	ConfirmedOn(ctx context.Context, day time.Time) ([]models.Booking, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Reminder emails customers the evening before a confirmed booking.
type Reminder struct {
	store    ReminderStore
	mail     Mailer
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewReminder(store ReminderStore, mail Mailer, notifier Notifier, log zerolog.Logger) *Reminder {
	return &Reminder{
		store:    store,
		mail:     mail,
		notifier: notifier,
		log:      log.With().Str("component", "booking-reminder").Logger(),
		now:      time.Now,
	}
}

// SendDue reminds every customer with a confirmed booking tomorrow and
// returns how many emails went out. A failed email does not stop the run.
func (r *Reminder) SendDue(ctx context.Context) (int, error) {
	tomorrow := r.now().AddDate(0, 0, 1)
	due, err := r.store.ConfirmedOn(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("load due bookings: %w", err)
	}

	sent := 0
	for i := range due {
		b := &due[i]
		if b.Customer == nil {
			continue
		}
		if err := r.mail.Send(ctx, b.Customer.Email, reminderSubject(b), reminderBody(b)); err != nil {
			r.log.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("reminder email failed")
		} else {
			sent++
		}
		r.notifier.Notify(ctx, []uuid.UUID{b.CustomerID, b.ProviderID}, EventBookingReminder, b)
	}
	r.log.Info().Int("due", len(due)).Int("sent", sent).Msg("booking reminders")
	return sent, nil
}

// Start registers SendDue on the cron schedule and starts the scheduler.
// Stop the returned cron on shutdown.
func (r *Reminder) Start(ctx context.Context, schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := r.SendDue(ctx); err != nil {
			r.log.Error().Err(err).Msg("booking reminders")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}

func reminderSubject(b *models.Booking) string {
	title := "your booking"
	if b.Service != nil {
		title = b.Service.Title
	}
	return "Reminder: " + title + " tomorrow"
}

func reminderBody(b *models.Booking) string {
	title, name := "-", "there"
	if b.Service != nil {
		title = b.Service.Title
	}
	if b.Customer != nil && b.Customer.Name != "" {
		name = b.Customer.Name
	}
	return fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>This is a reminder for your confirmed booking tomorrow.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time slot:</strong> %s</li>
		</ul>
		<p>If you can no longer make it, please cancel the booking so the provider knows.</p>
	`, name, title, b.BookingDate.Format(dateLayout), b.TimeSlot)
}
