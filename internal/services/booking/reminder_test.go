package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type mockReminderStore struct{ mock.Mock }

func (m *mockReminderStore) ConfirmedOn(ctx context.Context, day time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, day)
	out, _ := args.Get(0).([]models.Booking)
	return out, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

func newReminder(store ReminderStore, mail Mailer, notes Notifier) *Reminder {
	r := NewReminder(store, mail, notes, zerolog.Nop())
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestReminder_SendDue(t *testing.T) {
	ctx := context.Background()
	store := &mockReminderStore{}
	mail := &mockMailer{}
	notes := &recordingNotifier{}

	tomorrow := fixedNow.AddDate(0, 0, 1)
	ok := models.Booking{
		ID: uuid.New(), CustomerID: uuid.New(), ProviderID: uuid.New(),
		BookingDate: tomorrow, TimeSlot: "09:00-11:00",
		Service:  &models.Service{Title: "Pipe repair"},
		Customer: &models.User{Name: "Sari", Email: "sari@x.io"},
	}
	bounced := ok
	bounced.ID = uuid.New()
	bounced.Customer = &models.User{Email: "gone@x.io"}

	store.On("ConfirmedOn", ctx, tomorrow).Return([]models.Booking{ok, bounced}, nil)
	mail.On("Send", ctx, "sari@x.io", "Reminder: Pipe repair tomorrow", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "2026-03-11") && strings.Contains(body, "Hi Sari")
	})).Return(nil)
	mail.On("Send", ctx, "gone@x.io", mock.Anything, mock.Anything).Return(errors.New("mailbox full"))

	sent, err := newReminder(store, mail, notes).SendDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, notes.sent, 2)
	assert.Equal(t, EventBookingReminder, notes.sent[0].event)
	mail.AssertExpectations(t)
}

func TestReminder_SendDue_StoreError(t *testing.T) {
	ctx := context.Background()
	store := &mockReminderStore{}
	store.On("ConfirmedOn", ctx, mock.Anything).Return(nil, errors.New("db down"))

	_, err := newReminder(store, &mockMailer{}, &recordingNotifier{}).SendDue(ctx)
	require.Error(t, err)
}

func TestReminder_Start_RejectsBadSchedule(t *testing.T) {
	r := newReminder(&mockReminderStore{}, &mockMailer{}, &recordingNotifier{})
	_, err := r.Start(context.Background(), "every tuesday")
	require.Error(t, err)

	c, err := r.Start(context.Background(), DefaultReminderSchedule)
	require.NoError(t, err)
	c.Stop()
}
