package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookings struct {
	sweeps, reminders int
	err               error
}

func (f *fakeBookings) SweepStatuses(ctx context.Context) (int, int, error) {
	f.sweeps++
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return 0, 0, errors.New("no deadline")
	}
	return 1, 2, f.err
}

func (f *fakeBookings) SendReminders(context.Context) (int, error) {
	f.reminders++
	return 3, f.err
}

type fakeSubscriptions struct{ calls int }

func (f *fakeSubscriptions) SweepExpired(context.Context) (int, error) {
	f.calls++
	return 0, nil
}

type fakeOutbox struct{ calls int }

func (f *fakeOutbox) DispatchPending(context.Context) (int, error) {
	f.calls++
	return 1, nil
}

func TestJobsCallTheirService(t *testing.T) {
	bookings := &fakeBookings{}
	subs := &fakeSubscriptions{}
	outbox := &fakeOutbox{}

	SweepBookingStatuses(bookings)()
	SendBookingReminders(bookings)()
	ExpireSubscriptions(subs)()
	DispatchNotifications(outbox)()

	assert.Equal(t, 1, bookings.sweeps)
	assert.Equal(t, 1, bookings.reminders)
	assert.Equal(t, 1, subs.calls)
	assert.Equal(t, 1, outbox.calls)
}

func TestJobsSurviveErrors(t *testing.T) {
	bookings := &fakeBookings{err: errors.New("db down")}
	assert.NotPanics(t, SweepBookingStatuses(bookings))
	assert.NotPanics(t, SendBookingReminders(bookings))
}

func TestRegister(t *testing.T) {
	c := cron.New()
	noop := func() {}

	require.NoError(t, Register(c,
		Entry{Name: "bookings", Spec: "*/5 * * * *", Run: noop},
		Entry{Name: "outbox", Spec: "@every 1m", Run: noop},
	))
	assert.Len(t, c.Entries(), 2)

	err := Register(c, Entry{Name: "broken", Spec: "every now and then", Run: noop})
	assert.ErrorContains(t, err, "broken")
}
