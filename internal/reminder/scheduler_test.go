package reminder_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/reminder"
	"github.com/joseph-ayodele/contracts-tracker/internal/testutil"
)

type recorder struct {
	mu      sync.Mutex
	notices []reminder.Notice
}

func (r *recorder) Notify(_ context.Context, n reminder.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

var epoch = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func newScheduler(t *testing.T) (*reminder.Scheduler, *testutil.FakeClock, *recorder, *reminder.MemoryRegistry) {
	t.Helper()
	clk := testutil.NewFakeClock(epoch)
	rec := &recorder{}
	reg := reminder.NewMemoryRegistry()
	s := reminder.NewScheduler(nil,
		reminder.WithClock(clk),
		reminder.WithNotifier(rec),
		reminder.WithRegistry(reg),
	)
	return s, clk, rec, reg
}

func TestSchedule_FiresAtLeadTime(t *testing.T) {
	s, clk, rec, reg := newScheduler(t)
	renewal := epoch.AddDate(0, 0, 40)

	res := s.Schedule("c1", renewal, reminder.Config{LeadDays: 30, Enabled: true})
	assert.Equal(t, constants.ReminderScheduled, res.Status)
	assert.Equal(t, epoch.AddDate(0, 0, 10), res.FireAt)
	assert.False(t, res.Replaced)

	p, ok := s.Pending("c1")
	require.True(t, ok)
	assert.Equal(t, res.FireAt, p.FireAt)

	clk.Advance(10*24*time.Hour - time.Second)
	assert.Zero(t, rec.count())

	clk.Advance(time.Second)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "c1", rec.notices[0].ContractID)
	assert.Equal(t, renewal, rec.notices[0].RenewalDate)
	assert.Zero(t, reg.Len())
	_, ok = s.Pending("c1")
	assert.False(t, ok)
}

func TestSchedule_PastDueArmsNothing(t *testing.T) {
	s, clk, rec, reg := newScheduler(t)

	res := s.Schedule("c1", epoch.AddDate(0, 0, 5), reminder.Config{LeadDays: 30, Enabled: true})
	assert.Equal(t, constants.ReminderPastDue, res.Status)
	assert.Zero(t, reg.Len())
	assert.Zero(t, clk.Active())

	// fire time exactly now also counts as past due
	res = s.Schedule("c2", epoch.AddDate(0, 0, 30), reminder.Config{LeadDays: 30, Enabled: true})
	assert.Equal(t, constants.ReminderPastDue, res.Status)

	clk.Advance(365 * 24 * time.Hour)
	assert.Zero(t, rec.count())
}

func TestSchedule_ReplacesExisting(t *testing.T) {
	s, clk, rec, reg := newScheduler(t)
	renewal := epoch.AddDate(0, 0, 40)
	cfg := reminder.Config{LeadDays: 30, Enabled: true}

	first := s.Schedule("c1", renewal, cfg)
	second := s.Schedule("c1", renewal, cfg)

	assert.False(t, first.Replaced)
	assert.True(t, second.Replaced)
	assert.Equal(t, 1, clk.Stopped())
	assert.Equal(t, 1, clk.Active())
	assert.Equal(t, 1, reg.Len())

	clk.Advance(60 * 24 * time.Hour)
	assert.Equal(t, 1, rec.count())
}

func TestSchedule_RescheduleMovesFireTime(t *testing.T) {
	s, clk, rec, _ := newScheduler(t)

	s.Schedule("c1", epoch.AddDate(0, 0, 40), reminder.Config{LeadDays: 30, Enabled: true})
	res := s.Schedule("c1", epoch.AddDate(0, 0, 40), reminder.Config{LeadDays: 10, Enabled: true})
	assert.Equal(t, epoch.AddDate(0, 0, 30), res.FireAt)

	clk.Advance(20 * 24 * time.Hour)
	assert.Zero(t, rec.count())
	clk.Advance(10 * 24 * time.Hour)
	assert.Equal(t, 1, rec.count())
}

func TestSchedule_DisabledKeepsExisting(t *testing.T) {
	s, clk, rec, reg := newScheduler(t)
	renewal := epoch.AddDate(0, 0, 40)

	s.Schedule("c1", renewal, reminder.Config{LeadDays: 30, Enabled: true})
	res := s.Schedule("c1", renewal, reminder.Config{LeadDays: 30, Enabled: false})

	assert.Equal(t, constants.ReminderDisabled, res.Status)
	assert.Equal(t, 1, reg.Len())
	assert.Zero(t, clk.Stopped())

	clk.Advance(10 * 24 * time.Hour)
	assert.Equal(t, 1, rec.count())
}

func TestCancel(t *testing.T) {
	s, clk, rec, _ := newScheduler(t)

	assert.False(t, s.Cancel("missing"))

	s.Schedule("c1", epoch.AddDate(0, 0, 40), reminder.Config{LeadDays: 30, Enabled: true})
	assert.True(t, s.Cancel("c1"))
	assert.False(t, s.Cancel("c1"))

	clk.Advance(60 * 24 * time.Hour)
	assert.Zero(t, rec.count())
}

func TestFire_NotifierPanicIsContained(t *testing.T) {
	clk := testutil.NewFakeClock(epoch)
	reg := reminder.NewMemoryRegistry()
	s := reminder.NewScheduler(nil,
		reminder.WithClock(clk),
		reminder.WithRegistry(reg),
		reminder.WithNotifier(reminder.NotifierFunc(func(context.Context, reminder.Notice) error {
			panic("smtp down")
		})),
	)

	s.Schedule("c1", epoch.AddDate(0, 0, 2), reminder.Config{LeadDays: 1, Enabled: true})
	assert.NotPanics(t, func() { clk.Advance(48 * time.Hour) })
	assert.Zero(t, reg.Len())
}

func TestCalculateDaysUntilRenewal(t *testing.T) {
	s, _, _, _ := newScheduler(t)

	assert.Equal(t, 0, s.CalculateDaysUntilRenewal(epoch))
	assert.Equal(t, 1, s.CalculateDaysUntilRenewal(epoch.Add(23*time.Hour)))
	assert.Equal(t, 1, s.CalculateDaysUntilRenewal(epoch.Add(24*time.Hour)))
	assert.Equal(t, 2, s.CalculateDaysUntilRenewal(epoch.Add(24*time.Hour+time.Minute)))
	assert.Equal(t, -1, s.CalculateDaysUntilRenewal(epoch.Add(-36*time.Hour)))
}

func TestListPendingIsEmpty(t *testing.T) {
	s, _, _, _ := newScheduler(t)
	s.Schedule("c1", epoch.AddDate(0, 0, 40), reminder.Config{LeadDays: 30, Enabled: true})

	assert.Empty(t, s.ListPending())
	assert.NotNil(t, s.ListPending())
}

func TestClose_StopsEverything(t *testing.T) {
	s, clk, rec, reg := newScheduler(t)
	s.Schedule("c1", epoch.AddDate(0, 0, 40), reminder.Config{LeadDays: 30, Enabled: true})
	s.Schedule("c2", epoch.AddDate(0, 0, 50), reminder.Config{LeadDays: 30, Enabled: true})

	s.Close()
	assert.Zero(t, reg.Len())
	assert.Zero(t, clk.Active())

	clk.Advance(100 * 24 * time.Hour)
	assert.Zero(t, rec.count())
}

func TestSchedule_ConcurrentSameContract(t *testing.T) {
	s, clk, rec, reg := newScheduler(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(lead int) {
			defer wg.Done()
			s.Schedule("c1", epoch.AddDate(0, 0, 40), reminder.Config{LeadDays: lead, Enabled: true})
		}(i%10 + 1)
	}
	wg.Wait()

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 1, clk.Active())
	clk.Advance(60 * 24 * time.Hour)
	assert.Equal(t, 1, rec.count())
}

func TestSystemClockFires(t *testing.T) {
	done := make(chan reminder.Notice, 1)
	s := reminder.NewScheduler(nil, reminder.WithNotifier(reminder.NotifierFunc(func(_ context.Context, n reminder.Notice) error {
		done <- n
		return nil
	})))
	defer s.Close()

	// LeadDays is whole days, so aim the renewal just past one day from now.
	res := s.Schedule("c1", time.Now().UTC().Add(24*time.Hour+20*time.Millisecond), reminder.Config{LeadDays: 1, Enabled: true})
	require.Equal(t, constants.ReminderScheduled, res.Status)

	select {
	case n := <-done:
		assert.Equal(t, "c1", n.ContractID)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder did not fire")
	}
}
