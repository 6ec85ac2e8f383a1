package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"sync"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

const day = 24 * time.Hour

// Config is the per-call reminder setting. It is not stored per contract.
type Config struct {
	LeadDays int
	Enabled  bool
}

type ScheduleResult struct {
	Status   constants.ReminderStatus
	FireAt   time.Time
	Replaced bool // an armed reminder for the same contract was cancelled
}

// PendingReminder is the read view of an armed entry.
type PendingReminder struct {
	ContractID  string    `json:"contractId"`
	RenewalDate time.Time `json:"renewalDate"`
	FireAt      time.Time `json:"reminderDate"`
}

// Scheduler keeps at most one armed reminder per contract ID. Entries are
// in-process only and do not survive a restart.
type Scheduler struct {
	logger        *slog.Logger
	clock         Clock
	registry      Registry
	notifier      Notifier
	notifyTimeout time.Duration

	mu  sync.Mutex // serializes cancel+arm per Schedule call
	gen uint64
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithRegistry(r Registry) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.registry = r
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Scheduler) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

func NewScheduler(logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		logger:        logger,
		clock:         SystemClock(),
		registry:      NewMemoryRegistry(),
		notifyTimeout: 30 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: logger}
	}
	return s
}

// Schedule arms a reminder at renewal minus LeadDays. A disabled config is a
// no-op and leaves any armed reminder in place. A fire time at or before now
// arms nothing; already-due reminders are never caught up.
func (s *Scheduler) Schedule(contractID string, renewal time.Time, cfg Config) ScheduleResult {
	if !cfg.Enabled {
		s.logger.Info("reminder.disabled", "contract_id", contractID)
		return ScheduleResult{Status: constants.ReminderDisabled}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := s.cancel(contractID)
	now := s.clock.Now()
	fireAt := renewal.AddDate(0, 0, -cfg.LeadDays)
	if !fireAt.After(now) {
		s.logger.Warn("reminder.past_due",
			"contract_id", contractID,
			"fire_at", fireAt.UTC().Format(time.RFC3339),
		)
		return ScheduleResult{Status: constants.ReminderPastDue, FireAt: fireAt, Replaced: replaced}
	}

	s.gen++
	gen := s.gen
	timer := s.clock.AfterFunc(fireAt.Sub(now), func() { s.fire(contractID, gen) })
	s.registry.Put(Entry{
		ContractID:  contractID,
		RenewalDate: renewal,
		FireAt:      fireAt,
		Generation:  gen,
		Timer:       timer,
	})

	s.logger.Info("reminder.scheduled",
		"contract_id", contractID,
		"fire_at", fireAt.UTC().Format(time.RFC3339),
		"replaced", replaced,
	)
	return ScheduleResult{Status: constants.ReminderScheduled, FireAt: fireAt, Replaced: replaced}
}

// Cancel stops the armed reminder for contractID, reporting whether one existed.
func (s *Scheduler) Cancel(contractID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel(contractID)
}

func (s *Scheduler) cancel(contractID string) bool {
	e, ok := s.registry.Delete(contractID)
	if !ok {
		return false
	}
	if e.Timer != nil {
		e.Timer.Stop()
	}
	s.logger.Info("reminder.cancelled", "contract_id", contractID)
	return true
}

// fire runs on the timer goroutine. A stale generation means the entry was
// replaced or cancelled after the timer had already started.
func (s *Scheduler) fire(contractID string, gen uint64) {
	e, ok := s.registry.DeleteIf(contractID, gen)
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("reminder.notify.panic",
				"contract_id", contractID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	s.logger.Info("reminder.firing", "contract_id", contractID)
	err := s.notifier.Notify(ctx, Notice{ContractID: e.ContractID, RenewalDate: e.RenewalDate, FireAt: e.FireAt})
	if err != nil {
		s.logger.Error("reminder.notify.failed", "contract_id", contractID, "error", err)
	}
}

// Pending looks up the armed reminder for one contract.
func (s *Scheduler) Pending(contractID string) (PendingReminder, bool) {
	e, ok := s.registry.Get(contractID)
	if !ok {
		return PendingReminder{}, false
	}
	return PendingReminder{ContractID: e.ContractID, RenewalDate: e.RenewalDate, FireAt: e.FireAt}, true
}

// ListPending does not enumerate armed reminders; bulk listing needs a
// persistent Registry and is not offered by the in-memory scheduler.
func (s *Scheduler) ListPending() []PendingReminder {
	return []PendingReminder{}
}

// CalculateDaysUntilRenewal is ceil((renewal - now) / 1 day); negative for past dates.
func (s *Scheduler) CalculateDaysUntilRenewal(renewal time.Time) int {
	return DaysUntil(s.clock.Now(), renewal)
}

func DaysUntil(now, renewal time.Time) int {
	d := renewal.Sub(now)
	return int(math.Ceil(float64(d) / float64(day)))
}

// Close stops every armed timer.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.registry.All() {
		s.cancel(e.ContractID)
	}
}
