package contracts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
	"github.com/joseph-ayodele/contracts-tracker/internal/extract"
	"github.com/joseph-ayodele/contracts-tracker/internal/pipeline"
	"github.com/joseph-ayodele/contracts-tracker/internal/reminder"
	"github.com/joseph-ayodele/contracts-tracker/internal/repository"
	"github.com/joseph-ayodele/contracts-tracker/internal/storage"
)

// DefaultUserID is used when an upload names no user.
const DefaultUserID = "550e8400-e29b-41d4-a716-446655440000"

// DefaultDaysAhead is the upcoming-renewals window when none is given.
const DefaultDaysAhead = 30

// DocumentProcessor turns raw document bytes into extracted fields.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, data []byte, fileName string) (pipeline.ExtendedExtractionResult, extract.Result, error)
}

// Service holds the contract business rules between the HTTP boundary and
// the pipeline, storage, repository and reminder scheduler.
type Service struct {
	repo      repository.ContractRepository
	store     storage.FileStore
	processor DocumentProcessor
	reminders *reminder.Scheduler
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo repository.ContractRepository, store storage.FileStore, processor DocumentProcessor, reminders *reminder.Scheduler, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		store:     store,
		processor: processor,
		reminders: reminders,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Upload stores the document then extracts its fields without saving a
// contract. A stored file is kept even when extraction fails.
func (s *Service) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	log := common.LoggerFrom(ctx, s.logger)
	if len(in.Data) == 0 {
		return UploadResult{}, common.NewInvalidInputError("No file uploaded")
	}
	if mt := mimetype.Detect(in.Data); !mt.Is(constants.PDFContentType) {
		return UploadResult{}, common.NewInvalidInputError(fmt.Sprintf("Only PDF files are allowed (got %s)", mt.String()))
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = DefaultUserID
	}
	if _, err := uuid.Parse(userID); err != nil {
		return UploadResult{}, common.NewInvalidInputError("userId must be a valid UUID")
	}

	log.Info("contract.upload.start", "user_id", userID, "file_name", in.FileName, "bytes", len(in.Data))
	stored, err := s.store.Store(ctx, in.Data, constants.PDFContentType, in.FileName)
	if err != nil {
		if !errors.Is(err, common.ErrUpload) {
			err = common.NewUploadError("PDF upload failed", err)
		}
		log.Error("contract.upload.store_failed", "user_id", userID, "error", err)
		return UploadResult{}, err
	}

	res, text, err := s.processor.ProcessDocument(ctx, in.Data, in.FileName)
	if err != nil {
		log.Error("contract.upload.extract_failed", "user_id", userID, "file_path", stored.Path, "error", err)
		return UploadResult{}, err
	}

	log.Info("contract.upload.ok",
		"user_id", userID,
		"file_path", stored.Path,
		"pages", text.Pages,
		"word_count", res.WordCount,
	)
	return UploadResult{
		ExtractedData: ExtractedData{ExtendedExtractionResult: res, UserID: userID, FilePath: stored.Path},
		FilePath:      stored.Path,
		PublicURL:     stored.PublicURL,
	}, nil
}

// Save persists a reviewed extraction after the completeness gate.
func (s *Service) Save(ctx context.Context, in SaveInput) (*entity.Contract, error) {
	log := common.LoggerFrom(ctx, s.logger)
	if !IsComplete(in.ExtractedData.ExtractionResult) {
		log.Warn("contract.save.rejected", "user_id", in.UserID)
		return nil, common.NewValidationError("Invalid contract data: insufficient extracted data")
	}

	v := common.NewValidator().
		Field("userId", in.UserID, common.UUID).
		Field("renewalDate", in.ExtractedData.RenewalDate, common.DateYMD)
	if err := v.Err(); err != nil {
		return nil, err
	}

	input := repository.ContractInput{
		ContractHolderName: in.ExtractedData.ContractHolderName,
		ContractIdentifier: in.ExtractedData.ContractID,
		ServiceProduct:     in.ExtractedData.ServiceProduct,
		ContactEmail:       in.ExtractedData.ContactEmail,
		RenewalDate:        parseOptionalDate(in.ExtractedData.RenewalDate),
	}
	if id := strings.TrimSpace(in.UserID); id != "" {
		uid := uuid.MustParse(id)
		input.UserID = &uid
	}
	if p := strings.TrimSpace(in.FilePath); p != "" {
		input.FilePath = &p
	}

	c, err := s.repo.Insert(ctx, input)
	if err != nil {
		return nil, err
	}
	log.Info("contract.save.ok", "contract_id", c.ID, "user_id", in.UserID)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Contract, error) {
	cid, err := parseID("contract id", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cid)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*entity.Contract, error) {
	uid, err := parseID("userId", userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, uid)
}

// Update applies a partial update; absent fields keep their stored values.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.Contract, error) {
	cid, err := parseID("contract id", id)
	if err != nil {
		return nil, err
	}
	v := common.NewValidator().
		Field("renewalDate", in.RenewalDate, common.DateYMD).
		Field("contactEmail", in.ContactEmail, common.Email)
	if err := v.Err(); err != nil {
		return nil, err
	}

	c, err := s.repo.Update(ctx, cid, repository.ContractPatch{
		ContractHolderName: in.ContractHolderName,
		ContractIdentifier: in.ContractIdentifier,
		RenewalDate:        parseOptionalDate(in.RenewalDate),
		ServiceProduct:     in.ServiceProduct,
		ContactEmail:       in.ContactEmail,
		FilePath:           in.FilePath,
	})
	if err != nil {
		return nil, err
	}
	common.LoggerFrom(ctx, s.logger).Info("contract.update.ok", "contract_id", cid)
	return c, nil
}

// ScheduleReminder arms (or replaces) the renewal reminder for an existing contract.
func (s *Service) ScheduleReminder(ctx context.Context, id string, in ReminderInput) (reminder.ScheduleResult, error) {
	v := common.NewValidator().Field("renewalDate", in.RenewalDate, common.Required, common.DateYMD)
	if in.DaysBeforeRenewal < 0 {
		v.Field("daysBeforeRenewal", in.DaysBeforeRenewal, func(name string, value any) *common.FieldError {
			return &common.FieldError{Field: name, Value: value, Message: "must not be negative"}
		})
	}
	if err := v.Err(); err != nil {
		return reminder.ScheduleResult{}, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return reminder.ScheduleResult{}, err
	}
	renewal, _ := common.ParseDate(in.RenewalDate)

	res := s.reminders.Schedule(c.ID.String(), renewal, reminder.Config{
		LeadDays: in.DaysBeforeRenewal,
		Enabled:  in.Enabled,
	})
	common.LoggerFrom(ctx, s.logger).Info("contract.reminder.requested",
		"contract_id", c.ID,
		"status", res.Status,
		"replaced", res.Replaced,
	)
	return res, nil
}

// ReminderStatus reports days to renewal and whether a reminder is armed.
func (s *Service) ReminderStatus(ctx context.Context, id string) (ReminderStatus, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return ReminderStatus{}, err
	}
	st := ReminderStatus{ContractID: c.ID.String()}
	if c.RenewalDate == nil {
		return st, nil
	}
	st.DaysUntilRenewal = s.reminders.CalculateDaysUntilRenewal(*c.RenewalDate)
	if p, ok := s.reminders.Pending(st.ContractID); ok {
		st.ReminderScheduled = true
		d := p.FireAt.UTC().Format("2006-01-02")
		st.ReminderDate = &d
	}
	return st, nil
}

// UpcomingRenewals lists the user's contracts renewing between the start of
// today (UTC) and now plus daysAhead, soonest first.
func (s *Service) UpcomingRenewals(ctx context.Context, userID string, daysAhead int) ([]UpcomingRenewal, error) {
	uid, err := parseID("userId", userID)
	if err != nil {
		return nil, err
	}
	if daysAhead <= 0 {
		return nil, common.NewInvalidInputError("daysAhead must be a positive integer")
	}
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := now.AddDate(0, 0, daysAhead)

	list, err := s.repo.ListByUserInRenewalRange(ctx, uid, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]UpcomingRenewal, 0, len(list))
	for _, c := range list {
		out = append(out, UpcomingRenewal{
			ContractDTO:      ToDTO(c),
			DaysUntilRenewal: reminder.DaysUntil(now, *c.RenewalDate),
		})
	}
	return out, nil
}

func parseID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, common.NewInvalidInputError(fmt.Sprintf("%s must be a valid UUID", name))
	}
	return id, nil
}

// parseOptionalDate expects a value already checked by common.DateYMD.
func parseOptionalDate(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := common.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}
