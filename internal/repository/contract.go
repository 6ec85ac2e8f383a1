package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

var contractColumns = []string{
	"id", "user_id", "contract_holder_name", "contract_identifier", "renewal_date",
	"service_product", "contact_email", "file_path", "created_at", "updated_at",
}

// ContractInput carries the business fields of a new contract row.
type ContractInput struct {
	UserID             *uuid.UUID
	ContractHolderName *string
	ContractIdentifier *string
	RenewalDate        *time.Time
	ServiceProduct     *string
	ContactEmail       *string
	FilePath           *string
}

// ContractPatch updates only the non-nil fields.
type ContractPatch struct {
	ContractHolderName *string
	ContractIdentifier *string
	RenewalDate        *time.Time
	ServiceProduct     *string
	ContactEmail       *string
	FilePath           *string
}

func (p ContractPatch) empty() bool {
	return p.ContractHolderName == nil && p.ContractIdentifier == nil && p.RenewalDate == nil &&
		p.ServiceProduct == nil && p.ContactEmail == nil && p.FilePath == nil
}

type ContractRepository interface {
	Insert(ctx context.Context, in ContractInput) (*entity.Contract, error)
	Update(ctx context.Context, id uuid.UUID, patch ContractPatch) (*entity.Contract, error)
	// GetByID returns a NOT_FOUND AppError when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error)
	// ListByUser orders by created_at descending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Contract, error)
	// ListByUserInRenewalRange returns rows with renewal_date in [from, to], ascending.
	ListByUserInRenewalRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entity.Contract, error)
}

type contractRepository struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewContractRepository(db *DB, logger *slog.Logger) ContractRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &contractRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *contractRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect())
}

func (r *contractRepository) Insert(ctx context.Context, in ContractInput) (*entity.Contract, error) {
	now := r.now()
	c := &entity.Contract{
		ID:                 uuid.New(),
		UserID:             in.UserID,
		ContractHolderName: in.ContractHolderName,
		ContractIdentifier: in.ContractIdentifier,
		RenewalDate:        utcDate(in.RenewalDate),
		ServiceProduct:     in.ServiceProduct,
		ContactEmail:       in.ContactEmail,
		FilePath:           in.FilePath,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	query, args := r.builder().Insert(contractsTable).
		Columns(contractColumns...).
		Values(c.ID, nullUUID(c.UserID), nullString(c.ContractHolderName), nullString(c.ContractIdentifier),
			nullTime(c.RenewalDate), nullString(c.ServiceProduct), nullString(c.ContactEmail),
			nullString(c.FilePath), c.CreatedAt, c.UpdatedAt).
		Query()
	if err := r.db.Driver.Exec(ctx, query, args, nil); err != nil {
		r.logger.Error("failed to insert contract", "user_id", c.UserID, "error", err)
		return nil, common.NewPersistenceError("failed to save contract", err)
	}
	r.logger.Info("contract inserted", "contract_id", c.ID, "user_id", c.UserID)
	return c, nil
}

func (r *contractRepository) Update(ctx context.Context, id uuid.UUID, patch ContractPatch) (*entity.Contract, error) {
	if patch.empty() {
		return r.GetByID(ctx, id)
	}
	u := r.builder().Update(contractsTable).Set("updated_at", r.now())
	if patch.ContractHolderName != nil {
		u.Set("contract_holder_name", *patch.ContractHolderName)
	}
	if patch.ContractIdentifier != nil {
		u.Set("contract_identifier", *patch.ContractIdentifier)
	}
	if patch.RenewalDate != nil {
		u.Set("renewal_date", *utcDate(patch.RenewalDate))
	}
	if patch.ServiceProduct != nil {
		u.Set("service_product", *patch.ServiceProduct)
	}
	if patch.ContactEmail != nil {
		u.Set("contact_email", *patch.ContactEmail)
	}
	if patch.FilePath != nil {
		u.Set("file_path", *patch.FilePath)
	}
	query, args := u.Where(entsql.EQ("id", id)).Query()

	var res sql.Result
	if err := r.db.Driver.Exec(ctx, query, args, &res); err != nil {
		r.logger.Error("failed to update contract", "contract_id", id, "error", err)
		return nil, common.NewPersistenceError("failed to update contract", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.NewNotFoundError(fmt.Sprintf("Contract not found: %s", id))
	}
	return r.GetByID(ctx, id)
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	query, args := r.builder().Select(contractColumns...).
		From(entsql.Table(contractsTable)).
		Where(entsql.EQ("id", id)).
		Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		r.logger.Error("failed to get contract", "contract_id", id, "error", err)
		return nil, common.NewPersistenceError("failed to load contract", err)
	}
	if len(rows) == 0 {
		return nil, common.NewNotFoundError(fmt.Sprintf("Contract not found: %s", id))
	}
	return rows[0], nil
}

func (r *contractRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Contract, error) {
	query, args := r.builder().Select(contractColumns...).
		From(entsql.Table(contractsTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at")).
		Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		r.logger.Error("failed to list contracts", "user_id", userID, "error", err)
		return nil, common.NewPersistenceError("failed to list contracts", err)
	}
	return rows, nil
}

func (r *contractRepository) ListByUserInRenewalRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entity.Contract, error) {
	query, args := r.builder().Select(contractColumns...).
		From(entsql.Table(contractsTable)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.NotNull("renewal_date"),
			entsql.GTE("renewal_date", from.UTC()),
			entsql.LTE("renewal_date", to.UTC()),
		)).
		OrderBy(entsql.Asc("renewal_date")).
		Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		r.logger.Error("failed to list renewals", "user_id", userID, "error", err)
		return nil, common.NewPersistenceError("failed to list upcoming renewals", err)
	}
	return rows, nil
}

func (r *contractRepository) query(ctx context.Context, query string, args []any) ([]*entity.Contract, error) {
	rows := &entsql.Rows{}
	if err := r.db.Driver.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanContract(rows *entsql.Rows) (*entity.Contract, error) {
	var (
		c                                   entity.Contract
		userID                              uuid.NullUUID
		holder, ident, product, email, path sql.NullString
		renewal                             sql.NullTime
	)
	if err := rows.Scan(&c.ID, &userID, &holder, &ident, &renewal, &product, &email, &path, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan contract: %w", err)
	}
	if userID.Valid {
		c.UserID = &userID.UUID
	}
	c.ContractHolderName = fromNull(holder)
	c.ContractIdentifier = fromNull(ident)
	c.ServiceProduct = fromNull(product)
	c.ContactEmail = fromNull(email)
	c.FilePath = fromNull(path)
	if renewal.Valid {
		t := renewal.Time.UTC()
		c.RenewalDate = &t
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// utcDate truncates to midnight UTC; renewal dates carry no time of day.
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
