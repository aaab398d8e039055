package complaints

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JaimeStill/civicdoc/pkg/pagination"
	"github.com/JaimeStill/civicdoc/pkg/query"
	"github.com/JaimeStill/civicdoc/pkg/repository"
)

// Store persists complaint records. Implementations map missing rows to ErrNotFound.
type Store interface {
	Insert(ctx context.Context, c Complaint) (int64, error)
	Get(ctx context.Context, id int64) (*Complaint, error)
	// ListAll returns every complaint in insertion order.
	ListAll(ctx context.Context) ([]Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Complaint], error)
}

type pgStore struct {
	db    *sql.DB
	codec ListCodec
	scan  repository.ScanFunc[Complaint]
}

// NewStore creates a PostgreSQL-backed Store that encodes list columns with codec.
func NewStore(db *sql.DB, codec ListCodec) Store {
	return &pgStore{
		db:    db,
		codec: codec,
		scan:  scanner(codec),
	}
}

const insertComplaint = `
	INSERT INTO complaints(citizen_id, description, language, category, urgency_score, department,
		estimated_cost, required_resources, suggested_actions, tools_required, safety_notes,
		sla_hours, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id`

func (s *pgStore) Insert(ctx context.Context, c Complaint) (int64, error) {
	args, err := rowArgs(c, s.codec)
	if err != nil {
		return 0, err
	}

	id, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (int64, error) {
		return repository.QueryOne(ctx, tx, insertComplaint, args, func(sc repository.Scanner) (int64, error) {
			var id int64
			err := sc.Scan(&id)
			return id, err
		})
	})
	if err != nil {
		err = repository.MapCheckViolation(err, ErrInvalidInput)
		return 0, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return id, nil
}

func (s *pgStore) Get(ctx context.Context, id int64) (*Complaint, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, s.db, q, args, s.scan)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (s *pgStore) ListAll(ctx context.Context) ([]Complaint, error) {
	q, args := query.NewBuilder(projection, insertOrder).Build()

	items, err := repository.QueryMany(ctx, s.db, q, args, s.scan)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	return items, nil
}

func (s *pgStore) UpdateStatus(ctx context.Context, id int64, status Status) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"UPDATE complaints SET status = $1 WHERE id = $2",
			string(status), id,
		)
	})
	err = repository.MapCheckViolation(err, ErrInvalidStatus)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func (s *pgStore) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Complaint], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Description", "Department")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, s.scan)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
