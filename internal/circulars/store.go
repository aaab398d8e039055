package circulars

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/civicdoc/pkg/pagination"
	"github.com/JaimeStill/civicdoc/pkg/query"
	"github.com/JaimeStill/civicdoc/pkg/repository"
)

// Store persists circular records.
type Store interface {
	Insert(ctx context.Context, c Circular) (*Circular, error)
	Get(ctx context.Context, id int64) (*Circular, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Circular], error)
}

type pgStore struct {
	db *sql.DB
}

// NewStore creates a PostgreSQL-backed Store.
func NewStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Insert(ctx context.Context, c Circular) (*Circular, error) {
	rules, err := json.Marshal(c.Rules)
	if err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	deadlines, err := json.Marshal(c.Deadlines)
	if err != nil {
		return nil, fmt.Errorf("encode deadlines: %w", err)
	}

	q := `
		INSERT INTO circulars(filename, storage_key, size_bytes, page_count, content_summary,
			language, extracted_rules, eligibility_criteria, deadlines)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, filename, storage_key, size_bytes, page_count, content_summary,
			language, extracted_rules, eligibility_criteria, deadlines, uploaded_at`

	args := []any{
		c.Filename,
		c.StorageKey,
		c.SizeBytes,
		c.PageCount,
		c.Summary,
		c.Language,
		string(rules),
		c.Eligibility,
		string(deadlines),
	}

	created, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Circular, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCircular)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &created, nil
}

func (s *pgStore) Get(ctx context.Context, id int64) (*Circular, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, s.db, q, args, scanCircular)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (s *pgStore) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Circular], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "Summary")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count circulars: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanCircular)
	if err != nil {
		return nil, fmt.Errorf("query circulars: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
