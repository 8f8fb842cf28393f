package resource

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingListing/pkg/sqlbuilder"
)

// Repository реестр бронируемых ресурсов
type Repository struct {
	db    dbmetrics.DBExecutor
	table string
}

// NewRepository создает репозиторий ресурсов для таблицы установки
func NewRepository(db dbmetrics.DBExecutor, tables domain.Tables) *Repository {
	return &Repository{db: db, table: tables.Resources}
}

// List возвращает все ресурсы по возрастанию id
func (r *Repository) List(ctx context.Context) ([]domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := sqlbuilder.Select("booking_type_id", "title").
		From(r.table).
		OrderBy("booking_type_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]domain.Resource, 0)
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.ID, &res.Title); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}

// KnownTypeIDs возвращает id зарегистрированных ресурсов
func (r *Repository) KnownTypeIDs(ctx context.Context) ([]int64, error) {
	resources, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(resources))
	for _, res := range resources {
		ids = append(ids, res.ID)
	}
	return ids, nil
}

// Titles возвращает названия ресурсов по id
func (r *Repository) Titles(ctx context.Context) (map[int64]string, error) {
	resources, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	titles := make(map[int64]string, len(resources))
	for _, res := range resources {
		titles[res.ID] = res.Title
	}
	return titles, nil
}
