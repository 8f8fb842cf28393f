package booking

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/pkg/sqlbuilder"
)

// Hook расширение фильтра: получает уже собранное условие и фильтр,
// возвращает дополнительное условие или nil
type Hook func(current squirrel.Sqlizer, filter domain.ListingFilter) squirrel.Sqlizer

// Hooks расширения в порядке применения: ключевое слово, статус оплаты и стоимость, ресурс
type Hooks struct {
	Keyword       Hook
	PayStatusCost Hook
	Resource      Hook
}

func (h Hooks) ordered() []Hook {
	return []Hook{h.Keyword, h.PayStatusCost, h.Resource}
}

var listingColumns = []string{
	"bk.booking_id",
	"bk.booking_type",
	"bk.trash",
	"bk.sync_gid",
	"bk.is_new",
	"bk.status",
	"bk.sort_date",
	"bk.modification_date",
	"bk.form",
	"bk.remark",
	"bk.cost",
	"bk.pay_status",
}

// QueryBuilder собирает запросы листинга бронирований из фильтра.
// Не хранит состояния запроса и безопасен для конкурентного использования
type QueryBuilder struct {
	tables            domain.Tables
	bookingDates      DateCompiler
	modificationDates DateCompiler
	hooks             Hooks
	multiResource     bool
}

// NewQueryBuilder создает сборщик запросов листинга
func NewQueryBuilder(
	tables domain.Tables,
	bookingDates DateCompiler,
	modificationDates DateCompiler,
	hooks Hooks,
	multiResource bool,
) *QueryBuilder {
	return &QueryBuilder{
		tables:            tables,
		bookingDates:      bookingDates,
		modificationDates: modificationDates,
		hooks:             hooks,
		multiResource:     multiResource,
	}
}

// ListingQuery собранные части запроса листинга
type ListingQuery struct {
	tables        domain.Tables
	where         []squirrel.Sqlizer
	multiResource bool

	OrderClause string
	LimitClause string
	Limit       uint64
	Offset      uint64
}

// Build собирает запрос листинга. knownTypeIDs нужны только для выборки "lost"
func (b *QueryBuilder) Build(filter domain.ListingFilter, knownTypeIDs []int64) (*ListingQuery, error) {
	where := make([]squirrel.Sqlizer, 0)

	// 1. Основная ветка: id, "lost" или EXISTS по датам
	switch {
	case filter.HasBookingID():
		where = append(where, bookingIDPredicate(filter.BookingID))
	case filter.IsLost():
		where = append(where, squirrel.NotEq{"bk.booking_type": knownTypeIDs})
	default:
		exists, err := b.existsDates(filter)
		if err != nil {
			return nil, err
		}
		where = append(where, exists)
	}

	// 2. Корзина
	switch filter.Trash {
	case domain.TrashOnly:
		where = append(where, squirrel.Eq{"bk.trash": 1})
	case domain.TrashActive:
		where = append(where, squirrel.NotEq{"bk.trash": 1})
	}

	// 3. Источник бронирования
	switch filter.Sync {
	case domain.SyncImported:
		where = append(where, squirrel.NotEq{"bk.sync_gid": ""})
	case domain.SyncNative:
		where = append(where, squirrel.Eq{"bk.sync_gid": ""})
	}

	// 4. Дата изменения
	if modification := b.modificationDates.Compile(filter.ModificationDates, domain.BookingAlias); !modification.Empty() {
		where = append(where, modification)
	}

	// 5. Расширения, порядок фиксирован
	for _, hook := range b.hooks.ordered() {
		if hook == nil {
			continue
		}
		if addition := hook(squirrel.And(where), filter); addition != nil {
			where = append(where, addition)
		}
	}

	page, size := filter.NormalizedPage()
	offset := uint64((page - 1) * size)

	return &ListingQuery{
		tables:        b.tables,
		where:         where,
		multiResource: b.multiResource,
		OrderClause:   OrderClause(filter.Sort),
		LimitClause:   fmt.Sprintf("LIMIT %d OFFSET %d", size, offset),
		Limit:         uint64(size),
		Offset:        offset,
	}, nil
}

// existsDates строит коррелированный подзапрос по таблице дат,
// чтобы LIMIT считал бронирования, а не строки дат
func (b *QueryBuilder) existsDates(filter domain.ListingFilter) (squirrel.Sqlizer, error) {
	sub := sqlbuilder.Select("1").
		From(b.tables.Dates + " AS dt").
		Where("bk.booking_id = dt.booking_id")

	if dates := b.bookingDates.Compile(filter.BookingDates, domain.DatesAlias); !dates.Empty() {
		sub = sub.Where(dates)
	}
	if filter.Approved != nil {
		sub = sub.Where(squirrel.Eq{"dt.approved": boolToInt(*filter.Approved)})
	}

	subSQL, subArgs, err := sub.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Build - build exists subquery: %v", ErrBuildQuery, err)
	}
	return squirrel.Expr("EXISTS ("+subSQL+")", subArgs...), nil
}

// bookingIDPredicate разбирает фильтр id: "<N", ">N", "1,2,3" или "N".
// Операнды приводятся к целому отбрасыванием хвоста
func bookingIDPredicate(raw string) squirrel.Sqlizer {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.Contains(raw, "<"):
		return squirrel.Lt{"bk.booking_id": domain.CoerceInt(strings.ReplaceAll(raw, "<", ""))}
	case strings.Contains(raw, ">"):
		return squirrel.Gt{"bk.booking_id": domain.CoerceInt(strings.ReplaceAll(raw, ">", ""))}
	case strings.Contains(raw, ","):
		parts := strings.Split(raw, ",")
		ids := make([]int64, 0, len(parts))
		for _, p := range parts {
			ids = append(ids, domain.CoerceInt(p))
		}
		return squirrel.Eq{"bk.booking_id": ids}
	default:
		return squirrel.Eq{"bk.booking_id": domain.CoerceInt(raw)}
	}
}

// OrderClause возвращает сортировку по ключу из белого списка,
// неизвестный ключ дает сортировку по id по убыванию
func OrderClause(sort string) string {
	sort = strings.TrimSpace(sort)
	key := strings.TrimSuffix(sort, domain.SortAscSuffix)

	column, ok := domain.SortKeys[key]
	if !ok {
		return "bk." + domain.DefaultSortKey + " DESC"
	}
	if key != sort {
		return "bk." + column + " ASC"
	}
	return "bk." + column + " DESC"
}

// WhereSQL возвращает условие WHERE без ключевого слова; пустая строка, если условий нет
func (q *ListingQuery) WhereSQL() (string, []interface{}, error) {
	if len(q.where) == 0 {
		return "", nil, nil
	}
	sql, args, err := squirrel.And(q.where).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: WhereSQL: %v", ErrBuildQuery, err)
	}
	return sql, args, nil
}

// CountSQL запрос количества бронирований под фильтром
func (q *ListingQuery) CountSQL() (string, []interface{}, error) {
	builder := sqlbuilder.Select("COUNT(*)").From(q.tables.Booking + " AS bk")
	for _, w := range q.where {
		builder = builder.Where(w)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: CountSQL: %v", ErrBuildQuery, err)
	}
	return sql, args, nil
}

// SelectSQL запрос страницы бронирований
func (q *ListingQuery) SelectSQL() (string, []interface{}, error) {
	builder := sqlbuilder.Select(listingColumns...).From(q.tables.Booking + " AS bk")
	for _, w := range q.where {
		builder = builder.Where(w)
	}
	builder = builder.OrderBy(q.OrderClause).Limit(q.Limit).Offset(q.Offset)

	sql, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: SelectSQL: %v", ErrBuildQuery, err)
	}
	return sql, args, nil
}

// DatesSQL запрос дат для бронирований страницы. Строки одного бронирования идут подряд
func (q *ListingQuery) DatesSQL(bookingIDs []int64) (string, []interface{}, error) {
	order := []string{"dt.booking_id", "dt.booking_date"}
	if q.multiResource {
		order = []string{"dt.booking_id", "dt.type_id", "dt.booking_date"}
	}

	sql, args, err := sqlbuilder.Select("dt.booking_id", "dt.booking_date", "dt.approved", "dt.type_id").
		From(q.tables.Dates + " AS dt").
		Where(squirrel.Eq{"dt.booking_id": bookingIDs}).
		OrderBy(order...).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: DatesSQL: %v", ErrBuildQuery, err)
	}
	return sql, args, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
