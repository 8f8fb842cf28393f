package booking

import (
	"math"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
	"github.com/m04kA/SMC-BookingListing/internal/engine/datefilter"
	"github.com/m04kA/SMC-BookingListing/internal/engine/interval"
)

const defaultFutureClause = "dt.booking_date >= (CURDATE() - INTERVAL '00:00:01' HOUR_SECOND)"

func newTestBuilder(hooks Hooks, multiResource bool) *QueryBuilder {
	tr := interval.New(domain.DialectMySQL)
	return NewQueryBuilder(
		domain.NewTables(""),
		datefilter.NewBookingDates(tr),
		datefilter.NewModificationDates(tr),
		hooks,
		multiResource,
	)
}

func baseFilter() domain.ListingFilter {
	return domain.ListingFilter{
		BookingDates:      domain.NewDateFilter("", ""),
		ModificationDates: domain.NewDateFilter("", ""),
	}
}

func TestBuild_DefaultFilterUsesExists(t *testing.T) {
	q, err := newTestBuilder(Hooks{}, false).Build(baseFilter(), nil)
	require.NoError(t, err)

	sql, args, err := q.CountSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*) FROM booking AS bk WHERE EXISTS (SELECT 1 FROM bookingdates AS dt"+
			" WHERE bk.booking_id = dt.booking_id AND "+defaultFutureClause+")",
		sql,
	)
	assert.Empty(t, args)

	assert.Equal(t, "bk.booking_id DESC", q.OrderClause)
	assert.Equal(t, "LIMIT 10 OFFSET 0", q.LimitClause)
}

func TestBuild_ApprovalGoesIntoExists(t *testing.T) {
	filter := baseFilter()
	approved := true
	filter.Approved = &approved

	q, err := newTestBuilder(Hooks{}, false).Build(filter, nil)
	require.NoError(t, err)

	where, args, err := q.WhereSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"(EXISTS (SELECT 1 FROM bookingdates AS dt WHERE bk.booking_id = dt.booking_id AND "+
			defaultFutureClause+" AND dt.approved = ?))",
		where,
	)
	assert.Equal(t, []interface{}{1}, args)
}

func TestBuild_AllDatesWithoutApprovalKeepsBareExists(t *testing.T) {
	filter := baseFilter()
	filter.BookingDates = domain.NewDateFilter("3", "")

	q, err := newTestBuilder(Hooks{}, false).Build(filter, nil)
	require.NoError(t, err)

	where, _, err := q.WhereSQL()
	require.NoError(t, err)
	assert.Equal(t, "(EXISTS (SELECT 1 FROM bookingdates AS dt WHERE bk.booking_id = dt.booking_id))", where)
}

func TestBuild_BookingIDShapes(t *testing.T) {
	tests := []struct {
		raw      string
		wantSQL  string
		wantArgs []interface{}
	}{
		{"<10", "(bk.booking_id < ?)", []interface{}{int64(10)}},
		{">7", "(bk.booking_id > ?)", []interface{}{int64(7)}},
		{"1,2,3", "(bk.booking_id IN (?,?,?))", []interface{}{int64(1), int64(2), int64(3)}},
		{"42", "(bk.booking_id = ?)", []interface{}{int64(42)}},
		{"12abc", "(bk.booking_id = ?)", []interface{}{int64(12)}},
		{"abc", "(bk.booking_id = ?)", []interface{}{int64(0)}},
		{"<5,6", "(bk.booking_id < ?)", []interface{}{int64(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			filter := baseFilter()
			filter.BookingID = tt.raw
			filter.BookingType = domain.BookingTypeLost
			approved := true
			filter.Approved = &approved

			q, err := newTestBuilder(Hooks{}, false).Build(filter, []int64{1})
			require.NoError(t, err)

			sql, args, err := q.WhereSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuild_LostBypassesDates(t *testing.T) {
	filter := baseFilter()
	filter.BookingType = "lost"

	q, err := newTestBuilder(DefaultHooks(), false).Build(filter, []int64{1, 2})
	require.NoError(t, err)

	sql, args, err := q.WhereSQL()
	require.NoError(t, err)
	assert.Equal(t, "(bk.booking_type NOT IN (?,?))", sql)
	assert.Equal(t, []interface{}{int64(1), int64(2)}, args)
}

func TestBuild_LostWithoutKnownTypesMatchesAll(t *testing.T) {
	filter := baseFilter()
	filter.BookingType = "lost"

	q, err := newTestBuilder(Hooks{}, false).Build(filter, nil)
	require.NoError(t, err)

	sql, _, err := q.WhereSQL()
	require.NoError(t, err)
	assert.Equal(t, "((1=1))", sql)
}

func TestBuild_CommonPredicatesAndHooks(t *testing.T) {
	filter := baseFilter()
	filter.BookingID = "5"
	filter.Trash = domain.TrashActive
	filter.Sync = domain.SyncImported
	filter.ModificationDates = domain.NewDateFilter("1", "")
	filter.Keyword = "alice"
	filter.PayStatus = domain.PayStatusOK
	filter.CostMin = "10"
	filter.BookingType = "2,3"

	q, err := newTestBuilder(DefaultHooks(), false).Build(filter, nil)
	require.NoError(t, err)

	sql, args, err := q.WhereSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"(bk.booking_id = ?"+
			" AND bk.trash <> ?"+
			" AND bk.sync_gid <> ?"+
			" AND bk.modification_date >= (CURDATE() - INTERVAL '00:00:01' HOUR_SECOND)"+
			" AND (bk.form LIKE ? OR bk.remark LIKE ?)"+
			" AND (bk.pay_status IN (?,?,?,?) AND bk.cost >= ?)"+
			" AND bk.booking_type IN (?,?))",
		sql,
	)
	assert.Equal(t, []interface{}{
		int64(5), 1, "",
		"%alice%", "%alice%",
		"OK", "Completed", "success", "Paid", 10.0,
		int64(2), int64(3),
	}, args)
}

func TestBuild_HooksRunInFixedOrder(t *testing.T) {
	var calls []string
	hook := func(name string) Hook {
		return func(current squirrel.Sqlizer, _ domain.ListingFilter) squirrel.Sqlizer {
			calls = append(calls, name)
			sql, _, err := current.ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, "EXISTS")
			return squirrel.Expr(name + " = 1")
		}
	}

	b := newTestBuilder(Hooks{
		Keyword:       hook("keyword"),
		PayStatusCost: hook("pay"),
		Resource:      hook("resource"),
	}, false)

	q, err := b.Build(baseFilter(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"keyword", "pay", "resource"}, calls)

	sql, _, err := q.WhereSQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "AND keyword = 1 AND pay = 1 AND resource = 1)")
}

func TestBuild_NilHookAdditionIsSkipped(t *testing.T) {
	b := newTestBuilder(Hooks{
		Keyword: func(squirrel.Sqlizer, domain.ListingFilter) squirrel.Sqlizer { return nil },
	}, false)

	q, err := b.Build(baseFilter(), nil)
	require.NoError(t, err)

	sql, _, err := q.WhereSQL()
	require.NoError(t, err)
	assert.NotContains(t, sql, " AND  ")
	assert.NotContains(t, sql, "AND )")
}

func TestBuild_Pagination(t *testing.T) {
	filter := baseFilter()
	filter.Page = 3
	filter.PageSize = 20
	filter.Sort = "cost_asc"

	q, err := newTestBuilder(Hooks{}, false).Build(filter, nil)
	require.NoError(t, err)

	assert.Equal(t, "LIMIT 20 OFFSET 40", q.LimitClause)

	sql, _, err := q.SelectSQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT bk.booking_id, bk.booking_type, bk.trash")
	assert.Contains(t, sql, "FROM booking AS bk WHERE EXISTS")
	assert.Contains(t, sql, "ORDER BY bk.cost ASC LIMIT 20 OFFSET 40")
}

func TestBuild_HugePageIsCapped(t *testing.T) {
	filter := baseFilter()
	filter.Page = math.MaxInt
	filter.PageSize = domain.MaxPageSize

	q, err := newTestBuilder(Hooks{}, false).Build(filter, nil)
	require.NoError(t, err)

	assert.Equal(t, "LIMIT 500 OFFSET 499999500", q.LimitClause)
	assert.Equal(t, uint64(499999500), q.Offset)
}

func TestBuild_TablePrefix(t *testing.T) {
	tr := interval.New(domain.DialectSQLite)
	b := NewQueryBuilder(
		domain.NewTables("wp_"),
		datefilter.NewBookingDates(tr),
		datefilter.NewModificationDates(tr),
		Hooks{},
		false,
	)

	q, err := b.Build(baseFilter(), nil)
	require.NoError(t, err)

	sql, _, err := q.CountSQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM wp_booking AS bk")
	assert.Contains(t, sql, "FROM wp_bookingdates AS dt")
	assert.Contains(t, sql, "datetime('now', 'start of day', '-1 seconds')")
}

func TestOrderClause(t *testing.T) {
	tests := map[string]string{
		"":                      "bk.booking_id DESC",
		"booking_id":            "bk.booking_id DESC",
		"booking_id_asc":        "bk.booking_id ASC",
		"booking_type":          "bk.booking_type DESC",
		"cost_asc":              "bk.cost ASC",
		"sort_date":             "bk.sort_date DESC",
		"modification_date_asc": "bk.modification_date ASC",
		"title":                 "bk.booking_id DESC",
		"title_asc":             "bk.booking_id DESC",
		"_asc":                  "bk.booking_id DESC",
		"cost; DROP TABLE x":    "bk.booking_id DESC",
	}

	for sort, want := range tests {
		assert.Equal(t, want, OrderClause(sort), sort)
	}
}

func TestDatesSQL_Ordering(t *testing.T) {
	single, err := newTestBuilder(Hooks{}, false).Build(baseFilter(), nil)
	require.NoError(t, err)
	multi, err := newTestBuilder(Hooks{}, true).Build(baseFilter(), nil)
	require.NoError(t, err)

	sql, args, err := single.DatesSQL([]int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT dt.booking_id, dt.booking_date, dt.approved, dt.type_id FROM bookingdates AS dt"+
			" WHERE dt.booking_id IN (?,?) ORDER BY dt.booking_id, dt.booking_date",
		sql,
	)
	assert.Equal(t, []interface{}{int64(1), int64(2)}, args)

	sql, _, err = multi.DatesSQL([]int64{1})
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY dt.booking_id, dt.type_id, dt.booking_date")
}
