package repository

import (
	"context"
	"errors"
	"fmt"
	"hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	"hotel/shared/dto"
	"hotel/shared/model"
	"reflect"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guest struct {
	ID        int    `db:"id"        generated:"true"`
	FullName  string `db:"full_name"`
	Age       int    `db:"age"`
	RoomTypes []int  `db:"-"`
	model.Metadata
}

type guestWithRoom struct {
	ID       int    `db:"id"`
	RoomType string `db:"room_type" table:"rooms" column:"type"`
}

func TestGetColumns(t *testing.T) {
	columns, insertColumns := getColumns("guests", reflect.TypeOf(guest{}))

	assert.Equal(t, []string{"full_name", "age", "created_at", "modified_at", "created_by", "modified_by"}, insertColumns)

	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, col.name)
	}

	assert.Equal(t, []string{"id", "full_name", "age", "created_at", "modified_at", "created_by", "modified_by"}, names)
}

func TestRepository_Queries(t *testing.T) {
	repo := NewRepository[guest]("guest", "guests", "id", nil, mocks.NewOtel())

	assert.Equal(t,
		"INSERT INTO guests (full_name, age, created_at, modified_at, created_by, modified_by) VALUES (:full_name, :age, :created_at, :modified_at, :created_by, :modified_by)",
		repo.insertQuery(),
	)

	assert.Equal(t,
		"guests.id, guests.full_name",
		repo.getSelectQuery(context.Background(), "id", "full_name"),
	)

	where, args := repo.BuildWhereClause(context.Background(), dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestRepository_JoinedColumns(t *testing.T) {
	repo := NewRepository[guestWithRoom]("guest", "guests", "id", nil, mocks.NewOtel())

	assert.Equal(t, "guests.id, rooms.type AS room_type", repo.getSelectQuery(context.Background()))
	assert.Equal(t, []string{"id"}, repo.InsertColumns)
}

func TestPqErrorClassification(t *testing.T) {
	unique := fmt.Errorf("failed to insert data (customer): %w", &pq.Error{Code: "23505"})
	foreignKey := fmt.Errorf("failed to delete data (customer): %w", &pq.Error{Code: "23503"})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(foreignKey))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain")))
}

type suite struct {
	Number int    `db:"room_number"   generated:"true"`
	Type   string `db:"type"`
	Price  int    `db:"price_per_day"`
}

func newSuiteRepository(t *testing.T) (Repository[suite], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	conn := sqlx.NewDb(db, "postgres")

	return NewRepository[suite]("suite", "rooms", "room_number", &postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func byNumber(number int) dto.FilterGroup {
	return dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "room_number", Value: number, Operator: dto.FilterOperatorEq, Table: "rooms"},
	}}
}

func TestRepository_Get(t *testing.T) {
	query := regexp.QuoteMeta("SELECT rooms.room_number, rooms.type, rooms.price_per_day FROM rooms") +
		".*" + regexp.QuoteMeta("WHERE (rooms.room_number = $1)")

	t.Run("found", func(t *testing.T) {
		repo, mock := newSuiteRepository(t)

		mock.ExpectPrepare(query).ExpectQuery().WithArgs(101).
			WillReturnRows(sqlmock.NewRows([]string{"room_number", "type", "price_per_day"}).AddRow(101, "Deluxe", 3000))

		got, err := repo.Get(context.Background(), byNumber(101))

		assert.NoError(t, err)
		assert.Equal(t, suite{Number: 101, Type: "Deluxe", Price: 3000}, got)
	})

	t.Run("missing row is the zero value", func(t *testing.T) {
		repo, mock := newSuiteRepository(t)

		mock.ExpectPrepare(query).ExpectQuery().WithArgs(404).
			WillReturnRows(sqlmock.NewRows([]string{"room_number", "type", "price_per_day"}))

		got, err := repo.Get(context.Background(), byNumber(404))

		assert.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mock := newSuiteRepository(t)

		mock.ExpectPrepare(query).ExpectQuery().WithArgs(101).WillReturnError(errors.New("connection reset"))

		_, err := repo.Get(context.Background(), byNumber(101))

		assert.ErrorContains(t, err, "failed to get data (suite)")
	})
}

func TestRepository_GetAll(t *testing.T) {
	repo, mock := newSuiteRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("ORDER BY price_per_day desc LIMIT $1 OFFSET $2")).
		ExpectQuery().WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"room_number", "type", "price_per_day"}).
			AddRow(103, "Suite", 9000).
			AddRow(104, "Standard", 1500))

	got, err := repo.GetAll(context.Background(), dto.QueryParams{Page: 2, Limit: 2, SortBy: "price_per_day", SortDir: "desc"}, dto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 103, got[0].Number)
}

func TestRepository_Count(t *testing.T) {
	repo, mock := newSuiteRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT COUNT(rooms.room_number) FROM rooms")).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.Count(context.Background(), dto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 12, count)
}

func TestRepository_InsertReturning(t *testing.T) {
	repo, mock := newSuiteRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO rooms (type, price_per_day) VALUES ($1, $2) RETURNING room_number")).
		ExpectQuery().WithArgs("Deluxe", 3000).
		WillReturnRows(sqlmock.NewRows([]string{"room_number"}).AddRow(105))

	id, err := repo.InsertReturning(context.Background(), suite{Type: "Deluxe", Price: 3000})

	assert.NoError(t, err)
	assert.Equal(t, 105, id)
}

func TestRepository_Update(t *testing.T) {
	repo, mock := newSuiteRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET price_per_day = $1, type = $2") + ".*" + regexp.QuoteMeta("WHERE (rooms.room_number = $3)")).
		WithArgs(3500, "Deluxe", 101).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), map[string]any{"type": "Deluxe", "price_per_day": 3500}, byNumber(101))

	assert.NoError(t, err)
}

func TestRepository_RequiresFilter(t *testing.T) {
	repo, _ := newSuiteRepository(t)

	assert.ErrorIs(t, repo.Delete(context.Background(), dto.FilterGroup{}), errRequiredFilter)
	assert.ErrorIs(t, repo.Update(context.Background(), map[string]any{"type": "Suite"}, dto.FilterGroup{}), errRequiredFilter)

	_, err := repo.Exist(context.Background(), dto.FilterGroup{})
	assert.ErrorIs(t, err, errRequiredFilter)
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newSuiteRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms")).WithArgs(101).WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), byNumber(101))

	assert.ErrorContains(t, err, "failed to delete data (suite)")
	assert.True(t, IsForeignKeyViolation(err))
}
