package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"inventory-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a mock DB and PostgresStore for testing
func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(db, nil)
	require.NotNil(t, store, "Store should not be nil")

	return db, mock, store
}

func PtrTo[T any](v T) *T {
	return &v
}

var categoryColumns = []string{"id", "name", "description", "color", "created_at", "updated_at"}

var categoryCountColumns = append(append([]string{}, categoryColumns...), "active_products")

func TestPostgresStore_ListCategories(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	rows := sqlmock.NewRows(categoryCountColumns).
		AddRow(int64(2), "Fruits", "Fresh fruits", "#FF9800", now, now, 3).
		AddRow(int64(1), "Vegetables", nil, nil, now, now, 0)

	mock.ExpectQuery(regexp.QuoteMeta(queryListCategories)).WillReturnRows(rows)

	categories, err := store.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Fruits", categories[0].Name)
	assert.Equal(t, 3, categories[0].ActiveProducts)
	assert.Equal(t, PtrTo("#FF9800"), categories[0].Color)
	assert.Nil(t, categories[1].Description)
	assert.Nil(t, categories[1].Color)
	assert.Equal(t, domain.DefaultCategoryColor, categories[1].ColorOrDefault())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCategories_Empty(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryListCategories)).WillReturnRows(sqlmock.NewRows(categoryCountColumns))

	categories, err := store.ListCategories(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, categories, "empty result should be an empty slice, not nil")
	assert.Empty(t, categories)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCategoryByID_Found(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	rows := sqlmock.NewRows(categoryCountColumns).
		AddRow(int64(1), "Vegetables", "Fresh vegetables and greens", "#4CAF50", now, now, 2)
	mock.ExpectQuery(regexp.QuoteMeta(queryGetCategory)).WithArgs(int64(1)).WillReturnRows(rows)

	category, err := store.GetCategoryByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), category.ID)
	assert.Equal(t, PtrTo("Fresh vegetables and greens"), category.Description)
	assert.Equal(t, 2, category.ActiveProducts)
	assert.Equal(t, now.Unix(), category.CreatedAt.Unix())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCategoryByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryGetCategory)).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	category, err := store.GetCategoryByID(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCategoryNotFound), "Error should be ErrCategoryNotFound")
	assert.Nil(t, category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CategoryExists(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryCategoryExists)).WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := store.CategoryExists(context.Background(), 999)

	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CategoryNameTaken(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryCategoryNameTaken)).WithArgs("Fruits", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := store.CategoryNameTaken(context.Background(), "Fruits", 4)

	require.NoError(t, err)
	assert.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateCategory(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	toCreate := &domain.Category{Name: "Vegetables", Color: PtrTo(domain.DefaultCategoryColor)}

	rows := sqlmock.NewRows(categoryColumns).AddRow(int64(1), "Vegetables", nil, domain.DefaultCategoryColor, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(queryCreateCategory)).
		WithArgs(toCreate.Name, toCreate.Description, toCreate.Color).
		WillReturnRows(rows)

	created, err := store.CreateCategory(context.Background(), toCreate)

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, 0, created.ActiveProducts)
	assert.Equal(t, PtrTo(domain.DefaultCategoryColor), created.Color)
	assert.WithinDuration(t, now, created.CreatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateCategory_NameExists(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	toCreate := &domain.Category{Name: "Vegetables"}
	mock.ExpectQuery(regexp.QuoteMeta(queryCreateCategory)).
		WithArgs(toCreate.Name, toCreate.Description, toCreate.Color).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "categories_name_key"})

	created, err := store.CreateCategory(context.Background(), toCreate)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCategoryNameExists), "Error should be ErrCategoryNameExists")
	assert.Nil(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCategory(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	toUpdate := &domain.Category{ID: 1, Name: "Greens", Description: PtrTo("Leafy"), Color: PtrTo("#00FF00")}

	originalCreatedAt := now.Add(-time.Hour)
	rows := sqlmock.NewRows(categoryCountColumns).
		AddRow(int64(1), "Greens", "Leafy", "#00FF00", originalCreatedAt, now, 4)
	mock.ExpectQuery(regexp.QuoteMeta(queryUpdateCategory)).
		WithArgs(toUpdate.Name, toUpdate.Description, toUpdate.Color, toUpdate.ID).
		WillReturnRows(rows)

	updated, err := store.UpdateCategory(context.Background(), toUpdate)

	require.NoError(t, err)
	assert.Equal(t, "Greens", updated.Name)
	assert.Equal(t, 4, updated.ActiveProducts)
	assert.Equal(t, originalCreatedAt.Unix(), updated.CreatedAt.Unix())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCategory_Errors(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "not found", dbErr: sql.ErrNoRows, wantErr: ErrCategoryNotFound},
		{name: "duplicate name", dbErr: &pq.Error{Code: "23505", Constraint: "categories_name_key"}, wantErr: ErrCategoryNameExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, store := newMockDBAndStore(t)
			defer db.Close()

			toUpdate := &domain.Category{ID: 99, Name: "Non Existent"}
			mock.ExpectQuery(regexp.QuoteMeta(queryUpdateCategory)).
				WithArgs(toUpdate.Name, toUpdate.Description, toUpdate.Color, toUpdate.ID).
				WillReturnError(tt.dbErr)

			_, err := store.UpdateCategory(context.Background(), toUpdate)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_DeleteCategory_Success(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryLockCategory)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(queryCountActiveByCategory)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(queryDeleteCategory)).WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.DeleteCategory(context.Background(), 1)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteCategory_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryLockCategory)).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := store.DeleteCategory(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCategoryNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteCategory_HasActiveProducts(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryLockCategory)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(queryCountActiveByCategory)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	err := store.DeleteCategory(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCategoryInUse))
	var inUse *CategoryInUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 3, inUse.ActiveProducts)
	require.NoError(t, mock.ExpectationsWereMet(), "no DELETE may be issued")
}

func TestPostgresStore_Reset(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(queryResetInventory)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Reset(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
