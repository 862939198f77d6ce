package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestUserRepo_CreateMapsUniqueViolations(t *testing.T) {
	ctx := context.Background()

	cases := map[string]error{
		"users_username_key": ErrDuplicateUsername,
		"users_email_key":    ErrDuplicateEmail,
	}
	for constraint, want := range cases {
		db, mock := newMock(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(q("INSERT INTO users")).
			WillReturnError(&pq.Error{Code: "23505", Constraint: constraint})

		err := repo.Create(ctx, &models.User{Username: "alice", Email: "a@b.io"})
		assert.ErrorIs(t, err, want, constraint)
	}
}

func TestUserRepo_CreateSetsIDAndTimestamp(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "alice", "a@b.io", "hash", "Alice", 30, "female", 170.0, 65.0, "fat_loss").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	u := &models.User{
		Username: "alice", Email: "a@b.io", PasswordHash: "hash", Name: "Alice",
		Age: 30, Gender: "female", HeightCM: 170, CurrentWeight: 65, FitnessGoal: "fat_loss",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, created, u.CreatedAt)
}

func TestUserRepo_GetByUsernameNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q("FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetByUsername(context.Background(), "ghost")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_Exists(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("a@b.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsEmail(context.Background(), "a@b.io")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWorkoutRepo_ActivateAssignmentCommits(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWorkoutRepository(db)
	userID, templateID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT id FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
	mock.ExpectExec(q("UPDATE user_workouts SET is_active = FALSE WHERE user_id = $1 AND is_active")).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("INSERT INTO user_workouts")).
		WithArgs(sqlmock.AnyArg(), userID, templateID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	a := &models.WorkoutAssignment{UserID: userID, TemplateID: templateID}
	require.NoError(t, repo.ActivateAssignment(context.Background(), a))
	assert.True(t, a.IsActive)
	assert.NotEqual(t, uuid.Nil, a.ID)
}

func TestWorkoutRepo_ActivateAssignmentRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWorkoutRepository(db)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
	mock.ExpectExec(q("UPDATE user_workouts SET is_active = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("INSERT INTO user_workouts")).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := repo.ActivateAssignment(context.Background(), &models.WorkoutAssignment{UserID: userID, TemplateID: uuid.New()})
	assert.ErrorContains(t, err, "insert failed")
}

func TestWorkoutRepo_ListActiveAssignmentsDecodesCustomPlan(t *testing.T) {
	db, mock := newMock(t)
	repo := NewWorkoutRepository(db)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "template_id", "name", "custom_plan", "is_active", "created_at"}).
		AddRow(uuid.NewString(), userID.String(), uuid.NewString(), "Lean Out Circuit",
			[]byte(`{"days":[{"day":"monday","rest":true}]}`), true, time.Now())
	mock.ExpectQuery(q("FROM user_workouts uw")).WithArgs(userID).WillReturnRows(rows)

	got, err := repo.ListActiveAssignments(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].CustomPlan)
	assert.Equal(t, "monday", got[0].CustomPlan.Days[0].Day)
	assert.Equal(t, "Lean Out Circuit", got[0].TemplateName)
}

func TestProgressRepo_CreateAndUpdateWeightAtomic(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProgressRepository(db)
	userID := uuid.New()
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO progress_logs")).
		WithArgs(sqlmock.AnyArg(), userID, 71.5, nil, "felt good", "2026-10-19").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(q("UPDATE users SET current_weight = $1 WHERE id = $2")).
		WithArgs(71.5, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	log := &models.ProgressLog{UserID: userID, Weight: 71.5, Notes: "felt good", Date: day}
	require.NoError(t, repo.CreateAndUpdateWeight(context.Background(), log))
}

func TestProgressRepo_CreateAndUpdateWeightRollsBackWhenUserMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProgressRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO progress_logs")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(q("UPDATE users SET current_weight")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreateAndUpdateWeight(context.Background(), &models.ProgressLog{UserID: uuid.New(), Weight: 80, Date: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressRepo_ListAscending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProgressRepository(db)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "weight", "body_fat_percentage", "notes", "photo_url", "log_date", "created_at"}).
		AddRow(uuid.NewString(), userID.String(), 80.0, 20.5, "", "", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Now()).
		AddRow(uuid.NewString(), userID.String(), 79.0, nil, "", "https://img", time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC), time.Now())
	mock.ExpectQuery(q("ORDER BY log_date ASC")).WithArgs(userID).WillReturnRows(rows)

	got, err := repo.ListAscending(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].BodyFatPercentage)
	assert.Equal(t, 20.5, *got[0].BodyFatPercentage)
	assert.Nil(t, got[1].BodyFatPercentage)
	assert.Equal(t, "https://img", got[1].PhotoURL)
}

func TestProgressRepo_SetPhotoURLNotOwned(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProgressRepository(db)

	mock.ExpectExec(q("UPDATE progress_logs SET photo_url")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetPhotoURL(context.Background(), uuid.New(), uuid.New(), "https://img")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNutritionRepo_CreateUsesDateString(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNutritionRepository(db)
	userID, foodID := uuid.New(), uuid.New()

	mock.ExpectExec(q("INSERT INTO nutrition_logs")).
		WithArgs(sqlmock.AnyArg(), userID, foodID, 150.0, "2026-10-19", "other").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.NutritionLog{
		UserID: userID, FoodID: foodID, QuantityGrams: 150,
		Date: time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC), MealType: models.MealOther,
	})
	require.NoError(t, err)
}

func TestNutritionRepo_ListForDay(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNutritionRepository(db)
	userID, foodID := uuid.New(), uuid.New()
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "food_id", "quantity_grams", "log_date", "meal_type",
		"fid", "name", "cal", "protein", "carbs", "fat",
	}).AddRow(uuid.NewString(), userID.String(), foodID.String(), 200.0, day, "lunch",
		foodID.String(), "Chicken breast", 165.0, 31.0, 0.0, 3.6)
	mock.ExpectQuery(q("WHERE n.user_id = $1 AND n.log_date = $2")).
		WithArgs(userID, "2026-10-19").
		WillReturnRows(rows)

	got, err := repo.ListForDay(context.Background(), userID, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.MealLunch, got[0].MealType)
	assert.InDelta(t, 330.0, got[0].Calories(), 1e-9)
}

func TestFoodRepo_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFoodRepository(db)

	mock.ExpectQuery(q("FROM food_items WHERE id = $1")).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
