package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"nutri-go/internal/database/migrations"
	"nutri-go/internal/database/sqlc"
	"nutri-go/internal/nutri"
)

// SQLiteDatabase implements the nutri.Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    "",
	}
}

// OpenConnection opens and configures a SQLite database connection.
// The pool is pinned to a single connection because every connection to
// ":memory:" is a separate database. Foreign keys are enabled through the DSN
// so that any connection the pool opens, including replacements, enforces
// them.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connectionDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// connectionDSN appends the driver options every connection needs.
// Photo rows cascade with their meal, so foreign keys must stay on.
func connectionDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// User operations

func (s *SQLiteDatabase) CreateUser(ctx context.Context, user *nutri.UserRecord) error {
	err := s.queries.InsertUser(ctx, sqlc.InsertUserParams{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", classify(err))
	}
	return nil
}

func (s *SQLiteDatabase) FindUserByEmail(ctx context.Context, email string) (*nutri.UserRecord, error) {
	u, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &nutri.UserRecord{
		User:         nutri.User{ID: u.ID, Email: u.Email},
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}, nil
}

// Meal operations

func (s *SQLiteDatabase) CreateMeal(ctx context.Context, meal *nutri.Meal) error {
	err := s.queries.InsertMeal(ctx, sqlc.InsertMealParams{
		ID:        meal.ID,
		UserID:    meal.UserID,
		Name:      meal.Name,
		Calories:  meal.Calories,
		Proteins:  meal.Proteins,
		Carbs:     meal.Carbs,
		Fats:      meal.Fats,
		CreatedAt: meal.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("creating meal: %w", classify(err))
	}
	return nil
}

func (s *SQLiteDatabase) FindMeal(ctx context.Context, id string) (*nutri.Meal, error) {
	m, err := s.queries.GetMealByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding meal: %w", err)
	}
	return toMeal(m), nil
}

func (s *SQLiteDatabase) ListMealsByUser(ctx context.Context, userID string) ([]*nutri.Meal, error) {
	meals, err := s.queries.GetMealsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}

	result := make([]*nutri.Meal, len(meals))
	for i := range meals {
		result[i] = toMeal(meals[i])
	}
	return result, nil
}

// DeleteMeal removes the meal and, through ON DELETE CASCADE, its photo rows
// in the same statement. A transaction is still used so the existence check
// and the delete see the same state.
func (s *SQLiteDatabase) DeleteMeal(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	if _, err := qtx.GetMealByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("deleting meal %s: %w", id, nutri.ErrNotFound)
		}
		return fmt.Errorf("loading meal: %w", err)
	}
	if err := qtx.DeleteMealByID(ctx, id); err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) CreateMealPhoto(ctx context.Context, photo *nutri.MealPhoto) error {
	err := s.queries.InsertMealPhoto(ctx, sqlc.InsertMealPhotoParams{
		ID:          photo.ID,
		MealID:      photo.MealID,
		PhotoKey:    photo.PhotoKey,
		ContentType: photo.ContentType,
		CreatedAt:   photo.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("creating meal photo: %w", classify(err))
	}
	return nil
}

func (s *SQLiteDatabase) ListMealPhotos(ctx context.Context, mealID string) ([]*nutri.MealPhoto, error) {
	photos, err := s.queries.GetMealPhotosByMealID(ctx, mealID)
	if err != nil {
		return nil, fmt.Errorf("listing meal photos: %w", err)
	}

	result := make([]*nutri.MealPhoto, len(photos))
	for i, p := range photos {
		result[i] = &nutri.MealPhoto{
			ID:          p.ID,
			MealID:      p.MealID,
			PhotoKey:    p.PhotoKey,
			ContentType: p.ContentType,
			CreatedAt:   p.CreatedAt,
		}
	}
	return result, nil
}

// Training operations

func (s *SQLiteDatabase) CreateTraining(ctx context.Context, training *nutri.Training) error {
	err := s.queries.InsertTraining(ctx, sqlc.InsertTrainingParams{
		ID:             training.ID,
		UserID:         training.UserID,
		TrainingType:   string(training.Type),
		Date:           training.Date,
		Duration:       training.Duration,
		CaloriesBurned: training.CaloriesBurned,
		CreatedAt:      training.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("creating training: %w", classify(err))
	}
	return nil
}

func (s *SQLiteDatabase) ListTrainingsByUser(ctx context.Context, userID string) ([]*nutri.Training, error) {
	trainings, err := s.queries.GetTrainingsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing trainings: %w", err)
	}

	result := make([]*nutri.Training, len(trainings))
	for i, t := range trainings {
		result[i] = &nutri.Training{
			ID:             t.ID,
			UserID:         t.UserID,
			Type:           nutri.TrainingType(t.TrainingType),
			Date:           t.Date,
			Duration:       t.Duration,
			CaloriesBurned: t.CaloriesBurned,
			CreatedAt:      t.CreatedAt,
		}
	}
	return result, nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(ctx context.Context, operation, parameters, requestID string, startedAt time.Time) (*nutri.Operation, error) {
	op, err := s.queries.InsertOperation(ctx, sqlc.InsertOperationParams{
		Operation:  operation,
		Parameters: parameters,
		RequestID:  sql.NullString{String: requestID, Valid: requestID != ""},
		StartedAt:  startedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", classify(err))
	}
	return toOperation(op), nil
}

func (s *SQLiteDatabase) FinishOperation(ctx context.Context, id int64, status string, finishedAt time.Time) error {
	err := s.queries.UpdateOperationFinished(ctx, sqlc.UpdateOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: finishedAt, Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindOperationByRequestID(ctx context.Context, requestID string) (*nutri.Operation, error) {
	if requestID == "" {
		return nil, nil
	}
	op, err := s.queries.GetOperationByRequestID(ctx, sql.NullString{String: requestID, Valid: true})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding operation by request id: %w", err)
	}
	return toOperation(op), nil
}

func (s *SQLiteDatabase) ListOperations(ctx context.Context, limit int) ([]*nutri.Operation, error) {
	ops, err := s.queries.GetOperations(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	result := make([]*nutri.Operation, len(ops))
	for i := range ops {
		result[i] = toOperation(ops[i])
	}
	return result, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrationStatus reports the applied and latest schema versions.
func (s *SQLiteDatabase) MigrationStatus() (migrations.Status, error) {
	return migrations.GetStatus(s.db)
}

// Migrate applies any pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo writes a consistent copy of the database to destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func toMeal(m sqlc.Meal) *nutri.Meal {
	return &nutri.Meal{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Calories:  m.Calories,
		Proteins:  m.Proteins,
		Carbs:     m.Carbs,
		Fats:      m.Fats,
		CreatedAt: m.CreatedAt,
	}
}

func toOperation(op sqlc.Operation) *nutri.Operation {
	out := &nutri.Operation{
		ID:         op.ID,
		Operation:  op.Operation,
		Parameters: op.Parameters,
		RequestID:  op.RequestID.String,
		StartedAt:  op.StartedAt,
		Status:     op.Status,
	}
	if op.FinishedAt.Valid {
		t := op.FinishedAt.Time
		out.FinishedAt = &t
	}
	return out
}

// classify wraps unique-constraint violations in nutri.ErrConflict.
func classify(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && (serr.ExtendedCode == sqlite3.ErrConstraintUnique || serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return fmt.Errorf("%w: %v", nutri.ErrConflict, err)
	}
	return err
}

// Compile-time check that SQLiteDatabase implements nutri.Database interface
var _ nutri.Database = (*SQLiteDatabase)(nil)
