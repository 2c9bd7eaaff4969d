package nutri

import (
	"context"
	"time"
)

// Database provides the table store used by the service.
// Finders return (nil, nil) when no row matches. Implementations wrap
// ErrConflict for unique-constraint violations.
type Database interface {
	// User operations

	// CreateUser inserts a new account. Returns an error wrapping ErrConflict
	// if the email is already registered.
	CreateUser(ctx context.Context, user *UserRecord) error

	// FindUserByEmail returns the account registered under email.
	FindUserByEmail(ctx context.Context, email string) (*UserRecord, error)

	// Meal operations

	// CreateMeal inserts a meal row.
	CreateMeal(ctx context.Context, meal *Meal) error

	// FindMeal returns a meal by ID.
	FindMeal(ctx context.Context, id string) (*Meal, error)

	// ListMealsByUser returns all meals owned by userID, oldest first.
	ListMealsByUser(ctx context.Context, userID string) ([]*Meal, error)

	// DeleteMeal removes a meal. Its photo rows are removed with it.
	DeleteMeal(ctx context.Context, id string) error

	// CreateMealPhoto inserts a photo row referencing a stored object.
	CreateMealPhoto(ctx context.Context, photo *MealPhoto) error

	// ListMealPhotos returns all photos attached to mealID, oldest first.
	ListMealPhotos(ctx context.Context, mealID string) ([]*MealPhoto, error)

	// Training operations

	// CreateTraining inserts a training row.
	CreateTraining(ctx context.Context, training *Training) error

	// ListTrainingsByUser returns all trainings owned by userID, ordered by date.
	ListTrainingsByUser(ctx context.Context, userID string) ([]*Training, error)

	// Operation tracking

	// CreateOperation records the start of a mutating command.
	// requestID may be empty.
	CreateOperation(ctx context.Context, operation, parameters, requestID string, startedAt time.Time) (*Operation, error)

	// FinishOperation stamps the end time and final status of an operation.
	FinishOperation(ctx context.Context, id int64, status string, finishedAt time.Time) error

	// FindOperationByRequestID returns the operation submitted with requestID.
	FindOperationByRequestID(ctx context.Context, requestID string) (*Operation, error)

	// ListOperations returns the most recent operations, newest first.
	ListOperations(ctx context.Context, limit int) ([]*Operation, error)

	// Close closes the database connection.
	Close() error
}

// Operation is a recorded CLI command that mutated the store.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	RequestID  string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
}
