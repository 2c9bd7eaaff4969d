package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"nutri-go/internal/nutri"
)

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if _, err := db.db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

var base = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func createTestUser(t *testing.T, db *SQLiteDatabase, id, email string) {
	t.Helper()
	err := db.CreateUser(context.Background(), &nutri.UserRecord{
		User:         nutri.User{ID: id, Email: email},
		PasswordHash: "hash-" + id,
		CreatedAt:    base,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) error = %v", email, err)
	}
}

func createTestMeal(t *testing.T, db *SQLiteDatabase, id, userID string, calories float64, at time.Time) {
	t.Helper()
	err := db.CreateMeal(context.Background(), &nutri.Meal{
		ID:        id,
		UserID:    userID,
		Name:      "meal " + id,
		Calories:  calories,
		Proteins:  10,
		Carbs:     20,
		Fats:      5,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("CreateMeal(%s) error = %v", id, err)
	}
}

func TestSQLiteDatabase_Users(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil when user not found", func(t *testing.T) {
		db := newTestDB(t)

		u, err := db.FindUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("FindUserByEmail() error = %v", err)
		}
		if u != nil {
			t.Errorf("FindUserByEmail() = %v, want nil", u)
		}
	})

	t.Run("finds created user", func(t *testing.T) {
		db := newTestDB(t)
		createTestUser(t, db, "u1", "ana@example.com")

		u, err := db.FindUserByEmail(ctx, "ana@example.com")
		if err != nil {
			t.Fatalf("FindUserByEmail() error = %v", err)
		}
		if u == nil {
			t.Fatal("FindUserByEmail() returned nil, want user")
		}
		if u.ID != "u1" || u.PasswordHash != "hash-u1" {
			t.Errorf("FindUserByEmail() = %+v", u)
		}
		if !u.CreatedAt.Equal(base) {
			t.Errorf("CreatedAt = %v, want %v", u.CreatedAt, base)
		}
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		db := newTestDB(t)
		createTestUser(t, db, "u1", "ana@example.com")

		err := db.CreateUser(ctx, &nutri.UserRecord{
			User:         nutri.User{ID: "u2", Email: "ana@example.com"},
			PasswordHash: "x",
			CreatedAt:    base,
		})
		if !errors.Is(err, nutri.ErrConflict) {
			t.Errorf("CreateUser() error = %v, want ErrConflict", err)
		}
	})
}

func TestSQLiteDatabase_Meals(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		db := newTestDB(t)
		createTestUser(t, db, "u1", "ana@example.com")
		createTestMeal(t, db, "m1", "u1", 650, base)

		m, err := db.FindMeal(ctx, "m1")
		if err != nil {
			t.Fatalf("FindMeal() error = %v", err)
		}
		if m == nil {
			t.Fatal("FindMeal() returned nil")
		}
		want := nutri.Meal{ID: "m1", UserID: "u1", Name: "meal m1", Calories: 650, Proteins: 10, Carbs: 20, Fats: 5}
		m.CreatedAt = time.Time{}
		if *m != want {
			t.Errorf("FindMeal() = %+v, want %+v", *m, want)
		}
	})

	t.Run("missing meal is nil", func(t *testing.T) {
		db := newTestDB(t)

		m, err := db.FindMeal(ctx, "nope")
		if err != nil || m != nil {
			t.Errorf("FindMeal() = %v, %v; want nil, nil", m, err)
		}
	})

	t.Run("lists only the owner's meals, oldest first", func(t *testing.T) {
		db := newTestDB(t)
		createTestUser(t, db, "u1", "ana@example.com")
		createTestUser(t, db, "u2", "bo@example.com")
		createTestMeal(t, db, "late", "u1", 100, base.Add(2*time.Hour))
		createTestMeal(t, db, "early", "u1", 200, base)
		createTestMeal(t, db, "other", "u2", 300, base)

		meals, err := db.ListMealsByUser(ctx, "u1")
		if err != nil {
			t.Fatalf("ListMealsByUser() error = %v", err)
		}
		if len(meals) != 2 {
			t.Fatalf("len(meals) = %d, want 2", len(meals))
		}
		if meals[0].ID != "early" || meals[1].ID != "late" {
			t.Errorf("order = [%s %s], want [early late]", meals[0].ID, meals[1].ID)
		}
	})

	t.Run("meal for unknown user is rejected", func(t *testing.T) {
		db := newTestDB(t)

		err := db.CreateMeal(ctx, &nutri.Meal{ID: "m1", UserID: "ghost", Name: "x", CreatedAt: base})
		if err == nil {
			t.Error("CreateMeal() expected foreign key error")
		}
	})
}

func TestSQLiteDatabase_DeleteMeal(t *testing.T) {
	ctx := context.Background()

	t.Run("removes photo rows with the meal", func(t *testing.T) {
		db := newTestDB(t)
		createTestUser(t, db, "u1", "ana@example.com")
		createTestMeal(t, db, "m1", "u1", 500, base)
		for _, id := range []string{"p1", "p2"} {
			err := db.CreateMealPhoto(ctx, &nutri.MealPhoto{
				ID:          id,
				MealID:      "m1",
				PhotoKey:    "meals/m1/" + id + ".jpg",
				ContentType: "image/jpeg",
				CreatedAt:   base,
			})
			if err != nil {
				t.Fatalf("CreateMealPhoto(%s) error = %v", id, err)
			}
		}

		photos, err := db.ListMealPhotos(ctx, "m1")
		if err != nil {
			t.Fatalf("ListMealPhotos() error = %v", err)
		}
		if len(photos) != 2 {
			t.Fatalf("len(photos) = %d, want 2", len(photos))
		}

		if err := db.DeleteMeal(ctx, "m1"); err != nil {
			t.Fatalf("DeleteMeal() error = %v", err)
		}

		photos, err = db.ListMealPhotos(ctx, "m1")
		if err != nil {
			t.Fatalf("ListMealPhotos() error = %v", err)
		}
		if len(photos) != 0 {
			t.Errorf("len(photos) after delete = %d, want 0", len(photos))
		}
		if m, _ := db.FindMeal(ctx, "m1"); m != nil {
			t.Error("meal still present after delete")
		}
	})

	t.Run("missing meal is not found", func(t *testing.T) {
		db := newTestDB(t)

		err := db.DeleteMeal(ctx, "nope")
		if !errors.Is(err, nutri.ErrNotFound) {
			t.Errorf("DeleteMeal() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("photo for unknown meal is rejected", func(t *testing.T) {
		db := newTestDB(t)

		err := db.CreateMealPhoto(ctx, &nutri.MealPhoto{ID: "p1", MealID: "ghost", PhotoKey: "k", ContentType: "image/png", CreatedAt: base})
		if err == nil {
			t.Error("CreateMealPhoto() expected foreign key error")
		}
	})
}

func TestSQLiteDatabase_Trainings(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	createTestUser(t, db, "u1", "ana@example.com")

	inputs := []*nutri.Training{
		{ID: "t2", UserID: "u1", Type: nutri.TrainingVelo, Date: base.AddDate(0, 0, 2), Duration: 60, CaloriesBurned: 500, CreatedAt: base},
		{ID: "t1", UserID: "u1", Type: nutri.TrainingCourse, Date: base, Duration: 30, CaloriesBurned: 300, CreatedAt: base},
	}
	for _, tr := range inputs {
		if err := db.CreateTraining(ctx, tr); err != nil {
			t.Fatalf("CreateTraining(%s) error = %v", tr.ID, err)
		}
	}

	got, err := db.ListTrainingsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTrainingsByUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t2" {
		t.Errorf("order = [%s %s], want [t1 t2]", got[0].ID, got[1].ID)
	}
	if got[1].Type != nutri.TrainingVelo {
		t.Errorf("Type = %q, want %q", got[1].Type, nutri.TrainingVelo)
	}
	if !got[1].Date.Equal(base.AddDate(0, 0, 2)) {
		t.Errorf("Date = %v, want %v", got[1].Date, base.AddDate(0, 0, 2))
	}
}

func TestSQLiteDatabase_Operations(t *testing.T) {
	ctx := context.Background()

	t.Run("create, finish and list", func(t *testing.T) {
		db := newTestDB(t)

		op1, err := db.CreateOperation(ctx, "AddMeal", "name=Soup", "req-1", base)
		if err != nil {
			t.Fatalf("CreateOperation() error = %v", err)
		}
		if op1.ID == 0 || op1.Status != "running" || op1.FinishedAt != nil {
			t.Errorf("CreateOperation() = %+v", op1)
		}
		if err := db.FinishOperation(ctx, op1.ID, "success", base.Add(time.Second)); err != nil {
			t.Fatalf("FinishOperation() error = %v", err)
		}
		if _, err := db.CreateOperation(ctx, "DeleteMeal", "id=m1", "", base.Add(time.Minute)); err != nil {
			t.Fatalf("CreateOperation() error = %v", err)
		}

		ops, err := db.ListOperations(ctx, 10)
		if err != nil {
			t.Fatalf("ListOperations() error = %v", err)
		}
		if len(ops) != 2 {
			t.Fatalf("len(ops) = %d, want 2", len(ops))
		}
		if ops[0].Operation != "DeleteMeal" {
			t.Errorf("ops[0] = %q, want newest first", ops[0].Operation)
		}
		if ops[1].Status != "success" || ops[1].FinishedAt == nil {
			t.Errorf("finished op = %+v", ops[1])
		}
		if ops[0].RequestID != "" {
			t.Errorf("RequestID = %q, want empty", ops[0].RequestID)
		}
	})

	t.Run("find by request id", func(t *testing.T) {
		db := newTestDB(t)

		if _, err := db.CreateOperation(ctx, "AddMeal", "", "req-7", base); err != nil {
			t.Fatalf("CreateOperation() error = %v", err)
		}

		op, err := db.FindOperationByRequestID(ctx, "req-7")
		if err != nil || op == nil {
			t.Fatalf("FindOperationByRequestID() = %v, %v", op, err)
		}
		if op.Operation != "AddMeal" {
			t.Errorf("Operation = %q, want AddMeal", op.Operation)
		}

		op, err = db.FindOperationByRequestID(ctx, "req-8")
		if err != nil || op != nil {
			t.Errorf("FindOperationByRequestID(unknown) = %v, %v; want nil, nil", op, err)
		}
	})

	t.Run("request id is unique, empty ids are not", func(t *testing.T) {
		db := newTestDB(t)

		if _, err := db.CreateOperation(ctx, "AddMeal", "", "req-1", base); err != nil {
			t.Fatalf("CreateOperation() error = %v", err)
		}
		_, err := db.CreateOperation(ctx, "AddMeal", "", "req-1", base)
		if !errors.Is(err, nutri.ErrConflict) {
			t.Errorf("CreateOperation(dup) error = %v, want ErrConflict", err)
		}

		for i := 0; i < 2; i++ {
			if _, err := db.CreateOperation(ctx, "ListMeals", "", "", base); err != nil {
				t.Errorf("CreateOperation(no request id) #%d error = %v", i, err)
			}
		}
	})

	t.Run("request id is reusable after a failed operation", func(t *testing.T) {
		db := newTestDB(t)

		first, err := db.CreateOperation(ctx, "AddMeal", "", "req-2", base)
		if err != nil {
			t.Fatalf("CreateOperation() error = %v", err)
		}
		if err := db.FinishOperation(ctx, first.ID, "error", base.Add(time.Second)); err != nil {
			t.Fatalf("FinishOperation() error = %v", err)
		}

		second, err := db.CreateOperation(ctx, "AddMeal", "", "req-2", base.Add(time.Minute))
		if err != nil {
			t.Fatalf("CreateOperation(retry) error = %v", err)
		}

		op, err := db.FindOperationByRequestID(ctx, "req-2")
		if err != nil || op == nil {
			t.Fatalf("FindOperationByRequestID() = %v, %v", op, err)
		}
		if op.ID != second.ID {
			t.Errorf("FindOperationByRequestID() ID = %d, want newest %d", op.ID, second.ID)
		}

		_, err = db.CreateOperation(ctx, "AddMeal", "", "req-2", base.Add(2*time.Minute))
		if !errors.Is(err, nutri.ErrConflict) {
			t.Errorf("CreateOperation(while running) error = %v, want ErrConflict", err)
		}
	})
}

func TestSQLiteDatabase_BackupTo(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "u1", "ana@example.com")

	dest := filepath.Join(t.TempDir(), "copy.db")
	if err := db.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	cp, err := NewSQLiteDatabase(dest)
	if err != nil {
		t.Fatalf("opening copy: %v", err)
	}
	defer cp.Close()

	u, err := cp.FindUserByEmail(context.Background(), "ana@example.com")
	if err != nil || u == nil {
		t.Errorf("FindUserByEmail() on copy = %v, %v", u, err)
	}
}

func TestOpenConnection_ForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	db, err := OpenConnection(filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("OpenConnection() error = %v", err)
	}
	defer db.Close()

	// Hold several connections at once so the pool has to dial new ones.
	db.SetMaxOpenConns(3)
	for i := 0; i < 3; i++ {
		conn, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn() #%d error = %v", i, err)
		}
		defer conn.Close()

		var enabled int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("PRAGMA foreign_keys #%d error = %v", i, err)
		}
		if enabled != 1 {
			t.Errorf("connection #%d foreign_keys = %d, want 1", i, enabled)
		}
	}
}

func TestConnectionDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: ":memory:", want: ":memory:?_foreign_keys=on"},
		{path: "/data/nutri.db", want: "/data/nutri.db?_foreign_keys=on"},
		{path: "file:nutri.db?mode=rwc", want: "file:nutri.db?mode=rwc&_foreign_keys=on"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := connectionDSN(tt.path); got != tt.want {
				t.Errorf("connectionDSN(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
