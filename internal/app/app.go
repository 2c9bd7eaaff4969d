package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"nutri-go/internal/auth"
	"nutri-go/internal/config"
	"nutri-go/internal/database"
	"nutri-go/internal/database/migrations"
	"nutri-go/internal/encryption"
	"nutri-go/internal/nutri"
	"nutri-go/internal/recipes"
	"nutri-go/internal/storage"
)

// Options adjust how a NutriApp runs one CLI command.
type Options struct {
	// RequestID is a client-chosen key that makes a mutating command safe to
	// resubmit. Empty disables duplicate detection.
	RequestID string
	// Parameters is recorded with the operation for history.
	Parameters string
	// Verbose also prints info and debug records to stderr.
	Verbose bool
	// Stderr receives warnings; defaults to os.Stderr.
	Stderr io.Writer
}

// NutriApp is the application layer between the CLI and NutriService.
// It constructs all dependencies from config, restores the persisted session,
// exposes high-level operations that accept raw CLI values, and records
// mutating commands in the operations table.
type NutriApp struct {
	cfg      *config.Config
	db       *database.SQLiteDatabase
	sealer   nutri.Sealer
	service  *nutri.NutriService
	sessions *FileSessionStore
	session  *nutri.Session
	clock    nutri.Clock
	urlTTL   time.Duration
	op       *Operation
	logFile  *os.File
}

// NewNutriApp creates a fully wired NutriApp from the given config.
// operation identifies the CLI command being run (e.g. "AddMeal", "SignUp").
// The caller must call Close when done.
func NewNutriApp(ctx context.Context, cfg *config.Config, operation string, opts Options) (*NutriApp, error) {
	clock := nutri.RealClock{}

	urlTTL, err := cfg.Storage.PhotoURLTTL()
	if err != nil {
		return nil, err
	}
	sessionTTL, err := cfg.Auth.SessionDuration()
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewTokenIssuer(cfg.Auth.Secret, sessionTTL, clock)
	if err != nil {
		return nil, fmt.Errorf("configuring sessions (set [auth] secret or %s): %w", config.EnvAuthSecret, err)
	}

	sealer, err := encryption.NewSealerFromConfig(cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("creating archive sealer: %w", err)
	}

	store, err := storage.NewObjectStoreFromConfig(ctx, cfg.Storage, clock)
	if err != nil {
		return nil, fmt.Errorf("creating object store: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date (run nutri db migrate): %w", err)
	}

	sessions := NewFileSessionStore(cfg.BaseDir, issuer)
	session, err := sessions.Load()
	if err != nil {
		db.Close()
		return nil, err
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stderrLevel := slog.LevelWarn
	if opts.Verbose {
		stderrLevel = slog.LevelDebug
	}
	opID := clock.Now().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, stderr, stderrLevel)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := nutri.NewNutriService(
		db,
		store,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		recipes.NewFinderFromConfig(cfg.Recipes),
		&slogAdapter{l: logger},
		clock,
		nutri.UUIDGenerator{},
	)

	return &NutriApp{
		cfg:      cfg,
		db:       db,
		sealer:   sealer,
		service:  svc,
		sessions: sessions,
		session:  session,
		clock:    clock,
		urlTTL:   urlTTL,
		op:       NewOperation(operation, opts.Parameters, opts.RequestID),
		logFile:  logFile,
	}, nil
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for DB-mutating commands. A request id that
// already belongs to a running or successful operation is refused.
func (a *NutriApp) persistOperation(ctx context.Context) error {
	if a.op.Persisted() {
		return nil
	}

	if a.op.RequestID != "" {
		prior, err := a.db.FindOperationByRequestID(ctx, a.op.RequestID)
		if err != nil {
			return fmt.Errorf("checking request id: %w", err)
		}
		if prior != nil && prior.Status != StatusError {
			return a.duplicate(fmt.Errorf("request %q already used by operation %d (%s, %s): %w",
				a.op.RequestID, prior.ID, prior.Operation, prior.Status, nutri.ErrDuplicateSubmission))
		}
	}

	dbOp, err := a.db.CreateOperation(ctx, a.op.Name, a.op.Parameters, a.op.RequestID, a.clock.Now())
	if err != nil {
		if errors.Is(err, nutri.ErrConflict) {
			return a.duplicate(fmt.Errorf("request %q: %w", a.op.RequestID, nutri.ErrDuplicateSubmission))
		}
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

func (a *NutriApp) duplicate(err error) error {
	return &nutri.Error{Kind: nutri.KindValidation, Op: a.op.Name, Err: err}
}

// Account operations

// SignUp registers a new account. It does not sign the user in.
func (a *NutriApp) SignUp(ctx context.Context, email, password string) (nutri.User, error) {
	if err := a.persistOperation(ctx); err != nil {
		return nutri.User{}, err
	}
	u, err := a.service.SignUp(ctx, email, password)
	return u, a.op.Fail(err)
}

// SignIn verifies the credentials and persists the signed-in session.
func (a *NutriApp) SignIn(ctx context.Context, email, password string) (nutri.User, error) {
	u, err := a.service.SignIn(ctx, a.session, email, password)
	if err != nil {
		return nutri.User{}, err
	}
	if err := a.sessions.Save(a.session); err != nil {
		return nutri.User{}, err
	}
	return u, nil
}

// SignOut clears the persisted session.
func (a *NutriApp) SignOut() error {
	a.service.SignOut(a.session)
	return a.sessions.Save(a.session)
}

// CurrentUser returns the user restored from the persisted session, if any.
func (a *NutriApp) CurrentUser() (nutri.User, bool) {
	return a.session.CurrentUser()
}

// Meal operations

// AddMeal records a meal with the photos read from photoPaths.
func (a *NutriApp) AddMeal(ctx context.Context, in nutri.MealInput, photoPaths []string) (*nutri.Meal, []*nutri.MealPhoto, error) {
	photos := make([][]byte, 0, len(photoPaths))
	for _, p := range photoPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("reading photo: %w", err)
		}
		photos = append(photos, data)
	}

	if err := a.persistOperation(ctx); err != nil {
		return nil, nil, err
	}
	meal, attached, err := a.service.AddMeal(ctx, a.session, in, photos)
	return meal, attached, a.op.Fail(err)
}

// AttachPhoto adds the photo at path to an existing meal.
func (a *NutriApp) AttachPhoto(ctx context.Context, mealID, path string) (*nutri.MealPhoto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}

	if err := a.persistOperation(ctx); err != nil {
		return nil, err
	}
	photo, err := a.service.AttachPhoto(ctx, a.session, mealID, data)
	return photo, a.op.Fail(err)
}

// ListMeals returns the signed-in user's meals inside w, oldest first.
func (a *NutriApp) ListMeals(ctx context.Context, w nutri.Window) ([]*nutri.Meal, error) {
	meals, err := a.service.ListMeals(ctx, a.session)
	if err != nil {
		return nil, err
	}
	return nutri.FilterMeals(meals, w), nil
}

// PhotoURLs resolves each photo of a meal to a signed URL valid for the
// configured url_ttl.
func (a *NutriApp) PhotoURLs(ctx context.Context, mealID string) ([]nutri.PhotoURL, error) {
	return a.service.PhotoURLs(ctx, a.session, mealID, a.urlTTL)
}

// DeleteMeal removes a meal and its photos.
func (a *NutriApp) DeleteMeal(ctx context.Context, mealID string) error {
	if err := a.persistOperation(ctx); err != nil {
		return err
	}
	return a.op.Fail(a.service.DeleteMeal(ctx, a.session, mealID))
}

// Training operations

// AddTraining records a training and returns its ID.
func (a *NutriApp) AddTraining(ctx context.Context, in nutri.TrainingInput) (string, error) {
	if err := a.persistOperation(ctx); err != nil {
		return "", err
	}
	id, err := a.service.CreateTraining(ctx, a.session, in)
	return id, a.op.Fail(err)
}

// ListTrainings returns the signed-in user's trainings inside w, ordered by date.
func (a *NutriApp) ListTrainings(ctx context.Context, w nutri.Window) ([]*nutri.Training, error) {
	trainings, err := a.service.ListTrainings(ctx, a.session)
	if err != nil {
		return nil, err
	}
	return nutri.FilterTrainings(trainings, w), nil
}

// Analysis

// Suggest computes the balance over w and looks up recipes when a recipe
// API key is configured.
func (a *NutriApp) Suggest(ctx context.Context, w nutri.Window) (*nutri.Suggestion, error) {
	return a.service.Suggest(ctx, a.session, nutri.SuggestRequest{
		Window:  w,
		Recipes: a.cfg.Recipes.Number,
	})
}

// FitModel fits the duration-to-calories model over all trainings.
func (a *NutriApp) FitModel(ctx context.Context) (*nutri.CalorieModel, error) {
	return a.service.FitModel(ctx, a.session)
}

// DailyCalories returns per-day intake and burn inside w, bucketed in the
// local time zone.
func (a *NutriApp) DailyCalories(ctx context.Context, w nutri.Window) ([]nutri.DayTotal, error) {
	return a.service.DailyCalories(ctx, a.session, w, time.Local)
}

// History returns the most recent recorded operations.
func (a *NutriApp) History(ctx context.Context, limit int) ([]*nutri.Operation, error) {
	return a.db.ListOperations(ctx, limit)
}

// CheckStorage verifies the object store is reachable and writable.
func (a *NutriApp) CheckStorage(ctx context.Context) error {
	return a.service.ValidateBackends(ctx)
}

// Archives

// ExportArchive writes the signed-in user's records to path, sealed with passphrase.
func (a *NutriApp) ExportArchive(ctx context.Context, path, passphrase string) (*nutri.Archive, error) {
	archive, err := a.service.Export(ctx, a.session)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := nutri.WriteArchive(&buf, archive); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".nutri-archive-*")
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	tmpPath := tmp.Name()
	if err := a.sealer.Seal(&buf, tmp, passphrase); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("sealing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("writing archive: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("saving archive: %w", err)
	}
	return archive, nil
}

// OpenArchive decrypts and decodes the archive at path.
func (a *NutriApp) OpenArchive(path, passphrase string) (*nutri.Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := a.sealer.Open(f, &buf, passphrase); err != nil {
		return nil, fmt.Errorf("unsealing archive: %w", err)
	}
	return nutri.ReadArchive(&buf)
}

// BackupDatabase writes a consistent snapshot of the database to path.
func (a *NutriApp) BackupDatabase(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("backup target already exists: %s", path)
	}
	return a.db.BackupTo(path)
}

// Close finalizes the operation and closes all resources.
// For persisted operations the operation record is stamped with its end
// time and status before the database is closed.
func (a *NutriApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(context.Background(), a.op.ID, a.op.Status, a.clock.Now()); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// MigrateDatabase applies pending schema migrations to the configured database.
func MigrateDatabase(cfg *config.Config) error {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// DatabaseStatus reports the schema version of the configured database.
func DatabaseStatus(cfg *config.Config) (migrations.Status, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return migrations.Status{}, fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	return db.MigrationStatus()
}
