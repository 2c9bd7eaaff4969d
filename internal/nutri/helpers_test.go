package nutri_test

import (
	"context"
	"testing"

	"nutri-go/internal/database"
	"nutri-go/internal/nutri"
	"nutri-go/internal/storage"
	"nutri-go/internal/testutil"
)

// testEnv bundles a service with the backends behind it.
type testEnv struct {
	svc     *nutri.NutriService
	db      *database.SQLiteDatabase
	store   *storage.MemoryStore
	clock   *testutil.StubClock
	recipes *testutil.StubRecipeFinder
}

type envOption func(*envConfig)

type envConfig struct {
	wrapStore func(nutri.ObjectStore) nutri.ObjectStore
	hasher    nutri.PasswordHasher
	noRecipes bool
}

func withStore(wrap func(nutri.ObjectStore) nutri.ObjectStore) envOption {
	return func(c *envConfig) { c.wrapStore = wrap }
}

func withHasher(h nutri.PasswordHasher) envOption {
	return func(c *envConfig) { c.hasher = h }
}

func withoutRecipes() envOption {
	return func(c *envConfig) { c.noRecipes = true }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	var cfg envConfig
	for _, o := range opts {
		o(&cfg)
	}

	env := &testEnv{
		db:      testutil.NewTestDatabase(t),
		clock:   testutil.FixedClock(),
		recipes: &testutil.StubRecipeFinder{},
	}
	env.store = testutil.NewTestStore(env.clock)

	var store nutri.ObjectStore = env.store
	if cfg.wrapStore != nil {
		store = cfg.wrapStore(store)
	}
	var finder nutri.RecipeFinder = env.recipes
	if cfg.noRecipes {
		finder = nil
	}

	var hasher nutri.PasswordHasher = testutil.NewTestHasher()
	if cfg.hasher != nil {
		hasher = cfg.hasher
	}

	env.svc = nutri.NewNutriService(env.db, store, hasher, finder,
		nutri.NewNopLogger(), env.clock, testutil.NewStubIDGenerator())
	return env
}

// signIn registers email and returns a session signed in as that account.
func (e *testEnv) signIn(t *testing.T, email string) *nutri.Session {
	t.Helper()
	ctx := context.Background()
	if _, err := e.svc.SignUp(ctx, email, "password1"); err != nil {
		t.Fatalf("SignUp(%s) error = %v", email, err)
	}
	sess := nutri.NewSession()
	if _, err := e.svc.SignIn(ctx, sess, email, "password1"); err != nil {
		t.Fatalf("SignIn(%s) error = %v", email, err)
	}
	return sess
}
