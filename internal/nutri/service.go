package nutri

import (
	"context"
	"sync"
)

// NutriService is the domain repository and suggestion engine. It delegates
// persistence to a Database, photo bytes to an ObjectStore and password
// checks to a PasswordHasher, and normalizes every backend failure into an
// *Error. No state is kept between calls besides what lives in the Session
// the caller passes in; every read goes back to the backends.
type NutriService struct {
	database Database
	store    ObjectStore
	hasher   PasswordHasher
	recipes  RecipeFinder
	logger   Logger
	clock    Clock
	idgen    IDGenerator

	// unknownHash is compared against when no account matches an email, so
	// that unknown and known accounts cost the same hasher work.
	unknownOnce sync.Once
	unknownHash string
}

// NewNutriService creates a NutriService with the provided dependencies.
// recipes may be nil, in which case suggestions never include recipes.
func NewNutriService(database Database, store ObjectStore, hasher PasswordHasher, recipes RecipeFinder, logger Logger, clock Clock, idgen IDGenerator) *NutriService {
	return &NutriService{
		database: database,
		store:    store,
		hasher:   hasher,
		recipes:  recipes,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// ValidateBackends checks that the object store is usable.
func (s *NutriService) ValidateBackends(ctx context.Context) error {
	if err := s.store.ValidateSetup(ctx); err != nil {
		return storageErr("ValidateBackends", err)
	}
	return nil
}
