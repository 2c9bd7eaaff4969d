package testutil

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"nutri-go/internal/auth"
	"nutri-go/internal/nutri"
)

// PNG is the smallest byte sequence the photo sniffer accepts as image/png.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// JPEG is the smallest byte sequence the photo sniffer accepts as image/jpeg.
var JPEG = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

// NewTestHasher returns a bcrypt hasher at the minimum cost.
func NewTestHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

// StubRecipeFinder returns canned recipes and records every query.
type StubRecipeFinder struct {
	mu      sync.Mutex
	Recipes []nutri.Recipe
	Err     error
	queries []nutri.RecipeQuery
}

func (f *StubRecipeFinder) FindByNutrients(ctx context.Context, q nutri.RecipeQuery) ([]nutri.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Recipes, nil
}

// Queries returns every query FindByNutrients received.
func (f *StubRecipeFinder) Queries() []nutri.RecipeQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]nutri.RecipeQuery(nil), f.queries...)
}

var _ nutri.RecipeFinder = (*StubRecipeFinder)(nil)
