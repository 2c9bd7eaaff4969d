package nutri_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nutri-go/internal/nutri"
	"nutri-go/internal/testutil"
)

var pasta = nutri.MealInput{Name: "Pasta", Calories: 650, Proteins: 20, Carbs: 90, Fats: 15}

func TestNutriService_CreateMeal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("requires sign in", func(t *testing.T) {
		_, err := env.svc.CreateMeal(ctx, nutri.NewSession(), pasta)
		if !errors.Is(err, nutri.ErrNotSignedIn) || !nutri.IsAuthError(err) {
			t.Fatalf("CreateMeal() error = %v, want ErrNotSignedIn auth error", err)
		}
	})

	sess := env.signIn(t, "ada@example.com")

	t.Run("round trips", func(t *testing.T) {
		id, err := env.svc.CreateMeal(ctx, sess, pasta)
		if err != nil {
			t.Fatalf("CreateMeal() error = %v", err)
		}
		meals, err := env.svc.ListMeals(ctx, sess)
		if err != nil {
			t.Fatalf("ListMeals() error = %v", err)
		}
		if len(meals) != 1 {
			t.Fatalf("ListMeals() = %d meals, want 1", len(meals))
		}
		m := meals[0]
		if m.ID != id || m.Name != "Pasta" || m.Calories != 650 || m.Proteins != 20 || m.Carbs != 90 || m.Fats != 15 {
			t.Errorf("ListMeals()[0] = %+v", m)
		}
		if !m.CreatedAt.Equal(env.clock.Now()) {
			t.Errorf("CreatedAt = %v, want %v", m.CreatedAt, env.clock.Now())
		}
	})

	invalid := []struct {
		name string
		in   nutri.MealInput
	}{
		{name: "blank name", in: nutri.MealInput{Name: "  ", Calories: 100}},
		{name: "negative calories", in: nutri.MealInput{Name: "x", Calories: -1}},
		{name: "negative fats", in: nutri.MealInput{Name: "x", Fats: -0.5}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateMeal(ctx, sess, tt.in)
			if nutri.KindOf(err) != nutri.KindValidation {
				t.Fatalf("CreateMeal() error = %v, want validation error", err)
			}
		})
	}
}

func TestNutriService_AddMealWithPhotos(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signIn(t, "ada@example.com")

	meal, photos, err := env.svc.AddMeal(ctx, sess, pasta, [][]byte{testutil.PNG, testutil.JPEG})
	if err != nil {
		t.Fatalf("AddMeal() error = %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("AddMeal() photos = %d, want 2", len(photos))
	}

	prefix := "meals/" + meal.ID + "/"
	for i, want := range []struct{ ext, contentType string }{{".png", "image/png"}, {".jpg", "image/jpeg"}} {
		p := photos[i]
		if !strings.HasPrefix(p.PhotoKey, prefix) || !strings.HasSuffix(p.PhotoKey, want.ext) {
			t.Errorf("photo %d key = %q, want %s*%s", i, p.PhotoKey, prefix, want.ext)
		}
		if p.ContentType != want.contentType {
			t.Errorf("photo %d content type = %q, want %q", i, p.ContentType, want.contentType)
		}
	}
	if keys := env.store.Keys(); len(keys) != 2 {
		t.Errorf("store keys = %v, want 2", keys)
	}

	listed, err := env.svc.ListPhotos(ctx, sess, meal.ID)
	if err != nil {
		t.Fatalf("ListPhotos() error = %v", err)
	}
	if len(listed) != 2 || listed[0].PhotoKey != photos[0].PhotoKey {
		t.Errorf("ListPhotos() = %+v", listed)
	}

	var buf bytes.Buffer
	if err := env.store.Get(ctx, photos[0].PhotoKey, &buf); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), testutil.PNG) {
		t.Error("stored photo bytes differ from upload")
	}
}

func TestNutriService_AddMealRejectsBadPhotoBeforeWriting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signIn(t, "ada@example.com")

	_, _, err := env.svc.AddMeal(ctx, sess, pasta, [][]byte{testutil.PNG, []byte("plain text, not an image")})
	if nutri.KindOf(err) != nutri.KindValidation {
		t.Fatalf("AddMeal() error = %v, want validation error", err)
	}

	meals, _ := env.svc.ListMeals(ctx, sess)
	if len(meals) != 0 {
		t.Errorf("meal written despite invalid photo: %v", meals)
	}
	if keys := env.store.Keys(); len(keys) != 0 {
		t.Errorf("objects written despite invalid photo: %v", keys)
	}
}

func TestNutriService_AddMealRollsBackOnUploadFailure(t *testing.T) {
	var failing *testutil.FailingStore
	env := newTestEnv(t, withStore(func(inner nutri.ObjectStore) nutri.ObjectStore {
		failing = testutil.NewFailingStore(inner)
		failing.FailPutAfter = 1
		return failing
	}))
	ctx := context.Background()
	sess := env.signIn(t, "ada@example.com")

	_, _, err := env.svc.AddMeal(ctx, sess, pasta, [][]byte{testutil.PNG, testutil.JPEG})
	if !nutri.IsStorageError(err) || !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("AddMeal() error = %v, want storage error wrapping ErrInjected", err)
	}

	meals, err := env.svc.ListMeals(ctx, sess)
	if err != nil {
		t.Fatalf("ListMeals() error = %v", err)
	}
	if len(meals) != 0 {
		t.Errorf("meal left behind after failed AddMeal: %v", meals)
	}
	if keys := env.store.Keys(); len(keys) != 0 {
		t.Errorf("objects left behind after failed AddMeal: %v", keys)
	}
	if deletes := failing.Deletes(); len(deletes) != 1 {
		t.Errorf("Delete calls = %v, want the first uploaded photo", deletes)
	}
}

func TestNutriService_AttachPhoto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.signIn(t, "ada@example.com")
	bob := env.signIn(t, "bob@example.com")

	id, err := env.svc.CreateMeal(ctx, ada, pasta)
	if err != nil {
		t.Fatalf("CreateMeal() error = %v", err)
	}

	if _, err := env.svc.AttachPhoto(ctx, ada, id, testutil.PNG); err != nil {
		t.Fatalf("AttachPhoto() error = %v", err)
	}

	t.Run("someone else's meal is not found", func(t *testing.T) {
		_, err := env.svc.AttachPhoto(ctx, bob, id, testutil.PNG)
		if !errors.Is(err, nutri.ErrNotFound) {
			t.Fatalf("AttachPhoto() error = %v, want ErrNotFound", err)
		}
		if _, err := env.svc.ListPhotos(ctx, bob, id); !errors.Is(err, nutri.ErrNotFound) {
			t.Errorf("ListPhotos() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing meal", func(t *testing.T) {
		_, err := env.svc.AttachPhoto(ctx, ada, "no-such-meal", testutil.PNG)
		if !errors.Is(err, nutri.ErrNotFound) || !nutri.IsStoreError(err) {
			t.Fatalf("AttachPhoto() error = %v, want store ErrNotFound", err)
		}
	})

	t.Run("empty photo", func(t *testing.T) {
		_, err := env.svc.AttachPhoto(ctx, ada, id, nil)
		if nutri.KindOf(err) != nutri.KindValidation {
			t.Fatalf("AttachPhoto() error = %v, want validation error", err)
		}
	})
}

func TestNutriService_ListMealsScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.signIn(t, "ada@example.com")
	bob := env.signIn(t, "bob@example.com")

	if _, err := env.svc.CreateMeal(ctx, ada, pasta); err != nil {
		t.Fatal(err)
	}
	env.clock.Advance(time.Hour)
	if _, err := env.svc.CreateMeal(ctx, ada, nutri.MealInput{Name: "Salad", Calories: 200}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.CreateMeal(ctx, bob, nutri.MealInput{Name: "Soup", Calories: 150}); err != nil {
		t.Fatal(err)
	}

	meals, err := env.svc.ListMeals(ctx, ada)
	if err != nil {
		t.Fatalf("ListMeals() error = %v", err)
	}
	if len(meals) != 2 || meals[0].Name != "Pasta" || meals[1].Name != "Salad" {
		t.Errorf("ListMeals(ada) = %v, want [Pasta Salad]", names(meals))
	}
}

func TestNutriService_DeleteMeal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signIn(t, "ada@example.com")

	meal, _, err := env.svc.AddMeal(ctx, sess, pasta, [][]byte{testutil.PNG, testutil.JPEG})
	if err != nil {
		t.Fatalf("AddMeal() error = %v", err)
	}

	if err := env.svc.DeleteMeal(ctx, sess, meal.ID); err != nil {
		t.Fatalf("DeleteMeal() error = %v", err)
	}

	meals, _ := env.svc.ListMeals(ctx, sess)
	if len(meals) != 0 {
		t.Errorf("ListMeals() after delete = %v", names(meals))
	}
	photos, err := env.db.ListMealPhotos(ctx, meal.ID)
	if err != nil {
		t.Fatalf("ListMealPhotos() error = %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("photo rows left after delete: %d", len(photos))
	}
	if keys := env.store.Keys(); len(keys) != 0 {
		t.Errorf("objects left after delete: %v", keys)
	}

	if err := env.svc.DeleteMeal(ctx, sess, meal.ID); !errors.Is(err, nutri.ErrNotFound) {
		t.Errorf("second DeleteMeal() error = %v, want ErrNotFound", err)
	}
}

func TestNutriService_DeleteMealToleratesObjectFailures(t *testing.T) {
	var failing *testutil.FailingStore
	env := newTestEnv(t, withStore(func(inner nutri.ObjectStore) nutri.ObjectStore {
		failing = testutil.NewFailingStore(inner)
		return failing
	}))
	ctx := context.Background()
	sess := env.signIn(t, "ada@example.com")

	meal, _, err := env.svc.AddMeal(ctx, sess, pasta, [][]byte{testutil.PNG})
	if err != nil {
		t.Fatalf("AddMeal() error = %v", err)
	}

	failing.FailDelete = true
	if err := env.svc.DeleteMeal(ctx, sess, meal.ID); err != nil {
		t.Fatalf("DeleteMeal() error = %v, want success despite object failure", err)
	}
	if got, _ := env.db.FindMeal(ctx, meal.ID); got != nil {
		t.Error("meal row still present")
	}
}

func TestNutriService_PhotoURLs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.signIn(t, "ada@example.com")

	meal, photos, err := env.svc.AddMeal(ctx, sess, pasta, [][]byte{testutil.PNG})
	if err != nil {
		t.Fatalf("AddMeal() error = %v", err)
	}

	urls, err := env.svc.PhotoURLs(ctx, sess, meal.ID, time.Minute)
	if err != nil {
		t.Fatalf("PhotoURLs() error = %v", err)
	}
	if len(urls) != 1 || urls[0].Photo.PhotoKey != photos[0].PhotoKey {
		t.Fatalf("PhotoURLs() = %+v", urls)
	}

	// The stored row keeps the raw key; only the resolved value is a URL.
	if strings.Contains(photos[0].PhotoKey, "://") {
		t.Errorf("photo key %q looks like a URL", photos[0].PhotoKey)
	}

	var buf bytes.Buffer
	if err := env.store.Open(ctx, urls[0].URL, &buf); err != nil {
		t.Fatalf("Open(signed url) error = %v", err)
	}
	env.clock.Advance(2 * time.Minute)
	if err := env.store.Open(ctx, urls[0].URL, &buf); err == nil {
		t.Error("Open() accepted an expired URL")
	}
}

func TestNutriService_ResolveSignedURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		key      string
		ttl      time.Duration
		wantKind nutri.ErrorKind
	}{
		{name: "empty key", key: "", ttl: time.Minute, wantKind: nutri.KindValidation},
		{name: "zero ttl", key: "meals/m/p.png", ttl: 0, wantKind: nutri.KindValidation},
		{name: "missing object", key: "meals/m/p.png", ttl: time.Minute, wantKind: nutri.KindStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.ResolveSignedURL(ctx, tt.key, tt.ttl)
			if got := nutri.KindOf(err); got != tt.wantKind {
				t.Errorf("ResolveSignedURL() kind = %v (%v), want %v", got, err, tt.wantKind)
			}
		})
	}
}

func names(meals []*nutri.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.Name
	}
	return out
}
