package nutri

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// photoExtensions maps sniffed image content types to object key extensions.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// CreateMeal records a meal for the signed-in user and returns its ID.
func (s *NutriService) CreateMeal(ctx context.Context, sess *Session, in MealInput) (string, error) {
	const op = "CreateMeal"

	u, err := sess.requireUser(op)
	if err != nil {
		return "", err
	}
	meal, err := s.insertMeal(ctx, op, u, in)
	if err != nil {
		return "", err
	}
	return meal.ID, nil
}

// AddMeal records a meal together with its photos. If any photo fails to
// upload or to be recorded, everything written so far (objects, photo rows
// and the meal itself) is removed before the error is returned.
func (s *NutriService) AddMeal(ctx context.Context, sess *Session, in MealInput, photos [][]byte) (*Meal, []*MealPhoto, error) {
	const op = "AddMeal"

	u, err := sess.requireUser(op)
	if err != nil {
		return nil, nil, err
	}
	for i, p := range photos {
		if _, _, err := sniffPhoto(p); err != nil {
			return nil, nil, validationErr(op, fmt.Errorf("photo %d: %w", i+1, err))
		}
	}

	meal, err := s.insertMeal(ctx, op, u, in)
	if err != nil {
		return nil, nil, err
	}

	attached := make([]*MealPhoto, 0, len(photos))
	for _, p := range photos {
		photo, err := s.attachPhoto(ctx, op, meal, p)
		if err != nil {
			s.rollbackMeal(ctx, meal, attached)
			return nil, nil, err
		}
		attached = append(attached, photo)
	}
	return meal, attached, nil
}

// AttachPhoto uploads image under a fresh key scoped by the meal and records
// a MealPhoto row holding the raw key. If the row cannot be written the
// uploaded object is deleted again.
func (s *NutriService) AttachPhoto(ctx context.Context, sess *Session, mealID string, image []byte) (*MealPhoto, error) {
	const op = "AttachPhoto"

	u, err := sess.requireUser(op)
	if err != nil {
		return nil, err
	}
	meal, err := s.ownedMeal(ctx, op, u, mealID)
	if err != nil {
		return nil, err
	}
	return s.attachPhoto(ctx, op, meal, image)
}

// ListMeals returns the signed-in user's meals, oldest first.
func (s *NutriService) ListMeals(ctx context.Context, sess *Session) ([]*Meal, error) {
	const op = "ListMeals"

	u, err := sess.requireUser(op)
	if err != nil {
		return nil, err
	}
	meals, err := s.database.ListMealsByUser(ctx, u.ID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return meals, nil
}

// ListPhotos returns the photos attached to one of the signed-in user's meals.
func (s *NutriService) ListPhotos(ctx context.Context, sess *Session, mealID string) ([]*MealPhoto, error) {
	const op = "ListPhotos"

	u, err := sess.requireUser(op)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedMeal(ctx, op, u, mealID); err != nil {
		return nil, err
	}
	photos, err := s.database.ListMealPhotos(ctx, mealID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return photos, nil
}

// DeleteMeal removes one of the signed-in user's meals. Photo rows go with
// the meal; their stored objects are then deleted best-effort and failures
// are only logged, since the rows referencing them are already gone.
func (s *NutriService) DeleteMeal(ctx context.Context, sess *Session, mealID string) error {
	const op = "DeleteMeal"

	u, err := sess.requireUser(op)
	if err != nil {
		return err
	}
	if _, err := s.ownedMeal(ctx, op, u, mealID); err != nil {
		return err
	}
	photos, err := s.database.ListMealPhotos(ctx, mealID)
	if err != nil {
		return storeErr(op, err)
	}
	if err := s.database.DeleteMeal(ctx, mealID); err != nil {
		return storeErr(op, err)
	}
	for _, p := range photos {
		if err := s.store.Delete(ctx, p.PhotoKey); err != nil {
			s.logger.Warn("photo object not deleted", "key", p.PhotoKey, "error", err)
		}
	}

	s.logger.Info("meal deleted", "meal_id", mealID, "photos", len(photos))
	return nil
}

// ResolveSignedURL returns a time-limited URL for a stored photo key.
func (s *NutriService) ResolveSignedURL(ctx context.Context, photoKey string, ttl time.Duration) (string, error) {
	const op = "ResolveSignedURL"

	if strings.TrimSpace(photoKey) == "" {
		return "", validationErr(op, fmt.Errorf("photo key is required"))
	}
	if ttl <= 0 {
		return "", validationErr(op, fmt.Errorf("ttl must be positive (got %s)", ttl))
	}
	url, err := s.store.SignedURL(ctx, photoKey, ttl)
	if err != nil {
		return "", storageErr(op, err)
	}
	return url, nil
}

// PhotoURL pairs a photo with its resolved signed URL.
type PhotoURL struct {
	Photo *MealPhoto
	URL   string
}

// PhotoURLs lists a meal's photos and resolves each to a signed URL.
func (s *NutriService) PhotoURLs(ctx context.Context, sess *Session, mealID string, ttl time.Duration) ([]PhotoURL, error) {
	photos, err := s.ListPhotos(ctx, sess, mealID)
	if err != nil {
		return nil, err
	}
	out := make([]PhotoURL, 0, len(photos))
	for _, p := range photos {
		url, err := s.ResolveSignedURL(ctx, p.PhotoKey, ttl)
		if err != nil {
			return nil, err
		}
		out = append(out, PhotoURL{Photo: p, URL: url})
	}
	return out, nil
}

func (s *NutriService) insertMeal(ctx context.Context, op string, u User, in MealInput) (*Meal, error) {
	if err := in.Validate(); err != nil {
		return nil, validationErr(op, err)
	}
	meal := &Meal{
		ID:        s.idgen.New(),
		UserID:    u.ID,
		Name:      strings.TrimSpace(in.Name),
		Calories:  in.Calories,
		Proteins:  in.Proteins,
		Carbs:     in.Carbs,
		Fats:      in.Fats,
		CreatedAt: s.clock.Now(),
	}
	if err := s.database.CreateMeal(ctx, meal); err != nil {
		return nil, storeErr(op, err)
	}
	s.logger.Info("meal created", "meal_id", meal.ID, "calories", meal.Calories)
	return meal, nil
}

// ownedMeal loads a meal and checks it belongs to u. Meals owned by someone
// else are reported as not found.
func (s *NutriService) ownedMeal(ctx context.Context, op string, u User, mealID string) (*Meal, error) {
	meal, err := s.database.FindMeal(ctx, mealID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if meal == nil || meal.UserID != u.ID {
		return nil, storeErr(op, fmt.Errorf("meal %s: %w", mealID, ErrNotFound))
	}
	return meal, nil
}

func (s *NutriService) attachPhoto(ctx context.Context, op string, meal *Meal, image []byte) (*MealPhoto, error) {
	contentType, ext, err := sniffPhoto(image)
	if err != nil {
		return nil, validationErr(op, err)
	}

	key := fmt.Sprintf("meals/%s/%s%s", meal.ID, s.idgen.New(), ext)
	if err := s.store.Put(ctx, key, bytes.NewReader(image), int64(len(image)), contentType); err != nil {
		return nil, storageErr(op, fmt.Errorf("uploading %s: %w", key, err))
	}

	photo := &MealPhoto{
		ID:          s.idgen.New(),
		MealID:      meal.ID,
		PhotoKey:    key,
		ContentType: contentType,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.database.CreateMealPhoto(ctx, photo); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("uploaded photo not cleaned up", "key", key, "error", delErr)
		}
		return nil, storeErr(op, err)
	}

	s.logger.Debug("photo attached", "meal_id", meal.ID, "key", key, "size", len(image))
	return photo, nil
}

// rollbackMeal undoes a partially written AddMeal.
func (s *NutriService) rollbackMeal(ctx context.Context, meal *Meal, photos []*MealPhoto) {
	for _, p := range photos {
		if err := s.store.Delete(ctx, p.PhotoKey); err != nil {
			s.logger.Warn("rollback: photo object not deleted", "key", p.PhotoKey, "error", err)
		}
	}
	if err := s.database.DeleteMeal(ctx, meal.ID); err != nil {
		s.logger.Error("rollback: meal not deleted", "meal_id", meal.ID, "error", err)
		return
	}
	s.logger.Warn("meal rolled back", "meal_id", meal.ID)
}

// sniffPhoto detects the image type of data and returns its content type
// and key extension.
func sniffPhoto(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("photo is empty")
	}
	contentType = http.DetectContentType(data)
	ext, ok := photoExtensions[contentType]
	if !ok {
		return "", "", fmt.Errorf("unsupported photo type %s", contentType)
	}
	return contentType, ext, nil
}
