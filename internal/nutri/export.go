package nutri

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ArchiveVersion is the format version written into every Archive.
const ArchiveVersion = 1

// Archive is a portable copy of one user's records.
type Archive struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	UserID     string            `json:"user_id"`
	Email      string            `json:"email"`
	Meals      []ArchivedMeal    `json:"meals"`
	Trainings  []ArchivedWorkout `json:"trainings"`
}

// ArchivedMeal is a meal and the storage keys of its photos.
type ArchivedMeal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Proteins  float64   `json:"proteins"`
	Carbs     float64   `json:"carbs"`
	Fats      float64   `json:"fats"`
	CreatedAt time.Time `json:"created_at"`
	PhotoKeys []string  `json:"photo_keys,omitempty"`
}

// ArchivedWorkout is a training record.
type ArchivedWorkout struct {
	ID             string    `json:"id"`
	Type           string    `json:"training_type"`
	Date           time.Time `json:"date"`
	Duration       float64   `json:"duration"`
	CaloriesBurned float64   `json:"calories_burned"`
}

// Export collects every meal, photo key and training of the signed-in user.
func (s *NutriService) Export(ctx context.Context, sess *Session) (*Archive, error) {
	const op = "Export"

	u, err := sess.requireUser(op)
	if err != nil {
		return nil, err
	}
	meals, err := s.database.ListMealsByUser(ctx, u.ID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	trainings, err := s.database.ListTrainingsByUser(ctx, u.ID)
	if err != nil {
		return nil, storeErr(op, err)
	}

	a := &Archive{
		Version:    ArchiveVersion,
		ExportedAt: s.clock.Now(),
		UserID:     u.ID,
		Email:      u.Email,
		Meals:      make([]ArchivedMeal, 0, len(meals)),
		Trainings:  make([]ArchivedWorkout, 0, len(trainings)),
	}
	for _, m := range meals {
		photos, err := s.database.ListMealPhotos(ctx, m.ID)
		if err != nil {
			return nil, storeErr(op, err)
		}
		am := ArchivedMeal{
			ID:        m.ID,
			Name:      m.Name,
			Calories:  m.Calories,
			Proteins:  m.Proteins,
			Carbs:     m.Carbs,
			Fats:      m.Fats,
			CreatedAt: m.CreatedAt,
		}
		for _, p := range photos {
			am.PhotoKeys = append(am.PhotoKeys, p.PhotoKey)
		}
		a.Meals = append(a.Meals, am)
	}
	for _, t := range trainings {
		a.Trainings = append(a.Trainings, ArchivedWorkout{
			ID:             t.ID,
			Type:           string(t.Type),
			Date:           t.Date,
			Duration:       t.Duration,
			CaloriesBurned: t.CaloriesBurned,
		})
	}

	s.logger.Info("records exported", "meals", len(a.Meals), "trainings", len(a.Trainings))
	return a, nil
}

// WriteArchive encodes a as indented JSON.
func WriteArchive(w io.Writer, a *Archive) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}
	return nil
}

// ReadArchive decodes an archive written by WriteArchive.
func ReadArchive(r io.Reader) (*Archive, error) {
	var a Archive
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	if a.Version != ArchiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", a.Version)
	}
	return &a, nil
}
