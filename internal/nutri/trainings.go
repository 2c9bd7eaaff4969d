package nutri

import "context"

// CreateTraining records a training for the signed-in user and returns its ID.
func (s *NutriService) CreateTraining(ctx context.Context, sess *Session, in TrainingInput) (string, error) {
	const op = "CreateTraining"

	u, err := sess.requireUser(op)
	if err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", validationErr(op, err)
	}
	kind, _ := ParseTrainingType(string(in.Type))

	training := &Training{
		ID:             s.idgen.New(),
		UserID:         u.ID,
		Type:           kind,
		Date:           in.Date,
		Duration:       in.Duration,
		CaloriesBurned: in.CaloriesBurned,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.database.CreateTraining(ctx, training); err != nil {
		return "", storeErr(op, err)
	}

	s.logger.Info("training created", "training_id", training.ID, "type", string(kind))
	return training.ID, nil
}

// ListTrainings returns the signed-in user's trainings ordered by date.
func (s *NutriService) ListTrainings(ctx context.Context, sess *Session) ([]*Training, error) {
	const op = "ListTrainings"

	u, err := sess.requireUser(op)
	if err != nil {
		return nil, err
	}
	trainings, err := s.database.ListTrainingsByUser(ctx, u.ID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return trainings, nil
}
