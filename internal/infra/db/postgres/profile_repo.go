package postgres

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/lifelens/lifelens/internal/domain/profiles"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert keeps at most one demographics row per user, updated in place.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	const q = `
INSERT INTO demographics
  (user_email, age, gender, weight, height, daily_water_intake, medical_history, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (user_email) DO UPDATE SET
  age=EXCLUDED.age, gender=EXCLUDED.gender, weight=EXCLUDED.weight, height=EXCLUDED.height,
  daily_water_intake=EXCLUDED.daily_water_intake, medical_history=EXCLUDED.medical_history,
  updated_at=EXCLUDED.updated_at;
`
	_, err := r.db.ExecContext(ctx, q,
		p.UserEmail, p.Age, p.Gender, p.WeightKG, p.HeightCM,
		p.DailyWaterIntake, p.MedicalHistory, p.UpdatedAt,
	)
	return err
}

// Get returns (nil, nil) when the user has no saved demographics.
func (r *ProfileRepository) Get(ctx context.Context, email string) (*domain.Profile, error) {
	const q = `
SELECT user_email, age, gender, weight, height, daily_water_intake, medical_history, updated_at
FROM demographics
WHERE user_email=$1 LIMIT 1;
`
	var p domain.Profile
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&p.UserEmail, &p.Age, &p.Gender, &p.WeightKG, &p.HeightCM,
		&p.DailyWaterIntake, &p.MedicalHistory, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
