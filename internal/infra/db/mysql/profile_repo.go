package mysql

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
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  age=VALUES(age), gender=VALUES(gender), weight=VALUES(weight), height=VALUES(height),
  daily_water_intake=VALUES(daily_water_intake), medical_history=VALUES(medical_history),
  updated_at=VALUES(updated_at);
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
WHERE user_email=? LIMIT 1;
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
