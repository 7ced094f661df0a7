package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables if they do not exist. Mirrors the mysql
// schema with postgres types.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
  email VARCHAR(255) PRIMARY KEY,
  password_hash VARCHAR(255) NOT NULL,
  full_name VARCHAR(255) NOT NULL,
  security_question TEXT,
  security_answer_hash VARCHAR(255),
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		`CREATE TABLE IF NOT EXISTS demographics (
  user_email VARCHAR(255) PRIMARY KEY REFERENCES users (email),
  age INT,
  gender VARCHAR(32),
  weight DOUBLE PRECISION,
  height DOUBLE PRECISION,
  daily_water_intake DOUBLE PRECISION,
  medical_history TEXT,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		`CREATE TABLE IF NOT EXISTS uploads (
  id BIGSERIAL PRIMARY KEY,
  user_email VARCHAR(255) NOT NULL REFERENCES users (email),
  filename VARCHAR(512) NOT NULL,
  file_path VARCHAR(1024) NOT NULL,
  file_type VARCHAR(16) NOT NULL,
  upload_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  analysis_status VARCHAR(16) NOT NULL DEFAULT 'pending'
)`,
		`CREATE TABLE IF NOT EXISTS reports (
  id BIGSERIAL PRIMARY KEY,
  user_email VARCHAR(255) NOT NULL REFERENCES users (email),
  upload_id BIGINT REFERENCES uploads (id),
  report_type VARCHAR(64) NOT NULL,
  report_content TEXT,
  generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		`CREATE TABLE IF NOT EXISTS ai_analysis (
  id BIGSERIAL PRIMARY KEY,
  upload_id BIGINT NOT NULL REFERENCES uploads (id),
  user_email VARCHAR(255) NOT NULL REFERENCES users (email),
  analysis_data JSONB NOT NULL,
  risk_level VARCHAR(16),
  confidence_score INT,
  analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	}

	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
