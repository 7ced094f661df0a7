package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables if they do not exist. users.email is the
// join key everywhere; there are no cascade deletes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
  email VARCHAR(255) NOT NULL PRIMARY KEY,
  password_hash VARCHAR(255) NOT NULL,
  full_name VARCHAR(255) NOT NULL,
  security_question TEXT,
  security_answer_hash VARCHAR(255),
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS demographics (
  user_email VARCHAR(255) NOT NULL PRIMARY KEY,
  age INT,
  gender VARCHAR(32),
  weight DOUBLE,
  height DOUBLE,
  daily_water_intake DOUBLE,
  medical_history TEXT,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY (user_email) REFERENCES users (email)
)`,
		`CREATE TABLE IF NOT EXISTS uploads (
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  user_email VARCHAR(255) NOT NULL,
  filename VARCHAR(512) NOT NULL,
  file_path VARCHAR(1024) NOT NULL,
  file_type VARCHAR(16) NOT NULL,
  upload_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  analysis_status VARCHAR(16) NOT NULL DEFAULT 'pending',
  FOREIGN KEY (user_email) REFERENCES users (email)
)`,
		`CREATE TABLE IF NOT EXISTS reports (
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  user_email VARCHAR(255) NOT NULL,
  upload_id BIGINT,
  report_type VARCHAR(64) NOT NULL,
  report_content MEDIUMTEXT,
  generated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY (user_email) REFERENCES users (email),
  FOREIGN KEY (upload_id) REFERENCES uploads (id)
)`,
		`CREATE TABLE IF NOT EXISTS ai_analysis (
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  upload_id BIGINT NOT NULL,
  user_email VARCHAR(255) NOT NULL,
  analysis_data JSON NOT NULL,
  risk_level VARCHAR(16),
  confidence_score INT,
  analyzed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY (upload_id) REFERENCES uploads (id),
  FOREIGN KEY (user_email) REFERENCES users (email)
)`,
	}

	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
