package users

import "time"

// User is the account aggregate. Email is the identity key across the whole
// system; no surrogate numeric id is used for joins.
type User struct {
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	FullName           string    `json:"full_name"`
	SecurityQuestion   string    `json:"security_question,omitempty"`
	SecurityAnswerHash string    `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}
