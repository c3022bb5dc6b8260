package credstore

import (
	"errors"
	"strings"
)

// UserRecord is a single persisted account. Email and Phone are stored in
// normalized form; Password is stored exactly as sealed by the configured
// Verifier (verbatim plaintext under the default scheme).
type UserRecord struct {
	ID       int64  `json:"id" bson:"id"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
	Password string `json:"password" bson:"password"`
}

// UserSummary is what callers get back. It deliberately has no password
// field, so a record can never leak through a response by accident.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

var (
	ErrEmptyFields        = errors.New("all fields are required")
	ErrInvalidEmail       = errors.New("email must contain @")
	ErrInvalidPhone       = errors.New("phone must contain at least 10 digits")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email in use")
	ErrPhoneTaken         = errors.New("phone in use")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrCorruptStore       = errors.New("corrupt user store")
)

func (u UserRecord) summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Phone: u.Phone}
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizePhone strips everything except digits, so "+1 (415) 555-2671"
// and "14155552671" collapse to the same identifier.
func normalizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// nextID recomputes max(id)+1 over the snapshot on every call. There is no
// separate counter to drift out of sync with the persisted set, and ids are
// never reused even when the collection has gaps.
func nextID(records []UserRecord) int64 {
	var maxID int64
	for _, r := range records {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}
