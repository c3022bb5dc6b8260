package credstore

import (
	"fmt"
	"strings"
	"sync"
)

type Service interface {
	Register(req registerRequest) (UserSummary, error)
	Authenticate(req loginRequest) (UserSummary, error)
}

type service struct {
	store    Store
	verifier Verifier

	// mu serializes the load → check-uniqueness → append → save sequence.
	// Without it two concurrent registrations with the same email can both
	// pass the uniqueness check against a stale snapshot.
	mu sync.Mutex
}

type registerRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func NewService(store Store, verifier Verifier) Service {
	return &service{store: store, verifier: verifier}
}

func (svc *service) Register(req registerRequest) (UserSummary, error) {
	email := normalizeEmail(req.Email)
	phone := normalizePhone(req.Phone)
	password := req.Password

	// Validation order is part of the contract: clients rely on which error
	// wins when several fields are bad at once.
	if email == "" || phone == "" || password == "" {
		return UserSummary{}, ErrEmptyFields
	}
	if !strings.Contains(email, "@") {
		return UserSummary{}, ErrInvalidEmail
	}
	if len(phone) < 10 {
		return UserSummary{}, ErrInvalidPhone
	}
	if len(password) < 6 {
		return UserSummary{}, ErrInvalidPassword
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	records, err := svc.store.Load()
	if err != nil {
		return UserSummary{}, err
	}

	// Email uniqueness is checked across the whole snapshot before phone
	// uniqueness, so the reported conflict is deterministic.
	for _, r := range records {
		if r.Email == email {
			return UserSummary{}, ErrEmailTaken
		}
	}
	for _, r := range records {
		if r.Phone == phone {
			return UserSummary{}, ErrPhoneTaken
		}
	}

	sealed, err := svc.verifier.Seal(password)
	if err != nil {
		return UserSummary{}, err
	}

	rec := UserRecord{ID: nextID(records), Email: email, Phone: phone, Password: sealed}
	records = append(records, rec)
	if err := svc.store.Save(records); err != nil {
		return UserSummary{}, fmt.Errorf("saving users: %w", err)
	}

	return rec.summary(), nil
}

func (svc *service) Authenticate(req loginRequest) (UserSummary, error) {
	if strings.TrimSpace(req.Login) == "" || req.Password == "" {
		return UserSummary{}, ErrEmptyFields
	}

	// A single login field stands in for either namespace: try it both as
	// an email and as a phone number.
	emailForm := normalizeEmail(req.Login)
	phoneForm := normalizePhone(req.Login)

	records, err := svc.store.Load()
	if err != nil {
		return UserSummary{}, err
	}

	for _, r := range records {
		if r.Email == emailForm || (phoneForm != "" && r.Phone == phoneForm) {
			// Same error for unknown user and wrong password, so callers
			// cannot probe which accounts exist.
			if !svc.verifier.Verify(r.Password, req.Password) {
				return UserSummary{}, ErrInvalidCredentials
			}
			return r.summary(), nil
		}
	}
	return UserSummary{}, ErrInvalidCredentials
}
