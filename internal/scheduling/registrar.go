package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NormalizeEmail canonicalizes the patient natural key before any lookup or
// insert, so "Jane@X.com " and "jane@x.com" resolve to the same record.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PatientRegistrar resolves or creates the patient record for a booking.
type PatientRegistrar struct {
	repo Repository
}

func NewPatientRegistrar(repo Repository) *PatientRegistrar {
	return &PatientRegistrar{repo: repo}
}

// Register returns the id of the patient with the given email, creating the
// record when none exists.
func (r *PatientRegistrar) Register(ctx context.Context, fullName, email, phone string) (uuid.UUID, error) {
	normalized := NormalizeEmail(email)

	existing, err := r.repo.GetPatientByEmail(ctx, normalized)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ErrPatientNotFound) {
		return uuid.Nil, fmt.Errorf("resolve patient: %w", err)
	}

	created, err := r.repo.CreatePatient(ctx, strings.TrimSpace(fullName), normalized, strings.TrimSpace(phone))
	if err != nil {
		return uuid.Nil, fmt.Errorf("create patient: %w", err)
	}

	return created.ID, nil
}
