package integrity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

const duiHint = "must match 00000000-0"

// CheckDUI rejects a malformed dui before any lookup.
func CheckDUI(field, dui string) error {
	if !model.ValidDUI(dui) {
		return apperrors.InvalidInput("invalid dui format", apperrors.FieldError{Field: field, Message: duiHint})
	}
	return nil
}

// Field pairs a request field name with a value from a partial update.
type Field struct {
	Name  string
	Value *string
}

// CheckPresentNotBlank fails when a supplied string field is empty or whitespace.
// Absent (nil) fields pass.
func CheckPresentNotBlank(fields ...Field) error {
	var bad []apperrors.FieldError
	for _, f := range fields {
		if f.Value != nil && strings.TrimSpace(*f.Value) == "" {
			bad = append(bad, apperrors.FieldError{Field: f.Name, Message: "must not be empty"})
		}
	}
	if len(bad) > 0 {
		return apperrors.InvalidInput("validation failed", bad...)
	}
	return nil
}

// StoreError maps a repository error onto the error taxonomy. AppErrors pass through.
func StoreError(err error, resource string) error {
	var appErr *apperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.DuplicateIdentity(resource + " already exists")
	default:
		return apperrors.StoreUnavailable(err)
	}
}

// found turns ErrNotFound into (false, nil).
func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, apperrors.StoreUnavailable(err)
}

// CheckNewUser enforces the identity domain for a user about to be created.
func CheckNewUser(ctx context.Context, store repository.Store, email, dui string) error {
	_, err := store.Users().GetByEmail(ctx, email)
	if ok, err := found(err); err != nil {
		return err
	} else if ok {
		return apperrors.DuplicateIdentity("email already registered")
	}

	_, err = store.Users().GetByDUI(ctx, dui)
	if ok, err := found(err); err != nil {
		return err
	} else if ok {
		return apperrors.DuplicateIdentity("dui already registered")
	}

	// Any patient record with this dui already belongs to another user.
	_, err = store.Patients().GetByDUI(ctx, dui)
	if ok, err := found(err); err != nil {
		return err
	} else if ok {
		return apperrors.DuplicateIdentity("dui already registered")
	}
	return nil
}

// CheckNewPatient enforces the identity domain for a patient record owned by userID.
// The owner must exist, hold the patient role and carry the same dui.
func CheckNewPatient(ctx context.Context, store repository.Store, userID uuid.UUID, dui string) error {
	owner, err := store.Users().Get(ctx, userID)
	if err != nil {
		return StoreError(err, "user")
	}

	_, err = store.Patients().GetByDUI(ctx, dui)
	if ok, err := found(err); err != nil {
		return err
	} else if ok {
		return apperrors.DuplicateIdentity("patient with this dui already exists")
	}

	holder, err := store.Users().GetByDUI(ctx, dui)
	if ok, err := found(err); err != nil {
		return err
	} else if ok && holder.ID != userID {
		return apperrors.DuplicateIdentity("dui belongs to another user")
	}

	_, err = store.Patients().GetByUser(ctx, userID)
	if ok, err := found(err); err != nil {
		return err
	} else if ok {
		return apperrors.DuplicateIdentity("user already has a patient record")
	}

	var bad []apperrors.FieldError
	if owner.Role != model.RolePatient {
		bad = append(bad, apperrors.FieldError{Field: "userId", Message: "must reference a patient user"})
	}
	if owner.DUI != dui {
		bad = append(bad, apperrors.FieldError{Field: "dui", Message: "must match the owning user's dui"})
	}
	if len(bad) > 0 {
		return apperrors.InvalidInput("validation failed", bad...)
	}
	return nil
}

// RequireDoctor fails unless the caller is a doctor.
func RequireDoctor(caller model.Identity) error {
	if !caller.IsDoctor() {
		return apperrors.Forbidden("doctor role required")
	}
	return nil
}

// CanAccessDUI lets doctors through and limits patients to their own dui.
func CanAccessDUI(caller model.Identity, dui string) error {
	if caller.IsDoctor() || caller.DUI == dui {
		return nil
	}
	return apperrors.Forbidden("access to another patient's records is not allowed")
}
