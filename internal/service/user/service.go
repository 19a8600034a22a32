package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/service/integrity"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
)

type Service struct {
	store  repository.Store
	walker *integrity.Walker
	logger *logger.Logger
}

func NewService(store repository.Store, walker *integrity.Walker, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		walker: walker,
		logger: log,
	}
}

// Delete removes the caller's own account. A doctor takes their prescriptions
// with them; a patient takes their patient record and everything under it.
func (s *Service) Delete(ctx context.Context, caller model.Identity, id uuid.UUID) (model.RemovalReport, error) {
	if caller.UserID != id {
		return model.RemovalReport{}, apperrors.Forbidden("users may only delete their own account")
	}

	var report model.RemovalReport
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().Get(ctx, id); err != nil {
			return integrity.StoreError(err, "user")
		}
		var err error
		report, err = s.walker.Delete(ctx, tx, repository.KindUser, id)
		return integrity.StoreError(err, "user")
	})
	if err != nil {
		return model.RemovalReport{}, err
	}

	s.logger.Info("user deleted",
		"user_id", id.String(),
		"patients", report.Patients,
		"prescriptions", report.Prescriptions,
	)
	return report, nil
}
