// Package memory is an in-process Store used by tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
)

type tables struct {
	users         map[uuid.UUID]model.User
	patients      map[uuid.UUID]model.Patient
	prescriptions map[uuid.UUID]model.Prescription
	confirmations map[uuid.UUID]model.MedicationConfirmation
	notifications map[uuid.UUID]model.Notification
}

func newTables() tables {
	return tables{
		users:         make(map[uuid.UUID]model.User),
		patients:      make(map[uuid.UUID]model.Patient),
		prescriptions: make(map[uuid.UUID]model.Prescription),
		confirmations: make(map[uuid.UUID]model.MedicationConfirmation),
		notifications: make(map[uuid.UUID]model.Notification),
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.patients {
		c.patients[k] = v
	}
	for k, v := range t.prescriptions {
		c.prescriptions[k] = v
	}
	for k, v := range t.confirmations {
		c.confirmations[k] = v
	}
	for k, v := range t.notifications {
		c.notifications[k] = v
	}
	return c
}

type state struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data tables
	// failOn makes the named operation fail; tests use it to simulate an outage.
	failOn map[string]error
}

// Store keeps every record in maps guarded by one lock. Writes outside a
// transaction are serialized with transactions so a rollback never drops them.
type Store struct {
	st   *state
	inTx bool
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{st: &state{data: newTables(), failOn: make(map[string]error)}}
}

// FailOn makes every later call of op ("users.create", "notifications.update_status", ...) return err.
// A nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if err == nil {
		delete(s.st.failOn, op)
		return
	}
	s.st.failOn[op] = err
}

func (s *Store) fail(op string) error {
	return s.st.failOn[op]
}

// write runs fn under the write lock, joining the transaction lock when not already inside one.
func (s *Store) write(op string, fn func(t *tables) error) error {
	if !s.inTx {
		s.st.txMu.Lock()
		defer s.st.txMu.Unlock()
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if err := s.fail(op); err != nil {
		return err
	}
	return fn(&s.st.data)
}

func (s *Store) read(op string, fn func(t *tables) error) error {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	if err := s.fail(op); err != nil {
		return err
	}
	return fn(&s.st.data)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	s.st.mu.RLock()
	snapshot := s.st.data.clone()
	s.st.mu.RUnlock()

	if err := fn(&Store{st: s.st, inTx: true}); err != nil {
		s.st.mu.Lock()
		s.st.data = snapshot
		s.st.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.read("ping", func(*tables) error { return nil })
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Patients() repository.PatientRepository           { return patientRepo{s} }
func (s *Store) Prescriptions() repository.PrescriptionRepository { return prescriptionRepo{s} }
func (s *Store) Confirmations() repository.ConfirmationRepository { return confirmationRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }

func (s *Store) ReferencingIDs(ctx context.Context, kind repository.Kind, ref string, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.read(string(kind)+".referencing", func(t *tables) error {
		switch {
		case kind == repository.KindPatient && ref == repository.RefUser:
			for id, p := range t.patients {
				if p.UserID == parentID {
					ids = append(ids, id)
				}
			}
		case kind == repository.KindPrescription && ref == repository.RefPatient:
			for id, p := range t.prescriptions {
				if p.PatientID == parentID {
					ids = append(ids, id)
				}
			}
		case kind == repository.KindPrescription && ref == repository.RefDoctor:
			for id, p := range t.prescriptions {
				if p.DoctorID == parentID {
					ids = append(ids, id)
				}
			}
		case kind == repository.KindConfirmation && ref == repository.RefPatient:
			for id, c := range t.confirmations {
				if c.PatientID == parentID {
					ids = append(ids, id)
				}
			}
		case kind == repository.KindConfirmation && ref == repository.RefPrescription:
			for id, c := range t.confirmations {
				if c.PrescriptionID == parentID {
					ids = append(ids, id)
				}
			}
		case kind == repository.KindNotification && ref == repository.RefPatient:
			for id, n := range t.notifications {
				if n.PatientID == parentID {
					ids = append(ids, id)
				}
			}
		default:
			return fmt.Errorf("unknown reference %s.%s", kind, ref)
		}
		return nil
	})
	return ids, err
}

func (s *Store) DeleteRecord(ctx context.Context, kind repository.Kind, id uuid.UUID) (bool, error) {
	var found bool
	err := s.write(string(kind)+".delete", func(t *tables) error {
		switch kind {
		case repository.KindUser:
			_, found = t.users[id]
			delete(t.users, id)
		case repository.KindPatient:
			_, found = t.patients[id]
			delete(t.patients, id)
		case repository.KindPrescription:
			_, found = t.prescriptions[id]
			delete(t.prescriptions, id)
		case repository.KindConfirmation:
			_, found = t.confirmations[id]
			delete(t.confirmations, id)
		case repository.KindNotification:
			_, found = t.notifications[id]
			delete(t.notifications, id)
		default:
			return fmt.Errorf("unknown kind %s", kind)
		}
		return nil
	})
	return found, err
}
