// Package mongodb stores records as documents, one collection per kind.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/medreminder-api/internal/config"
	"github.com/jwalitptl/medreminder-api/internal/repository"
)

var collections = map[repository.Kind]string{
	repository.KindUser:         "users",
	repository.KindPatient:      "patients",
	repository.KindPrescription: "prescriptions",
	repository.KindConfirmation: "medication_confirmations",
	repository.KindNotification: "notifications",
}

var refFields = map[repository.Kind]map[string]string{
	repository.KindPatient: {
		repository.RefUser: "user_id",
	},
	repository.KindPrescription: {
		repository.RefPatient: "patient_id",
		repository.RefDoctor:  "doctor_id",
	},
	repository.KindConfirmation: {
		repository.RefPatient:      "patient_id",
		repository.RefPrescription: "prescription_id",
	},
	repository.KindNotification: {
		repository.RefPatient: "patient_id",
	},
}

// Connect dials and pings the server.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// Store is a repository.Store over one database. With transactions enabled
// WithTx runs inside a session transaction, which needs a replica set.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
	sess         mongo.Session
}

var _ repository.Store = (*Store)(nil)

func NewStore(client *mongo.Client, cfg config.MongoConfig) *Store {
	return &Store{
		client:       client,
		db:           client.Database(cfg.Name),
		transactions: cfg.Transactions,
	}
}

// EnsureIndexes creates the unique and lookup indexes; it is safe to run on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(field + "_unique"),
		}
	}
	lookup := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
	}

	indexes := map[repository.Kind][]mongo.IndexModel{
		repository.KindUser:         {unique("email"), unique("dui")},
		repository.KindPatient:      {unique("dui"), unique("user_id")},
		repository.KindPrescription: {lookup("patient_id"), lookup("doctor_id")},
		repository.KindConfirmation: {lookup("prescription_id"), lookup("patient_id")},
		repository.KindNotification: {lookup("patient_id")},
	}
	for kind, models := range indexes {
		if _, err := s.coll(kind).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collections[kind], err)
		}
	}
	return nil
}

func (s *Store) coll(kind repository.Kind) *mongo.Collection {
	return s.db.Collection(collections[kind])
}

// bind attaches the open session, if any, so the driver routes the call into its transaction.
func (s *Store) bind(ctx context.Context) context.Context {
	if s.sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, s.sess)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.sess != nil || !s.transactions {
		return fn(s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	view := &Store{client: s.client, db: s.db, transactions: true, sess: sess}
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(view)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Patients() repository.PatientRepository           { return patientRepo{s} }
func (s *Store) Prescriptions() repository.PrescriptionRepository { return prescriptionRepo{s} }
func (s *Store) Confirmations() repository.ConfirmationRepository { return confirmationRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }

func (s *Store) ReferencingIDs(ctx context.Context, kind repository.Kind, ref string, parentID uuid.UUID) ([]uuid.UUID, error) {
	field, ok := refFields[kind][ref]
	if !ok {
		return nil, fmt.Errorf("unknown reference %s.%s", kind, ref)
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.coll(kind).Find(s.bind(ctx), bson.M{field: parentID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s by %s: %w", kind, ref, err)
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s ids: %w", kind, err)
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("corrupt %s id %q: %w", kind, d.ID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) DeleteRecord(ctx context.Context, kind repository.Kind, id uuid.UUID) (bool, error) {
	if _, ok := collections[kind]; !ok {
		return false, fmt.Errorf("unknown kind %s", kind)
	}
	res, err := s.coll(kind).DeleteOne(s.bind(ctx), bson.M{"_id": id.String()})
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", collections[kind], err)
	}
	return res.DeletedCount > 0, nil
}

// helpers shared by the repositories

func (s *Store) insert(ctx context.Context, kind repository.Kind, doc interface{}) error {
	if _, err := s.coll(kind).InsertOne(s.bind(ctx), doc); err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, kind repository.Kind, filter bson.M, out interface{}) error {
	return mapErr(s.coll(kind).FindOne(s.bind(ctx), filter).Decode(out))
}

func (s *Store) findMany(ctx context.Context, kind repository.Kind, filter bson.M, sortField string, out interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: 1}})
	cur, err := s.coll(kind).Find(s.bind(ctx), filter, opts)
	if err != nil {
		return mapErr(err)
	}
	return cur.All(ctx, out)
}

func (s *Store) updateOne(ctx context.Context, kind repository.Kind, id uuid.UUID, set bson.M) error {
	res, err := s.coll(kind).UpdateOne(s.bind(ctx), bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}

func parseID(raw string) uuid.UUID {
	id, _ := uuid.Parse(raw)
	return id
}

func utc(t time.Time) time.Time {
	return t.UTC()
}
