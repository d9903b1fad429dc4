package services

import (
	"context"
	"errors"

	"nutrilog/models"
	"nutrilog/store"

	"go.uber.org/zap"
)

type UserService struct {
	db  store.Store
	log *zap.Logger
}

func NewUserService(db store.Store, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

func userRef(uid string) store.DocRef {
	return store.Root(usersCollection).Doc(uid)
}

// Upsert creates the profile (createdAt + updatedAt) or updates it
// (updatedAt only). The existence check and the write are two calls, so two
// first-time upserts racing for one uid may both take the create branch;
// the later create overwrites the earlier one.
func (s *UserService) Upsert(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	if p.UID == "" {
		return nil, s.fail("saving user profile", errors.New("uid is required"))
	}
	ref := userRef(p.UID)
	data := profileFields(p)
	data["updatedAt"] = store.ServerTimestamp

	_, err := s.db.Get(ctx, ref)
	switch {
	case err == nil:
		err = s.db.Update(ctx, ref, data)
	case isNotFound(err):
		data["createdAt"] = store.ServerTimestamp
		err = s.db.Set(ctx, ref, data)
	}
	if err != nil {
		return nil, s.fail("saving user profile", err, zap.String("uid", p.UID))
	}
	return &p, nil
}

// Get returns nil, nil when the user has no profile yet.
func (s *UserService) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	snap, err := s.db.Get(ctx, userRef(uid))
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("getting user profile", err, zap.String("uid", uid))
	}
	return profileFrom(snap), nil
}

func (s *UserService) fail(op string, err error, fields ...zap.Field) error {
	s.log.Error("error "+op, append(fields, zap.Error(err))...)
	return err
}
