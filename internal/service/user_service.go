package service

import (
	"context"
	"errors"

	"github.com/iliyamo/car-rental/internal/model"
	"github.com/iliyamo/car-rental/internal/repository"
)

type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users.List(ctx)
	return users, translate("list users", err)
}

func (s *UserService) Get(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.store.Users.GetByID(ctx, id)
	return u, translate("get user", err)
}

// Delete removes a user without rental history.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		return r.Users.Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrConflict) {
		return &Error{Kind: ErrConflict, Msg: "user has rentals and cannot be deleted", Err: err}
	}
	return translate("delete user", err)
}
