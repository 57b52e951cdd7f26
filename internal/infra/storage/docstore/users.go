package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"staycal/internal/domain/user"
)

// UserRepository keeps accounts in the users collection of the same store.
type UserRepository struct {
	Store Store
}

func NewUserRepository(store Store) *UserRepository {
	return &UserRepository{Store: store}
}

func (r *UserRepository) ByID(ctx context.Context, id user.ID) (*user.User, error) {
	var doc userDocument
	if err := r.Store.Get(ctx, CollectionUsers, string(id), &doc); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := r.find(ctx, "email", user.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, user.ErrNotFound
	}
	return users[0], nil
}

func (r *UserRepository) ByStatus(ctx context.Context, status user.Status) ([]*user.User, error) {
	return r.find(ctx, "status", string(status))
}

// List returns every account ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	out := make([]*user.User, 0)
	for _, status := range []user.Status{user.StatusPending, user.StatusApproved, user.StatusRejected} {
		batch, err := r.ByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Save upserts the account. An email held by another account is rejected.
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if u == nil || u.ID == "" {
		return user.ErrIDRequired
	}
	email := user.NormalizeEmail(u.Email)
	if email == "" {
		return user.ErrEmailRequired
	}
	existing, err := r.ByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != u.ID:
		return user.ErrEmailAlreadyUsed
	case err != nil && !errors.Is(err, user.ErrNotFound):
		return err
	}
	doc := newUserDocument(u)
	doc.Email = email
	return r.Store.Set(ctx, CollectionUsers, doc.ID, doc)
}

func (r *UserRepository) find(ctx context.Context, field, value string) ([]*user.User, error) {
	var docs []userDocument
	if err := r.Store.Find(ctx, CollectionUsers, field, value, &docs); err != nil {
		return nil, err
	}
	out := make([]*user.User, 0, len(docs))
	for _, d := range docs {
		u, err := d.toDomain()
		if err != nil {
			return nil, fmt.Errorf("docstore: user %s: %w", d.ID, err)
		}
		out = append(out, u)
	}
	return out, nil
}

var _ user.Repository = (*UserRepository)(nil)
