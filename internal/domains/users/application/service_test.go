package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/domain"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/ports"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	clone := *user
	if clone.ID == 0 {
		f.nextID++
		clone.ID = f.nextID
	}
	f.users[clone.Username] = &clone
	return &clone, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := f.users[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var list []*domain.User
	for _, u := range f.users {
		clone := *u
		list = append(list, &clone)
	}
	return list, nil
}

type fakeSessionStore struct {
	byUser  map[string]string
	byToken map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byUser: map[string]string{}, byToken: map[string]string{}}
}

func (f *fakeSessionStore) Save(_ context.Context, username, token string) error {
	f.byUser[username] = token
	f.byToken[token] = username
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, username string) error {
	if token, ok := f.byUser[username]; ok {
		delete(f.byToken, token)
	}
	delete(f.byUser, username)
	return nil
}

func (f *fakeSessionStore) Lookup(_ context.Context, token string) (string, error) {
	if username, ok := f.byToken[token]; ok {
		return username, nil
	}
	return "", ports.ErrSessionNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	svc := NewService(repo, sessions)

	user, err := domain.NewUser("alice", "alice@example.com", "secret", domain.RoleCustomer)
	require.NoError(t, err)
	created, err := svc.Register(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, "alice", created.Username)
	require.Equal(t, domain.RoleCustomer, created.Role)

	token, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sessions.byUser["alice"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, newFakeSessionStore())

	_, err := svc.Login(context.Background(), "missing", "secret")
	require.ErrorIs(t, err, ErrAuthentication)

	user, err := domain.NewUser("bob", "", "secret", "")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), user)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "bob", "wrong")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestVerifyToken(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	svc := NewService(repo, sessions)

	user, err := domain.NewUser("carol", "carol@example.com", "secret", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), user)
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "carol", "secret")
	require.NoError(t, err)

	verified, err := svc.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "carol", verified.Username)
	require.True(t, verified.IsAdmin())

	_, err = svc.VerifyToken(context.Background(), "bogus")
	require.ErrorIs(t, err, ErrInvalidToken)

	svc.Logout(context.Background(), "carol")
	_, err = svc.VerifyToken(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
