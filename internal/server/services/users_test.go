package services

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserSvc(t *testing.T, repo *fakeUsersRepo) (*UserService, *plainHasher, *stubIssuer) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	h := &plainHasher{}
	iss := &stubIssuer{}
	return NewUserService(db, &fakeRepoManager{u: repo}, h, iss, logging.NewNopLogger()), h, iss
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	repo := newFakeUsersRepo()
	s, _, _ := newUserSvc(t, repo)

	u, err := s.Register(context.Background(), "alice1", "alice@example.com", "secret1")
	require.NoError(t, err)

	stored := repo.byID[u.ID]
	assert.Equal(t, "hash:secret1", stored.PasswordHash)
	assert.False(t, stored.IsAdmin)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUsersRepo(&models.User{ID: "u1", Email: "alice@example.com"})
	s, h, _ := newUserSvc(t, repo)

	_, err := s.Register(context.Background(), "alice2", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Zero(t, h.hashCalls, "no hashing when the email is taken")
}

func TestRegister_DuplicateUsernameFromStore(t *testing.T) {
	repo := newFakeUsersRepo()
	repo.createErr = common.ErrorAlreadyExists
	s, _, _ := newUserSvc(t, repo)

	_, err := s.Register(context.Background(), "alice1", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_HashingFailed(t *testing.T) {
	repo := newFakeUsersRepo()
	s, h, _ := newUserSvc(t, repo)
	h.hashErr = common.ErrHashingFailed

	_, err := s.Register(context.Background(), "alice1", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrHashingFailed)
	assert.Empty(t, repo.byID)
}

func TestCreateAdmin(t *testing.T) {
	repo := newFakeUsersRepo()
	s, _, _ := newUserSvc(t, repo)

	u, err := s.CreateAdmin(context.Background(), "admin1", "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, repo.byID[u.ID].IsAdmin)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUsersRepo(&models.User{ID: "u1", Email: "a@example.com", PasswordHash: "hash:pw123", IsAdmin: true})
	s, _, iss := newUserSvc(t, repo)

	sess, err := s.Login(context.Background(), "a@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "token-for-u1", sess.AccessToken)
	assert.Equal(t, "u1", sess.User.ID)
	assert.Equal(t, "u1", iss.subject)
	assert.True(t, iss.admin)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	repo := newFakeUsersRepo(&models.User{ID: "u1", Email: "a@example.com", PasswordHash: "hash:pw123"})
	s, h, _ := newUserSvc(t, repo)

	_, errWrong := s.Login(context.Background(), "a@example.com", "nope1")
	_, errUnknown := s.Login(context.Background(), "b@example.com", "pw123")

	assert.ErrorIs(t, errWrong, common.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, common.ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
	assert.Equal(t, 2, h.verifyCalls, "unknown email still runs a comparison")
}

func TestLogin_UnknownEmailFallsBackToConstantDummyHash(t *testing.T) {
	var buf bytes.Buffer
	repo := newFakeUsersRepo()
	db, _ := newSQLMockDB(t)
	h := &plainHasher{hashErr: errBoom}
	s := NewUserService(db, &fakeRepoManager{u: repo}, h, &stubIssuer{}, logging.NewJSONLogger(&buf, slog.LevelInfo))

	for range 2 {
		_, err := s.Login(context.Background(), "b@example.com", "pw123")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	}

	assert.Equal(t, 1, h.hashCalls)
	assert.Equal(t, 2, h.verifyCalls, "every unknown email still runs a comparison")
	assert.Equal(t, fallbackDummyHash, h.lastHashed)
	assert.Equal(t, 1, strings.Count(buf.String(), "dummy password hash failed"))
}

func TestLogin_HashingFailedIsNotInvalidCredentials(t *testing.T) {
	repo := newFakeUsersRepo(&models.User{ID: "u1", Email: "a@example.com", PasswordHash: "corrupt"})
	s, h, _ := newUserSvc(t, repo)
	h.verifyErr = common.ErrHashingFailed

	_, err := s.Login(context.Background(), "a@example.com", "pw123")
	assert.ErrorIs(t, err, common.ErrHashingFailed)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_StoreError(t *testing.T) {
	repo := newFakeUsersRepo()
	repo.getErr = errBoom
	s, _, _ := newUserSvc(t, repo)

	_, err := s.Login(context.Background(), "a@example.com", "pw123")
	assert.ErrorIs(t, err, errBoom)
}

func TestUpdate_RehashesPasswordAndGuardsAdminFlag(t *testing.T) {
	repo := newFakeUsersRepo(&models.User{ID: "u1", Username: "alice1", Email: "a@example.com", PasswordHash: "hash:old"})
	db, mock := newSQLMockDB(t)
	s := NewUserService(db, &fakeRepoManager{u: repo}, &plainHasher{}, &stubIssuer{}, logging.NewNopLogger())

	mock.ExpectBegin()
	mock.ExpectCommit()
	u, err := s.Update(context.Background(), "u1", UserUpdate{
		Username: strPtr("alice2"),
		Password: strPtr("newpass"),
		IsAdmin:  boolPtr(true),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "alice2", u.Username)
	assert.Equal(t, "hash:newpass", repo.byID["u1"].PasswordHash)
	assert.False(t, repo.byID["u1"].IsAdmin, "non-admins cannot promote themselves")

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = s.Update(context.Background(), "u1", UserUpdate{IsAdmin: boolPtr(true)}, true)
	require.NoError(t, err)
	assert.True(t, repo.byID["u1"].IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFoundRollsBack(t *testing.T) {
	repo := newFakeUsersRepo()
	db, mock := newSQLMockDB(t)
	s := NewUserService(db, &fakeRepoManager{u: repo}, &plainHasher{}, &stubIssuer{}, logging.NewNopLogger())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := s.Update(context.Background(), "ghost", UserUpdate{Username: strPtr("ghost1")}, true)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteGetList(t *testing.T) {
	repo := newFakeUsersRepo(&models.User{ID: "u1"}, &models.User{ID: "u2"})
	s, _, _ := newUserSvc(t, repo)
	ctx := context.Background()

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	list, err := s.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, NewestUsersLimit, repo.listLimit)

	_, err = s.List(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.listLimit)

	require.NoError(t, s.Delete(ctx, "u1"))
	assert.ErrorIs(t, s.Delete(ctx, "u1"), common.ErrorNotFound)
}

func TestStats_LastYear(t *testing.T) {
	repo := newFakeUsersRepo()
	s, _, _ := newUserSvc(t, repo)
	s.now = func() time.Time { return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) }

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Equal(t, time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), repo.since)
}
