package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// NewestUsersLimit is how many accounts the "newest users" listing returns.
const NewestUsersLimit = 5

// PasswordHasher is the credential hashing primitive used by UserService.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) (bool, error)
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(subjectID string, isAdmin bool) (string, error)
}

// Session is a successful login: the account and its access token.
type Session struct {
	User        *models.User
	AccessToken string
}

// UserUpdate lists the account fields a caller wants to change. Nil fields
// are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	IsAdmin  *bool
}

// UserService handles registration, login and account administration.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates a regular account. An email that is already taken yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.create(ctx, username, email, password, false)
}

// CreateAdmin creates an administrator account. It is reachable only from the
// operator CLI.
func (s *UserService) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.create(ctx, username, email, password, true)
}

func (s *UserService) create(ctx context.Context, username, email, password string, isAdmin bool) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u, err := repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the credentials and issues a session token. Unknown emails and
// wrong passwords both yield common.ErrInvalidCredentials, and an unknown
// email still pays for one hash comparison.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnVerify(ctx, password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &Session{User: user, AccessToken: token}, nil
}

// fallbackDummyHash is a bcrypt hash at the default cost, used when the
// configured hasher cannot produce its own dummy hash.
const fallbackDummyHash = "$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga"

// burnVerify runs one comparison for an unknown email so its response time
// matches a wrong password.
func (s *UserService) burnVerify(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("storefront-dummy-password")
		if err != nil {
			s.logger.Error(ctx, "dummy password hash failed, using fallback", "error", err)
			h = fallbackDummyHash
		}
		s.dummyHash = h
	})
	_, _ = s.hasher.Verify(password, s.dummyHash)
}

// Update applies upd to the account id. A new password is re-hashed. The
// admin flag is only changed when allowAdminChange is set.
func (s *UserService) Update(ctx context.Context, id string, upd UserUpdate, allowAdminChange bool) (*models.User, error) {
	var hashed string
	if upd.Password != nil {
		h, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, err
		}
		hashed = h
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if upd.Username != nil {
			u.Username = *upd.Username
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Password != nil {
			u.PasswordHash = hashed
		}
		if upd.IsAdmin != nil && allowAdminChange {
			u.IsAdmin = *upd.IsAdmin
		}

		updated, err = repo.Update(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// List returns every account, or only the NewestUsersLimit most recent ones
// when newest is set.
func (s *UserService) List(ctx context.Context, newest bool) ([]*models.User, error) {
	limit := 0
	if newest {
		limit = NewestUsersLimit
	}
	users, err := s.repomanager.Users(s.db).List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// Stats counts registrations per month over the last year.
func (s *UserService) Stats(ctx context.Context) ([]models.MonthlyCount, error) {
	since := s.now().AddDate(-1, 0, 0)
	stats, err := s.repomanager.Users(s.db).CountByMonth(ctx, since)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []models.MonthlyCount{}
	}
	return stats, nil
}
