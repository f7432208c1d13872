package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"onlinecourse/internal/config"
	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthService(t *testing.T, accounts *MockAccountRepository, learners *MockLearnerRepository, c domain.Cache) AuthService {
	t.Helper()
	svc, err := NewAuthService(accounts, learners, &fakeTxManager{}, c, validation.NewValidator(), config.AuthConfig{
		SecretKey:  testSecret,
		SessionTTL: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestNewAuthService_RejectsShortSecret(t *testing.T) {
	_, err := NewAuthService(nil, nil, nil, nil, validation.NewValidator(), config.AuthConfig{SecretKey: "short"})
	assert.Error(t, err)
}

func TestAuthService_Register_Success(t *testing.T) {
	accounts := new(MockAccountRepository)
	learners := new(MockLearnerRepository)
	svc := newTestAuthService(t, accounts, learners, newMemoryCache())

	created := &domain.Account{}
	accounts.On("GetByUsername", mock.Anything, "alice").Return(nil, nil)
	accounts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil).Run(func(args mock.Arguments) {
		*created = *args.Get(1).(*domain.Account)
	})
	accounts.On("GetByID", mock.Anything, mock.Anything).Return(created, nil)
	learners.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Learner) bool {
		return l.Occupation == domain.OccupationStudent && l.AccountID != ""
	})).Return(nil)

	account, token, err := svc.Register(context.Background(), dto.RegistrationForm{
		Username: "  alice ", FirstName: "Alice", LastName: "Liddell", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.NotEqual(t, "secret", account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret")))

	identity, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, identity.AccountID)
	assert.Equal(t, "alice", identity.Username)
	assert.False(t, identity.IsStaff)

	accounts.AssertExpectations(t)
	learners.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestAuthService(t, accounts, new(MockLearnerRepository), nil)

	accounts.On("GetByUsername", mock.Anything, "alice").Return(&domain.Account{ID: "a1", Username: "alice"}, nil)

	_, _, err := svc.Register(context.Background(), dto.RegistrationForm{Username: "alice", Password: "secret"})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeDuplicateUsername))
	assert.Contains(t, err.Error(), "Username already exists.")
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	svc := newTestAuthService(t, new(MockAccountRepository), new(MockLearnerRepository), nil)

	_, _, err := svc.Register(context.Background(), dto.RegistrationForm{Username: "   "})
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ByField()
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "psw")
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.Account{ID: "01HZX0000000000000000000AC", Username: "bob", PasswordHash: string(hash), IsStaff: true}

	tests := []struct {
		name     string
		account  *domain.Account
		password string
		wantCode domain.ErrorCode
	}{
		{name: "Success", account: stored, password: "secret"},
		{name: "WrongPassword", account: stored, password: "nope", wantCode: domain.CodeInvalidCredentials},
		{name: "UnknownUser", account: nil, password: "secret", wantCode: domain.CodeInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(MockAccountRepository)
			svc := newTestAuthService(t, accounts, new(MockLearnerRepository), nil)
			if tt.account == nil {
				accounts.On("GetByUsername", mock.Anything, "bob").Return(nil, nil)
			} else {
				accounts.On("GetByUsername", mock.Anything, "bob").Return(tt.account, nil)
				accounts.On("GetByID", mock.Anything, tt.account.ID).Return(tt.account, nil)
			}

			account, token, err := svc.Login(context.Background(), dto.LoginForm{Username: "bob", Password: tt.password})
			if tt.wantCode != "" {
				assert.True(t, domain.HasCode(err, tt.wantCode))
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, stored.ID, account.ID)

			identity, err := svc.Authenticate(context.Background(), token)
			require.NoError(t, err)
			assert.True(t, identity.IsStaff)
		})
	}
}

func TestAuthService_LogoutRevokesSession(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	accounts := new(MockAccountRepository)
	accounts.On("GetByUsername", mock.Anything, "bob").Return(&domain.Account{ID: "acc1", Username: "bob", PasswordHash: string(hash)}, nil)
	c := newMemoryCache()
	svc := newTestAuthService(t, accounts, new(MockLearnerRepository), c)

	_, token, err := svc.Login(context.Background(), dto.LoginForm{Username: "bob", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	assert.NoError(t, svc.Logout(context.Background(), "garbage"))
	assert.NoError(t, svc.Logout(context.Background(), ""))
}

func TestAuthService_Authenticate_FailsClosedOnCacheError(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	accounts := new(MockAccountRepository)
	accounts.On("GetByUsername", mock.Anything, "bob").Return(&domain.Account{ID: "acc1", Username: "bob", PasswordHash: string(hash)}, nil)
	c := newMemoryCache()
	svc := newTestAuthService(t, accounts, new(MockLearnerRepository), c)

	_, token, err := svc.Login(context.Background(), dto.LoginForm{Username: "bob", Password: "secret"})
	require.NoError(t, err)

	c.err = errors.New("redis down")
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestAuthService_Authenticate_RejectsForeignTokens(t *testing.T) {
	svc := newTestAuthService(t, new(MockAccountRepository), new(MockLearnerRepository), nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	accounts := new(MockAccountRepository)
	accounts.On("GetByUsername", mock.Anything, "bob").Return(&domain.Account{ID: "acc1", Username: "bob", PasswordHash: string(hash)}, nil)
	other, err := NewAuthService(accounts, nil, nil, nil, validation.NewValidator(), config.AuthConfig{SecretKey: "fedcba9876543210fedcba9876543210"})
	require.NoError(t, err)

	_, token, err := other.Login(context.Background(), dto.LoginForm{Username: "bob", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	_, err = svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestAuthService_Authenticate_RequiresExistingAccount(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	stored := &domain.Account{ID: "acc1", Username: "bob", PasswordHash: string(hash), IsStaff: true}

	tests := []struct {
		name      string
		account   *domain.Account
		repoErr   error
		wantErr   error
		wantStaff bool
	}{
		{name: "Exists", account: stored, wantStaff: true},
		{name: "StaffRevoked", account: &domain.Account{ID: "acc1", Username: "bob"}},
		{name: "Deleted", wantErr: ErrInvalidSessionToken},
		{name: "LookupFails", repoErr: errors.New("ORA-03113"), wantErr: ErrInvalidSessionToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(MockAccountRepository)
			accounts.On("GetByUsername", mock.Anything, "bob").Return(stored, nil)
			if tt.account != nil {
				accounts.On("GetByID", mock.Anything, "acc1").Return(tt.account, nil)
			} else {
				accounts.On("GetByID", mock.Anything, "acc1").Return(nil, tt.repoErr)
			}
			svc := newTestAuthService(t, accounts, new(MockLearnerRepository), newMemoryCache())

			_, token, err := svc.Login(context.Background(), dto.LoginForm{Username: "bob", Password: "secret"})
			require.NoError(t, err)

			identity, err := svc.Authenticate(context.Background(), token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, identity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "acc1", identity.AccountID)
			assert.Equal(t, tt.wantStaff, identity.IsStaff)
		})
	}
}
