package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskflow/internal/apperror"
	"github.com/example/taskflow/internal/logging"
	"github.com/example/taskflow/internal/models"
	"github.com/example/taskflow/internal/repository"
	"github.com/example/taskflow/internal/utils"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgUserNotFound       = "User not found"
	msgEmailTaken         = "Account with this email already exists"
)

// SignupInput carries an already validated registration request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	City     string
	Phone    string
}

// AccountQuery lists accounts a page at a time.
type AccountQuery struct {
	Active   *bool
	Verified *bool
	Search   string
	SortDesc bool
	Page     utils.Pagination
}

// IdentityService runs signup, login, OTP verification and password reset
// against the account store. Every failure is an *apperror.Error or a
// wrapped store error; nothing here formats responses.
type IdentityService struct {
	store    repository.AccountStore
	hasher   utils.PasswordHasher
	notifier OTPNotifier
	log      logging.Logger
	now      func() time.Time

	// absentDigest is verified against when no account matches, so every
	// login attempt pays for one hash comparison.
	absentDigest string
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(store repository.AccountStore, hasher utils.PasswordHasher, notifier OTPNotifier, log logging.Logger) *IdentityService {
	absent, err := hasher.Hash("absent-account")
	if err != nil {
		log.Warn(context.Background(), "could not prepare absent-account digest", "error", err.Error())
	}

	return &IdentityService{
		store:        store,
		hasher:       hasher,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
		absentDigest: absent,
	}
}

// Signup registers an unverified account and sends it a verification code.
// The email pre-check only gives a friendlier error; the store's unique
// index is what actually rejects concurrent duplicates.
func (s *IdentityService) Signup(ctx context.Context, in SignupInput) (*models.Account, error) {
	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("generate otp: %w", err))
	}

	account := &models.Account{
		Name:           in.Name,
		Email:          in.Email,
		City:           in.City,
		Phone:          in.Phone,
		PasswordDigest: digest,
		IsVerified:     false,
		IsActive:       true,
	}
	account.SetOTP(code, utils.OTPExpiryFrom(s.now()))

	if err := s.store.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "account registered", "account_id", account.ID)
	s.deliver(ctx, account, code, PurposeVerification)

	return account, nil
}

// Login checks credentials. Unknown email, inactive or unverified account
// and wrong password all fail identically, and all of them run the hasher.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	digest := s.absentDigest
	if account != nil {
		digest = account.PasswordDigest
	}
	passwordOK := s.hasher.Verify(password, digest)

	if account == nil {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	if !account.IsActive || !account.IsVerified || !passwordOK {
		s.log.Warn(ctx, "login rejected", "account_id", account.ID)
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	return account, nil
}

// VerifyOTP consumes the verification code and marks the account verified.
// A failed attempt leaves the outstanding code untouched.
func (s *IdentityService) VerifyOTP(ctx context.Context, email, code string) (*models.Account, error) {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if account.IsVerified {
		return nil, apperror.AlreadyVerified()
	}

	if err := utils.VerifyOTP(account, code, s.now()); err != nil {
		return nil, err
	}

	account.IsVerified = true
	account.ClearOTP()
	if err := s.store.Save(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "account verified", "account_id", account.ID)
	return account, nil
}

// ResendOTP issues a fresh verification code, replacing any outstanding one.
func (s *IdentityService) ResendOTP(ctx context.Context, email string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if account.IsVerified {
		return apperror.AlreadyVerified()
	}

	return s.reissue(ctx, account, PurposeVerification)
}

// RequestPasswordReset issues a reset code regardless of verification state.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.reissue(ctx, account, PurposePasswordReset)
}

// ResetPassword replaces the password digest once the reset code matches.
// Verification state is not touched.
func (s *IdentityService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := utils.VerifyOTP(account, code, s.now()); err != nil {
		return err
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	account.PasswordDigest = digest
	account.ClearOTP()
	if err := s.store.Save(ctx, account); err != nil {
		return err
	}

	s.log.Info(ctx, "password reset", "account_id", account.ID)
	return nil
}

// Profile returns the account behind a verified session.
func (s *IdentityService) Profile(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts returns one page of accounts and the total match count.
func (s *IdentityService) ListAccounts(ctx context.Context, q AccountQuery) ([]models.Account, int64, error) {
	return s.store.List(ctx, repository.AccountFilter{
		Active:   q.Active,
		Verified: q.Verified,
		Search:   q.Search,
		SortDesc: q.SortDesc,
		Offset:   q.Page.Offset,
		Limit:    q.Page.Limit,
	})
}

func (s *IdentityService) findByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, err
	}
	return account, nil
}

// reissue overwrites the outstanding code. Concurrent calls race and the
// last write wins.
func (s *IdentityService) reissue(ctx context.Context, account *models.Account, purpose OTPPurpose) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return apperror.Internal(fmt.Errorf("generate otp: %w", err))
	}

	account.SetOTP(code, utils.OTPExpiryFrom(s.now()))
	if err := s.store.Save(ctx, account); err != nil {
		return err
	}

	s.deliver(ctx, account, code, purpose)
	return nil
}

// deliver sends the code; delivery problems never fail the operation.
func (s *IdentityService) deliver(ctx context.Context, account *models.Account, code string, purpose OTPPurpose) {
	if err := s.notifier.SendOTP(ctx, account, code, purpose); err != nil {
		s.log.Warn(ctx, "otp delivery failed", "account_id", account.ID, "purpose", string(purpose), "error", err.Error())
	}
}
