// Package linking binds Telegram usernames to platform accounts with one-time codes.
package linking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"time"

	"participium/internal/auth"
	"participium/internal/database"
	"participium/internal/database/models"
	"participium/internal/domain"
)

// CodeTTL is how long an issued code stays redeemable.
const CodeTTL = 10 * time.Minute

// maxCodeAttempts bounds how often Issue draws new digits when they clash with a pending code.
const maxCodeAttempts = 5

// ErrLinkFailed is the single error returned by Verify.
var ErrLinkFailed = errors.New("telegram account linking failed")

var codePattern = regexp.MustCompile(`^\d{6}$`)

// ValidCode reports whether code has the six digit shape.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// Users is the account access the service needs.
type Users interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SetTelegramUsername(ctx context.Context, userID, username string) error
}

// Service issues and redeems link codes.
type Service struct {
	codes    database.LinkCodeRepository
	users    Users
	now      func() time.Time
	generate func() (string, error)
}

// NewService creates a linking service.
func NewService(codes database.LinkCodeRepository, users Users) *Service {
	if codes == nil || users == nil {
		log.Fatal("Link code repository and user repository must be provided to linking.NewService")
	}
	return &Service{codes: codes, users: users, now: time.Now, generate: generateCode}
}

// Issued is a freshly generated code.
type Issued struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issue generates a code for userID, replacing any unused one.
func (s *Service) Issue(ctx context.Context, userID string) (Issued, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Issued{}, domain.Unauthorized("User not found")
		}
		return Issued{}, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if !auth.Can(user.Role, auth.PermIssueLinkCode) {
		return Issued{}, domain.InsufficientRights("Only citizens can link a Telegram account")
	}

	now := s.now()
	lc := models.LinkCode{
		UserID:    user.ID,
		ExpiresAt: now.Add(CodeTTL),
		CreatedAt: now,
	}
	for attempt := 1; ; attempt++ {
		code, err := s.generate()
		if err != nil {
			return Issued{}, fmt.Errorf("failed to generate link code: %w", err)
		}
		lc.Code = code
		err = s.codes.SaveLinkCode(ctx, lc)
		if err == nil {
			break
		}
		if !errors.Is(err, database.ErrDuplicateLinkCode) || attempt == maxCodeAttempts {
			return Issued{}, fmt.Errorf("failed to save link code: %w", err)
		}
		log.Printf("[Linking] Code clashed with a pending one, drawing again (attempt %d)", attempt)
	}
	log.Printf("[Linking] Issued link code for user %s, expires %s", user.ID, lc.ExpiresAt.Format(time.RFC3339))
	return Issued{Code: lc.Code, ExpiresAt: lc.ExpiresAt}, nil
}

// Verify redeems code and binds telegramUsername to its owner.
// Every failure is reported as ErrLinkFailed.
func (s *Service) Verify(ctx context.Context, code, telegramUsername string) (string, error) {
	if !ValidCode(code) || database.NormalizeTelegramUsername(telegramUsername) == "" {
		return "", ErrLinkFailed
	}
	userID, err := s.codes.RedeemLinkCode(ctx, code, s.now())
	if err != nil {
		if !errors.Is(err, database.ErrLinkCodeInvalid) {
			log.Printf("[Linking] Error redeeming code: %v", err)
		}
		return "", ErrLinkFailed
	}
	if err := s.users.SetTelegramUsername(ctx, userID, telegramUsername); err != nil {
		log.Printf("[Linking] Error binding @%s to user %s: %v", telegramUsername, userID, err)
		return "", ErrLinkFailed
	}
	log.Printf("[Linking] Bound @%s to user %s", database.NormalizeTelegramUsername(telegramUsername), userID)
	return userID, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
