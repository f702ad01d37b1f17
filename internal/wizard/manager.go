// Package wizard drives the Telegram conversation that collects a report step by step.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"participium/internal/database"
	"participium/internal/database/models"
	"participium/internal/domain"
	"participium/internal/geocoding"
	"participium/internal/locales"
	"participium/internal/sessions"
	telegoapi "participium/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// ReportCreator submits a finished draft.
type ReportCreator interface {
	CreateReport(ctx context.Context, reporterID string, draft domain.Draft, limits domain.PhotoLimits) (*domain.Report, error)
}

// UserFinder resolves a Telegram username to a platform account.
type UserFinder interface {
	GetUserByTelegramUsername(ctx context.Context, username string) (*models.User, error)
}

// Manager handles the report wizard.
type Manager struct {
	bot      telegoapi.BotAPI
	sessions sessions.Store
	reports  ReportCreator
	users    UserFinder
	geocoder geocoding.Geocoder
	files    telegoapi.FileFetcher
	boundary domain.Boundary
	limits   domain.PhotoLimits
}

// NewManager creates a new wizard manager.
func NewManager(
	bot telegoapi.BotAPI,
	store sessions.Store,
	reports ReportCreator,
	users UserFinder,
	geocoder geocoding.Geocoder,
	files telegoapi.FileFetcher,
) *Manager {
	if bot == nil {
		log.Fatal("Wizard Manager: BotAPI instance is nil")
	}
	if store == nil {
		log.Fatal("Wizard Manager: Session store is nil")
	}
	if reports == nil {
		log.Fatal("Wizard Manager: Report creator is nil")
	}
	if users == nil {
		log.Fatal("Wizard Manager: User finder is nil")
	}
	if geocoder == nil {
		log.Fatal("Wizard Manager: Geocoder is nil")
	}
	if files == nil {
		log.Fatal("Wizard Manager: File fetcher is nil")
	}
	return &Manager{
		bot:      bot,
		sessions: store,
		reports:  reports,
		users:    users,
		geocoder: geocoder,
		files:    files,
		boundary: domain.TurinBoundary,
		limits:   domain.BotPhotoLimits,
	}
}

// HasSession reports whether chatID is in the middle of a report.
func (m *Manager) HasSession(chatID int64) bool {
	return m.sessions.Exists(chatID)
}

// HandleNewReport starts a wizard for the sender of message, replacing any session in progress.
func (m *Manager) HandleNewReport(ctx context.Context, message telego.Message) error {
	chatID := message.Chat.ID
	localizer := localizerFor(message.From)
	if message.From == nil || message.From.Username == "" {
		return m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportUsernameRequired", nil, nil), nil)
	}
	username := message.From.Username

	user, err := m.users.GetUserByTelegramUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			log.Printf("[Wizard Chat:%d] @%s is not linked to any account", chatID, username)
			return m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportAccessDenied", nil, nil), nil)
		}
		_ = m.send(ctx, chatID, locales.GetMessage(localizer, "MsgErrorGeneral", nil, nil), nil)
		return fmt.Errorf("failed to look up @%s: %w", username, err)
	}

	tx := m.sessions.Lock(chatID)
	defer tx.Unlock()
	if prev := tx.Session(); prev != nil {
		log.Printf("[Wizard Chat:%d] Replacing session at step %s", chatID, prev.Step)
	}
	tx.Put(sessions.New(chatID, user.ID, username))
	log.Printf("[Wizard Chat:%d] Started report for user %s (@%s)", chatID, user.ID, username)
	return m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportAskLocation", nil, nil), nil)
}

// HandleCancel discards the session of the chat, if any.
func (m *Manager) HandleCancel(ctx context.Context, message telego.Message) error {
	chatID := message.Chat.ID
	localizer := localizerFor(message.From)

	tx := m.sessions.Lock(chatID)
	defer tx.Unlock()
	if tx.Session() == nil {
		return m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportNothingToCancel", nil, nil), nil)
	}
	tx.Delete()
	log.Printf("[Wizard Chat:%d] Cancelled by user", chatID)
	return m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportCancelled", nil, nil), nil)
}

// HandleMessage feeds message to the chat's wizard.
// Returns true if the chat has a session and the message was consumed, false otherwise.
// Commands are never consumed.
func (m *Manager) HandleMessage(ctx context.Context, message telego.Message) (processed bool, err error) {
	chatID := message.Chat.ID
	if strings.HasPrefix(message.Text, "/") || !m.sessions.Exists(chatID) {
		return false, nil
	}

	tx := m.sessions.Lock(chatID)
	defer tx.Unlock()
	s := tx.Session()
	if s == nil {
		return false, nil
	}
	localizer := localizerFor(message.From)

	switch s.Step {
	case sessions.StepWaitingLocation:
		err = m.handleLocation(ctx, tx, s, message, localizer)
	case sessions.StepWaitingTitle:
		err = m.handleTitle(ctx, tx, s, message, localizer)
	case sessions.StepWaitingDescription:
		err = m.handleDescription(ctx, tx, s, message, localizer)
	case sessions.StepWaitingPhotos:
		err = m.handlePhotoMessage(ctx, tx, s, message, localizer)
	default:
		// Category, anonymity and confirmation are answered with buttons.
	}
	return true, err
}

func (m *Manager) send(ctx context.Context, chatID int64, text string, markup telego.ReplyMarkup) error {
	params := tu.Message(tu.ID(chatID), text)
	if markup != nil {
		params = params.WithReplyMarkup(markup)
	}
	if _, err := m.bot.SendMessage(ctx, params); err != nil {
		log.Printf("[Wizard Chat:%d] Error sending message: %v", chatID, err)
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (m *Manager) sendMarkdown(ctx context.Context, chatID int64, text string, markup telego.ReplyMarkup) error {
	params := tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeMarkdownV2)
	if markup != nil {
		params = params.WithReplyMarkup(markup)
	}
	if _, err := m.bot.SendMessage(ctx, params); err != nil {
		log.Printf("[Wizard Chat:%d] Error sending summary: %v", chatID, err)
		return fmt.Errorf("failed to send summary to chat %d: %w", chatID, err)
	}
	return nil
}

func localizerFor(user *telego.User) *i18n.Localizer {
	lang := locales.DefaultLanguage
	if user != nil && user.LanguageCode != "" {
		lang = user.LanguageCode
	}
	return locales.NewLocalizer(lang)
}
