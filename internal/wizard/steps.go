package wizard

import (
	"context"
	"errors"
	"log"
	"strings"

	"participium/internal/domain"
	"participium/internal/geocoding"
	"participium/internal/locales"
	"participium/internal/sessions"

	"github.com/mymmrac/telego"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// doneWords are accepted as text in place of the Done button.
var doneWords = []string{"done", "fatto"}

func (m *Manager) handleLocation(ctx context.Context, tx *sessions.Tx, s *sessions.Session, message telego.Message, localizer *i18n.Localizer) error {
	chatID := s.ChatID
	var (
		loc     domain.Location
		address string
		reverse bool
	)
	switch {
	case message.Location != nil:
		loc = domain.Location{Latitude: message.Location.Latitude, Longitude: message.Location.Longitude}
		reverse = true
	case strings.TrimSpace(message.Text) != "":
		if parsed, ok := geocoding.ParseCoordinates(message.Text); ok {
			loc = parsed
			reverse = true
			break
		}
		found, name, err := m.geocoder.Geocode(ctx, message.Text)
		if err != nil {
			if !errors.Is(err, geocoding.ErrNotFound) {
				log.Printf("[Wizard Chat:%d] Geocoding failed: %v", chatID, err)
			}
			return m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportAddressNotFound", nil, nil), nil)
		}
		loc, address = found, name
	default:
		return nil
	}

	if err := domain.ValidateLocationWithin(&loc, m.boundary); err != nil {
		log.Printf("[Wizard Chat:%d] Rejected location %.6f, %.6f: %v", chatID, loc.Latitude, loc.Longitude, err)
		return m.send(ctx, chatID, locationErrorMessage(err, localizer), nil)
	}

	if reverse {
		name, err := m.geocoder.Reverse(ctx, loc)
		if err != nil {
			log.Printf("[Wizard Chat:%d] Reverse geocoding failed, continuing without address: %v", chatID, err)
		} else {
			address = name
		}
	}

	s.Draft.Location = &loc
	s.Draft.Address = address
	s.Step = sessions.StepWaitingTitle
	tx.Put(s)
	return m.send(ctx, chatID, locales.GetMessage(localizer, "MsgReportAskTitle", nil, nil), nil)
}

func locationErrorMessage(err error, localizer *i18n.Localizer) string {
	switch domain.ReasonOf(err) {
	case domain.ReasonOutOfBounds:
		return locales.GetMessage(localizer, "MsgReportOutOfBounds", nil, nil)
	case domain.ReasonInvalidCoordinates:
		return locales.GetMessage(localizer, "MsgReportErrorInvalidCoordinates", nil, nil)
	}
	return locales.GetMessage(localizer, "MsgReportLocationError", nil, nil)
}

func (m *Manager) handleTitle(ctx context.Context, tx *sessions.Tx, s *sessions.Session, message telego.Message, localizer *i18n.Localizer) error {
	if message.Text == "" {
		return nil
	}
	title, err := domain.ValidateText("Title", message.Text, domain.MaxTitleLength)
	if err != nil {
		return m.send(ctx, s.ChatID, textErrorMessage(message.Text, "MsgReportTitleEmpty", "MsgReportTitleTooLong", domain.MaxTitleLength, localizer), nil)
	}
	s.Draft.Title = title
	s.Step = sessions.StepWaitingDescription
	tx.Put(s)
	return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportAskDescription", nil, nil), nil)
}

func (m *Manager) handleDescription(ctx context.Context, tx *sessions.Tx, s *sessions.Session, message telego.Message, localizer *i18n.Localizer) error {
	if message.Text == "" {
		return nil
	}
	description, err := domain.ValidateText("Description", message.Text, domain.MaxDescriptionLength)
	if err != nil {
		return m.send(ctx, s.ChatID, textErrorMessage(message.Text, "MsgReportDescriptionEmpty", "MsgReportDescriptionTooLong", domain.MaxDescriptionLength, localizer), nil)
	}
	s.Draft.Description = description
	s.Step = sessions.StepWaitingCategory
	tx.Put(s)
	return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportAskCategory", nil, nil), categoryKeyboard())
}

// textErrorMessage picks the re-prompt for a rejected title or description.
func textErrorMessage(text, emptyID, tooLongID string, max int, localizer *i18n.Localizer) string {
	if strings.TrimSpace(text) == "" {
		return locales.GetMessage(localizer, emptyID, nil, nil)
	}
	return locales.GetMessage(localizer, tooLongID, map[string]interface{}{"Max": max}, nil)
}

func (m *Manager) handlePhotoMessage(ctx context.Context, tx *sessions.Tx, s *sessions.Session, message telego.Message, localizer *i18n.Localizer) error {
	fileID := photoFileID(message)
	if fileID == "" {
		if isDoneWord(message.Text) {
			return m.finishPhotos(ctx, tx, s, localizer)
		}
		return nil
	}

	data := map[string]interface{}{"Count": len(s.Draft.Photos), "Max": m.limits.Max}
	if len(s.Draft.Photos) >= m.limits.Max {
		return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportPhotoLimit", data, nil), doneKeyboard(localizer))
	}

	content, err := m.files.Fetch(ctx, fileID)
	if err != nil {
		log.Printf("[Wizard Chat:%d] Error downloading photo %s: %v", s.ChatID, fileID, err)
		return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportPhotoDownloadError", nil, nil), doneKeyboard(localizer))
	}
	s.Draft.Photos = append(s.Draft.Photos, content)
	tx.Put(s)
	log.Printf("[Wizard Chat:%d] Photo %d/%d received (%d bytes)", s.ChatID, len(s.Draft.Photos), m.limits.Max, len(content))

	data["Count"] = len(s.Draft.Photos)
	if len(s.Draft.Photos) >= m.limits.Max {
		return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportPhotoLimit", data, nil), doneKeyboard(localizer))
	}
	return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportPhotoReceived", data, nil), doneKeyboard(localizer))
}

func (m *Manager) finishPhotos(ctx context.Context, tx *sessions.Tx, s *sessions.Session, localizer *i18n.Localizer) error {
	if len(s.Draft.Photos) == 0 {
		return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportPhotoRequired", nil, nil), doneKeyboard(localizer))
	}
	s.Step = sessions.StepWaitingAnonymous
	tx.Put(s)
	return m.send(ctx, s.ChatID, locales.GetMessage(localizer, "MsgReportAskAnonymous", nil, nil), anonymousKeyboard(localizer))
}

// photoFileID picks the largest size of a photo, or an image sent as a file.
func photoFileID(message telego.Message) string {
	if len(message.Photo) > 0 {
		best := message.Photo[0]
		for _, p := range message.Photo[1:] {
			if p.Width*p.Height > best.Width*best.Height {
				best = p
			}
		}
		return best.FileID
	}
	if message.Document != nil && strings.HasPrefix(message.Document.MimeType, "image/") {
		return message.Document.FileID
	}
	return ""
}

func isDoneWord(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, w := range doneWords {
		if text == w {
			return true
		}
	}
	return false
}
