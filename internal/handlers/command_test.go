package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"participium/internal/linking"
	"participium/internal/locales"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockBot is a mock implementing the telegoapi.BotAPI interface
type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*telego.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) GetMe(ctx context.Context) (*telego.User, error) {
	args := m.Called(ctx)
	if user, ok := args.Get(0).(*telego.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBot) AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBot) GetFile(ctx context.Context, params *telego.GetFileParams) (*telego.File, error) {
	args := m.Called(ctx, params)
	if f, ok := args.Get(0).(*telego.File); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) FileDownloadURL(filepath string) string {
	return m.Called(filepath).String(0)
}

// MockUserActionLogger is a mock for UserActionLogger
type MockUserActionLogger struct {
	mock.Mock
}

func (m *MockUserActionLogger) LogUserAction(ctx context.Context, userID int64, action string, details map[string]any) error {
	args := m.Called(ctx, userID, action, details)
	return args.Error(0)
}

// MockTracker is a mock for TelegramUserTracker
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) UpdateTelegramUser(ctx context.Context, userID int64, username, firstName, lastName, action string) error {
	args := m.Called(ctx, userID, username, firstName, lastName, action)
	return args.Error(0)
}

// MockWizard is a mock implementing WizardInterface
type MockWizard struct {
	mock.Mock
}

func (m *MockWizard) HasSession(chatID int64) bool {
	return m.Called(chatID).Bool(0)
}

func (m *MockWizard) HandleNewReport(ctx context.Context, message telego.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockWizard) HandleCancel(ctx context.Context, message telego.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockWizard) HandleMessage(ctx context.Context, message telego.Message) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

func (m *MockWizard) HandleCallbackQuery(ctx context.Context, query telego.CallbackQuery) (bool, error) {
	args := m.Called(ctx, query)
	return args.Bool(0), args.Error(1)
}

// MockLinker is a mock implementing LinkVerifier
type MockLinker struct {
	mock.Mock
}

func (m *MockLinker) Verify(ctx context.Context, code, telegramUsername string) (string, error) {
	args := m.Called(ctx, code, telegramUsername)
	return args.String(0), args.Error(1)
}

// --- Suite ---

type testHandlerSuite struct {
	mockBot          *MockBot
	mockActionLogger *MockUserActionLogger
	mockTracker      *MockTracker
	mockWizard       *MockWizard
	mockLinker       *MockLinker
	handler          *MessageHandler
}

func setupTestHandlerSuite(t *testing.T) *testHandlerSuite {
	t.Helper()
	locales.Init("en")
	s := &testHandlerSuite{
		mockBot:          new(MockBot),
		mockActionLogger: new(MockUserActionLogger),
		mockTracker:      new(MockTracker),
		mockWizard:       new(MockWizard),
		mockLinker:       new(MockLinker),
	}
	s.handler = NewMessageHandler(s.mockActionLogger, s.mockTracker, s.mockWizard, s.mockLinker)
	return s
}

// expectActivity sets up the tracker and logger calls made by RecordUserActivity.
func (s *testHandlerSuite) expectActivity(user *telego.User, action string) {
	s.mockTracker.On("UpdateTelegramUser", mock.Anything, user.ID, user.Username, user.FirstName, user.LastName, action).Return(nil).Once()
	s.mockActionLogger.On("LogUserAction", mock.Anything, user.ID, action, mock.Anything).Return(nil).Once()
}

// captureSend expects one SendMessage call and returns a pointer that receives its params.
func (s *testHandlerSuite) captureSend() **telego.SendMessageParams {
	var captured *telego.SendMessageParams
	s.mockBot.On("SendMessage", mock.Anything, mock.AnythingOfType("*telego.SendMessageParams")).
		Run(func(args mock.Arguments) {
			if params, ok := args.Get(1).(*telego.SendMessageParams); ok {
				captured = params
			}
		}).
		Return(&telego.Message{}, nil).Once()
	return &captured
}

func testUser() *telego.User {
	return &telego.User{ID: 98765, Username: "mario_rossi", FirstName: "Mario", LastName: "Rossi", LanguageCode: "en"}
}

func testMessage(text string) telego.Message {
	return telego.Message{
		MessageID: 100,
		From:      testUser(),
		Chat:      telego.Chat{ID: 54321},
		Date:      time.Now().Unix(),
		Text:      text,
	}
}

// --- Tests ---

func TestGetCommandHandler(t *testing.T) {
	s := setupTestHandlerSuite(t)
	for _, cmd := range []string{"start", "help", "newreport", "link", "cancel"} {
		assert.NotNil(t, s.handler.GetCommandHandler(cmd), cmd)
	}
	assert.Nil(t, s.handler.GetCommandHandler("review"))
}

func TestHandleStart(t *testing.T) {
	ctx := context.Background()
	message := testMessage("/start")

	t.Run("Success", func(t *testing.T) {
		// Arrange
		s := setupTestHandlerSuite(t)
		s.expectActivity(message.From, ActionCommandStart)
		var capturedCommands *telego.SetMyCommandsParams
		s.mockBot.On("SetMyCommands", ctx, mock.AnythingOfType("*telego.SetMyCommandsParams")).
			Run(func(args mock.Arguments) { capturedCommands = args.Get(1).(*telego.SetMyCommandsParams) }).
			Return(nil).Once()
		sent := s.captureSend()

		// Act
		err := s.handler.HandleStart(ctx, s.mockBot, message)

		// Assert
		assert.NoError(t, err)
		s.mockBot.AssertExpectations(t)
		s.mockTracker.AssertExpectations(t)
		s.mockActionLogger.AssertExpectations(t)
		if assert.NotNil(t, capturedCommands) {
			assert.Len(t, capturedCommands.Commands, 5)
			assert.Equal(t, "newreport", capturedCommands.Commands[2].Command)
			assert.Equal(t, "Create a new report", capturedCommands.Commands[2].Description)
		}
		if assert.NotNil(t, *sent) {
			assert.Equal(t, telegoutil.ID(message.Chat.ID), (*sent).ChatID)
			assert.True(t, strings.HasPrefix((*sent).Text, "Welcome to Participium!"))
		}
	})

	t.Run("SetMyCommandsFails", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.mockBot.On("SetMyCommands", ctx, mock.Anything).Return(errors.New("telegram down")).Once()
		sent := s.captureSend()

		err := s.handler.HandleStart(ctx, s.mockBot, message)

		assert.Error(t, err)
		assert.Equal(t, "An error occurred. Please try again.", (*sent).Text)
		s.mockActionLogger.AssertNotCalled(t, "LogUserAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleHelp(t *testing.T) {
	ctx := context.Background()
	s := setupTestHandlerSuite(t)
	message := testMessage("/help")

	localizer := locales.NewLocalizer("en")
	var expected strings.Builder
	expected.WriteString(locales.GetMessage(localizer, "MsgHelpHeader", nil, nil) + "\n")
	for _, cmd := range s.handler.commands {
		expected.WriteString(fmt.Sprintf("/%s - %s\n", cmd.Command, locales.GetMessage(localizer, cmd.Description, nil, nil)))
	}
	s.expectActivity(message.From, ActionCommandHelp)
	sent := s.captureSend()

	err := s.handler.HandleHelp(ctx, s.mockBot, message)

	assert.NoError(t, err)
	assert.Equal(t, expected.String(), (*sent).Text)
	assert.Contains(t, (*sent).Text, "/link - Link your Telegram account with a code")
}

func TestHandleNewReportDelegates(t *testing.T) {
	ctx := context.Background()
	message := testMessage("/newreport")

	t.Run("Success", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectActivity(message.From, ActionCommandNewReport)
		s.mockWizard.On("HandleNewReport", ctx, message).Return(nil).Once()

		err := s.handler.HandleNewReport(ctx, s.mockBot, message)

		assert.NoError(t, err)
		s.mockWizard.AssertExpectations(t)
		s.mockBot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("WizardError", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectActivity(message.From, ActionCommandNewReport)
		s.mockWizard.On("HandleNewReport", ctx, message).Return(errors.New("db down")).Once()
		sent := s.captureSend()

		err := s.handler.HandleNewReport(ctx, s.mockBot, message)

		assert.EqualError(t, err, "db down")
		assert.Equal(t, "An error occurred. Please try again.", (*sent).Text)
	})
}

func TestHandleCancel(t *testing.T) {
	ctx := context.Background()
	s := setupTestHandlerSuite(t)
	message := testMessage("/cancel")
	s.expectActivity(message.From, ActionCommandCancel)
	s.mockWizard.On("HasSession", message.Chat.ID).Return(true).Once()
	s.mockWizard.On("HandleCancel", ctx, message).Return(nil).Once()

	assert.NoError(t, s.handler.HandleCancel(ctx, s.mockBot, message))
	s.mockWizard.AssertExpectations(t)
}

func TestHandleLink(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		text         string
		noUsername   bool
		verifyResult error
		wantVerify   bool
		wantText     string
	}{
		{name: "NoUsername", text: "/link 123456", noUsername: true, wantText: "You must have a Telegram username set in your profile to link the account."},
		{name: "MissingCode", text: "/link", wantText: "Correct format: /link <code>\nGenerate the code from your profile on the Participium platform."},
		{name: "TooManyArgs", text: "/link 123 456", wantText: "Correct format: /link <code>\nGenerate the code from your profile on the Participium platform."},
		{name: "NonNumeric", text: "/link 12a456", wantText: "The code must be 6 numeric digits."},
		{name: "TooShort", text: "/link 12345", wantText: "The code must be 6 numeric digits."},
		{name: "VerifyFails", text: "/link 123456", verifyResult: linking.ErrLinkFailed, wantVerify: true, wantText: "Error linking the account. Try again later."},
		{name: "Success", text: "/link 123456", wantVerify: true, wantText: "Your Telegram account has been linked successfully! You can now create reports with /newreport."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s := setupTestHandlerSuite(t)
			message := testMessage(tt.text)
			if tt.noUsername {
				message.From.Username = ""
			}
			if tt.wantVerify {
				s.mockLinker.On("Verify", ctx, "123456", "mario_rossi").Return("u-1", tt.verifyResult).Once()
				s.expectActivity(message.From, ActionCommandLink)
			}
			sent := s.captureSend()

			// Act
			err := s.handler.HandleLink(ctx, s.mockBot, message)

			// Assert
			assert.NoError(t, err)
			assert.Equal(t, tt.wantText, (*sent).Text)
			s.mockLinker.AssertExpectations(t)
			if !tt.wantVerify {
				s.mockLinker.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandleCallbackQuery(t *testing.T) {
	ctx := context.Background()
	query := telego.CallbackQuery{ID: "q1", From: *testUser(), Data: "cat_1"}

	t.Run("ProcessedByWizard", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.mockBot.On("AnswerCallbackQuery", ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: "q1"}).Return(nil).Once()
		s.mockWizard.On("HandleCallbackQuery", ctx, query).Return(true, nil).Once()
		s.expectActivity(&query.From, ActionWizardCallback)

		assert.NoError(t, s.handler.HandleCallbackQuery(ctx, s.mockBot, query))
		s.mockBot.AssertExpectations(t)
		s.mockActionLogger.AssertExpectations(t)
	})

	t.Run("UnknownIsStillAnswered", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.mockBot.On("AnswerCallbackQuery", ctx, mock.Anything).Return(nil).Once()
		s.mockWizard.On("HandleCallbackQuery", ctx, query).Return(false, nil).Once()

		assert.NoError(t, s.handler.HandleCallbackQuery(ctx, s.mockBot, query))
		s.mockBot.AssertExpectations(t)
		s.mockActionLogger.AssertNotCalled(t, "LogUserAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WizardError", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.mockBot.On("AnswerCallbackQuery", ctx, mock.Anything).Return(errors.New("too old")).Once()
		s.mockWizard.On("HandleCallbackQuery", ctx, query).Return(true, errors.New("send failed")).Once()

		assert.EqualError(t, s.handler.HandleCallbackQuery(ctx, s.mockBot, query), "send failed")
	})
}

func TestRecordUserActivityContinuesOnTrackerError(t *testing.T) {
	s := setupTestHandlerSuite(t)
	user := testUser()
	s.mockTracker.On("UpdateTelegramUser", mock.Anything, user.ID, user.Username, user.FirstName, user.LastName, "x").Return(errors.New("db")).Once()
	s.mockActionLogger.On("LogUserAction", mock.Anything, user.ID, "x", map[string]any{"k": 1}).Return(nil).Once()

	s.handler.RecordUserActivity(context.Background(), user, "x", map[string]interface{}{"k": 1})

	s.mockActionLogger.AssertExpectations(t)
}
