package bot

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"participium/internal/albums"
	"participium/internal/handlers"
	"participium/internal/locales"
	telegoapi "participium/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/ratelimit"
)

// updateTimeout bounds the processing of a single update.
const updateTimeout = 30 * time.Second

// Bot runs the update loop and routes each update to the wizard or a command handler.
type Bot struct {
	bot         telegoapi.BotAPI
	updatesChan <-chan telego.Update
	debug       bool
	handler     handlers.HandlerProvider
	wizard      handlers.WizardInterface
	albums      *albums.Collector
	ratelimiter ratelimit.Limiter
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Bot         telegoapi.BotAPI
	UpdatesChan <-chan telego.Update
	Debug       bool
	Handler     handlers.HandlerProvider
	Wizard      handlers.WizardInterface
}

// New creates a new Bot instance from its dependencies.
func New(deps BotDeps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("handler provider cannot be nil")
	}
	if deps.Wizard == nil {
		return nil, fmt.Errorf("report wizard cannot be nil")
	}

	b := &Bot{
		bot:         deps.Bot,
		updatesChan: deps.UpdatesChan,
		debug:       deps.Debug,
		handler:     deps.Handler,
		wizard:      deps.Wizard,
		ratelimiter: ratelimit.New(20),
	}
	b.albums = albums.NewCollector(albums.DefaultQuietPeriod, albums.DefaultMaxSize, b.replayAlbum)
	return b, nil
}

// handleCommandUpdate runs the handler registered for the message's command.
func (b *Bot) handleCommandUpdate(ctx context.Context, message telego.Message, command string) {
	logPrefix := fmt.Sprintf("[Cmd:%s User:%d]", command, message.From.ID)

	handlerFunc := b.handler.GetCommandHandler(command)
	if handlerFunc == nil {
		log.Printf("%s No handler found", logPrefix)
		localizer := locales.NewLocalizer(languageOf(message.From))
		text := locales.GetMessage(localizer, "MsgErrorUnknownCommand", nil, nil)
		if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(message.Chat.ID), text)); err != nil {
			log.Printf("%s Failed to send unknown command message: %v", logPrefix, err)
		}
		return
	}

	if b.debug {
		log.Printf("%s Executing handler", logPrefix)
	}
	if err := handlerFunc(ctx, b.bot, message); err != nil {
		log.Printf("%s Handler error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s handler error: %w", logPrefix, err))
		return
	}
	if b.debug {
		log.Printf("%s Handler finished successfully", logPrefix)
	}
}

// handleMessage routes a message. Albums sent during a report session are collected
// first so their photos reach the wizard in order.
func (b *Bot) handleMessage(ctx context.Context, message telego.Message) {
	if message.MediaGroupID != "" && b.wizard.HasSession(message.Chat.ID) {
		b.albums.Add(message)
		return
	}
	b.dispatchMessage(ctx, message)
}

// replayAlbum feeds a collected album to the wizard one message at a time.
func (b *Bot) replayAlbum(ctx context.Context, groupID string, messages []telego.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered while replaying album %s: %v\n%s", groupID, r, debug.Stack())
			sentry.CurrentHub().Recover(r)
		}
	}()
	if b.debug {
		log.Printf("[Album:%s] Replaying %d message(s)", groupID, len(messages))
	}
	for _, message := range messages {
		b.dispatchMessage(ctx, message)
	}
}

// dispatchMessage offers the message to the wizard first; commands it declines go to their handlers.
func (b *Bot) dispatchMessage(ctx context.Context, message telego.Message) {
	logPrefix := fmt.Sprintf("[Msg User:%d Chat:%d Msg:%d]", message.From.ID, message.Chat.ID, message.MessageID)

	processed, err := b.wizard.HandleMessage(ctx, message)
	if err != nil {
		log.Printf("%s Wizard error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s wizard error: %w", logPrefix, err))
		return
	}
	if processed {
		if b.debug {
			log.Printf("%s Processed by report wizard", logPrefix)
		}
		return
	}

	if command, ok := parseCommand(message.Text); ok {
		b.handleCommandUpdate(ctx, message, command)
		return
	}
	if b.debug {
		log.Printf("%s Ignoring message outside of a report session", logPrefix)
	}
}

// handleCallbackQuery delegates to the handler, which answers the query.
func (b *Bot) handleCallbackQuery(ctx context.Context, query telego.CallbackQuery) {
	logPrefix := fmt.Sprintf("[Callback User:%d QueryID:%s]", query.From.ID, query.ID)
	if b.debug {
		log.Printf("%s Received callback query with data: %q", logPrefix, query.Data)
	}
	if err := b.handler.HandleCallbackQuery(ctx, b.bot, query); err != nil {
		log.Printf("%s Callback handler error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s callback handler error: %w", logPrefix, err))
	}
}

// processUpdate routes incoming updates to the appropriate handlers.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in processUpdate: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(time.Second * 2)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	switch {
	case update.Message != nil:
		message := *update.Message
		if message.From == nil {
			log.Printf("Ignoring message %d from chat %d without sender", message.MessageID, message.Chat.ID)
			return
		}
		b.handleMessage(processingCtx, message)

	case update.CallbackQuery != nil:
		b.handleCallbackQuery(processingCtx, *update.CallbackQuery)

	default:
		if b.debug {
			log.Printf("Ignoring unhandled update type (ID: %d)", update.UpdateID)
		}
	}
}

// Start consumes updates until ctx is done or the channel closes,
// then waits for in-flight updates to finish.
func (b *Bot) Start(ctx context.Context) {
	log.Println("Listening for updates...")

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			log.Println("Context done, stopping update processing...")
			wg.Wait()
			b.albums.Shutdown()
			log.Println("All update processing finished.")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				log.Println("Updates channel closed.")
				wg.Wait()
				b.albums.Shutdown()
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				b.processUpdate(ctx, up)
			}(update)
		}
	}
}
