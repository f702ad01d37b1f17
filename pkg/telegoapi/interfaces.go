package telegoapi

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// BotAPI defines the interface for bot operations used by various packages.
// This allows using both the real telego.Bot and mocks.
type BotAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	GetMe(ctx context.Context) (*telego.User, error)
	SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error

	// Needed to download photos sent during the report wizard
	GetFile(ctx context.Context, params *telego.GetFileParams) (*telego.File, error)
	FileDownloadURL(filepath string) string
}

// FileFetcher downloads the content of a Telegram file.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}

// BotFileFetcher downloads files through the Bot API file endpoint.
type BotFileFetcher struct {
	bot      BotAPI
	download func(url string) ([]byte, error)
}

// NewBotFileFetcher creates a fetcher backed by bot.
func NewBotFileFetcher(bot BotAPI) *BotFileFetcher {
	return &BotFileFetcher{bot: bot, download: tu.DownloadFile}
}

// Fetch resolves fileID to its download path and reads it.
func (f *BotFileFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	file, err := f.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("file %s has no download path", fileID)
	}
	data, err := f.download(f.bot.FileDownloadURL(file.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	return data, nil
}
