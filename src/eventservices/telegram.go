package eventservices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ctogod/cleanbot/src/eventmodels"
	"github.com/ctogod/cleanbot/src/utils"
)

// TelegramClient talks to the Bot API for a single chat.
type TelegramClient struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
}

func NewTelegramClient(baseURL, token string, chatID int64) *TelegramClient {
	return &TelegramClient{
		baseURL: baseURL,
		token:   token,
		chatID:  strconv.FormatInt(chatID, 10),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *TelegramClient) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// Post sends text to the chat with Markdown formatting and returns the new message id.
func (c *TelegramClient) Post(ctx context.Context, text string) (eventmodels.MessageHandle, error) {
	req := eventmodels.TelegramSendMessageRequestDTO{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	}

	body, err := utils.PostJSON(ctx, c.client, c.methodURL("sendMessage"), req)
	if err != nil {
		return 0, fmt.Errorf("TelegramClient.Post: %w", apiError(err))
	}

	var dto eventmodels.TelegramResponseDTO[eventmodels.TelegramMessageDTO]
	if err := json.Unmarshal(body, &dto); err != nil {
		return 0, fmt.Errorf("TelegramClient.Post: failed to decode response: %w", err)
	}

	if !dto.OK {
		return 0, fmt.Errorf("TelegramClient.Post: %w: %d %s", eventmodels.ErrTelegramAPI, dto.ErrorCode, dto.Description)
	}

	return eventmodels.MessageHandle(dto.Result.MessageID), nil
}

func (c *TelegramClient) Retract(ctx context.Context, handle eventmodels.MessageHandle) error {
	req := eventmodels.TelegramDeleteMessageRequestDTO{
		ChatID:    c.chatID,
		MessageID: int64(handle),
	}

	body, err := utils.PostJSON(ctx, c.client, c.methodURL("deleteMessage"), req)
	if err != nil {
		return fmt.Errorf("TelegramClient.Retract: %w", apiError(err))
	}

	var dto eventmodels.TelegramResponseDTO[bool]
	if err := json.Unmarshal(body, &dto); err != nil {
		return fmt.Errorf("TelegramClient.Retract: failed to decode response: %w", err)
	}

	if !dto.OK {
		return fmt.Errorf("TelegramClient.Retract: %w: %d %s", eventmodels.ErrTelegramAPI, dto.ErrorCode, dto.Description)
	}

	return nil
}

// GetUpdates returns the updates with an id of at least offset. A 409 means another process is
// polling with the same token and is reported as ErrTelegramConflict.
func (c *TelegramClient) GetUpdates(ctx context.Context, offset int64) ([]eventmodels.TelegramUpdateDTO, error) {
	params := url.Values{}
	params.Add("offset", strconv.FormatInt(offset, 10))
	params.Add("allowed_updates", `["message"]`)

	body, err := utils.GetJSON(ctx, c.client, fmt.Sprintf("%s?%s", c.methodURL("getUpdates"), params.Encode()))
	if err != nil {
		var httpErr *utils.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusConflict {
			return nil, fmt.Errorf("TelegramClient.GetUpdates: %w", eventmodels.ErrTelegramConflict)
		}

		return nil, fmt.Errorf("TelegramClient.GetUpdates: %w", apiError(err))
	}

	var dto eventmodels.TelegramResponseDTO[[]eventmodels.TelegramUpdateDTO]
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("TelegramClient.GetUpdates: failed to decode response: %w", err)
	}

	if !dto.OK {
		return nil, fmt.Errorf("TelegramClient.GetUpdates: %w: %d %s", eventmodels.ErrTelegramAPI, dto.ErrorCode, dto.Description)
	}

	return dto.Result, nil
}

// apiError unwraps the Bot API error envelope from an HTTP error response.
func apiError(err error) error {
	var httpErr *utils.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	var dto eventmodels.TelegramResponseDTO[json.RawMessage]
	if json.Unmarshal(httpErr.Body, &dto) != nil || dto.Description == "" {
		return fmt.Errorf("%w: http %d", eventmodels.ErrTelegramAPI, httpErr.StatusCode)
	}

	return fmt.Errorf("%w: %d %s", eventmodels.ErrTelegramAPI, dto.ErrorCode, dto.Description)
}
