package eventmodels

type TelegramResponseDTO[T any] struct {
	OK          bool   `json:"ok"`
	Result      T      `json:"result"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

type TelegramChatDTO struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type TelegramMessageDTO struct {
	MessageID int64           `json:"message_id"`
	Chat      TelegramChatDTO `json:"chat"`
	Text      string          `json:"text"`
	Date      int64           `json:"date"`
}

type TelegramUpdateDTO struct {
	UpdateID int64               `json:"update_id"`
	Message  *TelegramMessageDTO `json:"message"`
}

type TelegramSendMessageRequestDTO struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type TelegramDeleteMessageRequestDTO struct {
	ChatID    string `json:"chat_id"`
	MessageID int64  `json:"message_id"`
}
