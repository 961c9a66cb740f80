package eventproducers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

const (
	StartCommand  = "/start"
	StopCommand   = "/stop"
	StatusCommand = "/status"
)

// Controller is the monitoring session driven by chat commands. Start and Stop report whether
// they changed state.
type Controller interface {
	Start() bool
	Stop() bool
	Status() string
}

type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64) ([]eventmodels.TelegramUpdateDTO, error)
}

type MessagePoster interface {
	Post(ctx context.Context, text string) (eventmodels.MessageHandle, error)
}

// TelegramCommandPoller long-polls the bot for operator commands from a single chat.
type TelegramCommandPoller struct {
	wg         *sync.WaitGroup
	updates    UpdateSource
	replies    MessagePoster
	controller Controller
	chatID     int64
	interval   time.Duration
	offset     int64
}

func NewTelegramCommandPoller(wg *sync.WaitGroup, updates UpdateSource, replies MessagePoster, controller Controller, chatID int64, interval time.Duration) *TelegramCommandPoller {
	return &TelegramCommandPoller{
		wg:         wg,
		updates:    updates,
		replies:    replies,
		controller: controller,
		chatID:     chatID,
		interval:   interval,
	}
}

// parseCommand returns the lower-cased command word of text without any @bot suffix.
func parseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}

	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}

	return strings.ToLower(cmd)
}

func (p *TelegramCommandPoller) reply(ctx context.Context, text string) {
	if _, err := p.replies.Post(ctx, text); err != nil {
		log.Errorf("TelegramCommandPoller: failed to reply: %v", err)
	}
}

func (p *TelegramCommandPoller) handleUpdate(ctx context.Context, update eventmodels.TelegramUpdateDTO) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	if msg.Chat.ID != p.chatID {
		log.Debugf("TelegramCommandPoller: ignoring message from chat %d", msg.Chat.ID)
		return
	}

	switch parseCommand(msg.Text) {
	case StartCommand:
		if p.controller.Start() {
			log.Info("TelegramCommandPoller: monitoring started by operator")
			p.reply(ctx, "Monitoring started")
		}
	case StopCommand:
		if p.controller.Stop() {
			log.Info("TelegramCommandPoller: monitoring stopped by operator")
			p.reply(ctx, "Monitoring stopped")
		}
	case StatusCommand:
		p.reply(ctx, p.controller.Status())
	}
}

// Poll fetches pending updates once and advances the offset past every update it saw.
func (p *TelegramCommandPoller) Poll(ctx context.Context) {
	updates, err := p.updates.GetUpdates(ctx, p.offset)
	if err != nil {
		if errors.Is(err, eventmodels.ErrTelegramConflict) {
			log.Warn("TelegramCommandPoller: another instance is polling this bot")
		} else if ctx.Err() == nil {
			log.Errorf("TelegramCommandPoller: failed to fetch updates: %v", err)
		}
		return
	}

	for _, update := range updates {
		if update.UpdateID >= p.offset {
			p.offset = update.UpdateID + 1
		}

		p.handleUpdate(ctx, update)
	}
}

func (p *TelegramCommandPoller) Start(ctx context.Context) {
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("stopping TelegramCommandPoller consumer")
				return
			case <-ticker.C:
				p.Poll(ctx)
			}
		}
	}()
}
