package eventproducers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

type fakeUpdates struct {
	offsets []int64
	batches [][]eventmodels.TelegramUpdateDTO
	err     error
}

func (u *fakeUpdates) GetUpdates(ctx context.Context, offset int64) ([]eventmodels.TelegramUpdateDTO, error) {
	u.offsets = append(u.offsets, offset)
	if u.err != nil {
		return nil, u.err
	}

	if len(u.batches) == 0 {
		return nil, nil
	}

	batch := u.batches[0]
	u.batches = u.batches[1:]
	return batch, nil
}

type fakeReplies struct {
	texts []string
}

func (r *fakeReplies) Post(ctx context.Context, text string) (eventmodels.MessageHandle, error) {
	r.texts = append(r.texts, text)
	return eventmodels.MessageHandle(len(r.texts)), nil
}

type fakeController struct {
	running bool
	starts  int
	stops   int
}

func (c *fakeController) Start() bool {
	c.starts++
	if c.running {
		return false
	}
	c.running = true
	return true
}

func (c *fakeController) Stop() bool {
	c.stops++
	if !c.running {
		return false
	}
	c.running = false
	return true
}

func (c *fakeController) Status() string {
	return fmt.Sprintf("running: %v", c.running)
}

func update(id int64, chatID int64, text string) eventmodels.TelegramUpdateDTO {
	return eventmodels.TelegramUpdateDTO{
		UpdateID: id,
		Message: &eventmodels.TelegramMessageDTO{
			MessageID: id,
			Chat:      eventmodels.TelegramChatDTO{ID: chatID},
			Text:      text,
		},
	}
}

func Test_TelegramCommandPoller(t *testing.T) {
	const chatID = int64(-4275442556)

	t.Run("start and stop are idempotent", func(t *testing.T) {
		// arrange
		updates := &fakeUpdates{batches: [][]eventmodels.TelegramUpdateDTO{{
			update(1, chatID, "/start"),
			update(2, chatID, "/start"),
			update(3, chatID, "/stop"),
			update(4, chatID, "/stop"),
		}}}
		replies := &fakeReplies{}
		controller := &fakeController{}
		poller := NewTelegramCommandPoller(&sync.WaitGroup{}, updates, replies, controller, chatID, 0)

		// act
		poller.Poll(context.Background())

		// assert
		assert.Equal(t, []string{"Monitoring started", "Monitoring stopped"}, replies.texts)
		assert.Equal(t, 2, controller.starts)
		assert.Equal(t, 2, controller.stops)
		assert.False(t, controller.running)
	})

	t.Run("advances the offset past seen updates", func(t *testing.T) {
		// arrange
		updates := &fakeUpdates{batches: [][]eventmodels.TelegramUpdateDTO{
			{update(10, chatID, "hello"), update(11, chatID, "/status")},
		}}
		replies := &fakeReplies{}
		poller := NewTelegramCommandPoller(&sync.WaitGroup{}, updates, replies, &fakeController{}, chatID, 0)

		// act
		poller.Poll(context.Background())
		poller.Poll(context.Background())

		// assert
		assert.Equal(t, []int64{0, 12}, updates.offsets)
		assert.Equal(t, []string{"running: false"}, replies.texts)
	})

	t.Run("ignores other chats", func(t *testing.T) {
		// arrange
		updates := &fakeUpdates{batches: [][]eventmodels.TelegramUpdateDTO{{update(1, 12345, "/start")}}}
		controller := &fakeController{}
		poller := NewTelegramCommandPoller(&sync.WaitGroup{}, updates, &fakeReplies{}, controller, chatID, 0)

		// act
		poller.Poll(context.Background())

		// assert
		assert.Equal(t, 0, controller.starts)
	})

	t.Run("accepts a bot suffix", func(t *testing.T) {
		// arrange
		updates := &fakeUpdates{batches: [][]eventmodels.TelegramUpdateDTO{{update(1, chatID, "/START@cleanbot now")}}}
		controller := &fakeController{}
		poller := NewTelegramCommandPoller(&sync.WaitGroup{}, updates, &fakeReplies{}, controller, chatID, 0)

		// act
		poller.Poll(context.Background())

		// assert
		assert.True(t, controller.running)
	})

	t.Run("keeps the offset on a conflict", func(t *testing.T) {
		// arrange
		updates := &fakeUpdates{err: fmt.Errorf("wrapped: %w", eventmodels.ErrTelegramConflict)}
		poller := NewTelegramCommandPoller(&sync.WaitGroup{}, updates, &fakeReplies{}, &fakeController{}, chatID, 0)

		// act
		poller.Poll(context.Background())
		poller.Poll(context.Background())

		// assert
		assert.Equal(t, []int64{0, 0}, updates.offsets)
	})
}

func Test_parseCommand(t *testing.T) {
	assert.Equal(t, "/start", parseCommand("/start"))
	assert.Equal(t, "/stop", parseCommand("  /stop@cleanbot  "))
	assert.Equal(t, "", parseCommand("start"))
	assert.Equal(t, "", parseCommand(""))
}
