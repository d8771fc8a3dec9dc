package notifier

import (
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/logger"
	log "github.com/sirupsen/logrus"
)

type apiInterface interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

// Notifier posts hiring activity to a Telegram chat. Handlers run asynchronously so
// a slow Telegram API never delays a request.
type Notifier struct {
	api    apiInterface
	chatID int64
	bus    EventBus.Bus
}

func NewNotifier(token string, chatID int64, bus EventBus.Bus) (*Notifier, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}

	return newNotifier(api, chatID, bus)
}

func newNotifier(api apiInterface, chatID int64, bus EventBus.Bus) (*Notifier, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	n := &Notifier{api: api, chatID: chatID, bus: bus}

	subscriptions := map[string]interface{}{
		events.ApplicationSubmittedTopic:     n.onApplicationSubmitted,
		events.ApplicationStatusChangedTopic: n.onApplicationStatusChanged,
		events.PostingDeletedTopic:           n.onPostingDeleted,
	}
	for topic, handler := range subscriptions {
		if err := bus.SubscribeAsync(topic, handler, true); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// Stop waits for queued notifications to be sent.
func (n *Notifier) Stop() {
	n.bus.WaitAsync()
}

func (n *Notifier) onApplicationSubmitted(event events.ApplicationSubmitted) {
	n.send(fmt.Sprintf("New application from %s for \"%s\"", event.ApplicantName, event.PostingTitle))
}

func (n *Notifier) onApplicationStatusChanged(event events.ApplicationStatusChanged) {
	n.send(fmt.Sprintf("Application %s for \"%s\" moved from %s to %s",
		event.ApplicationID, event.PostingTitle, event.From, event.To))
}

func (n *Notifier) onPostingDeleted(event events.PostingDeleted) {
	n.send(fmt.Sprintf("Job %s was removed together with %d applications", event.PostingID, event.RemovedApplications))
}

func (n *Notifier) send(text string) {
	msg := botApi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("error occured while sending message: %v", err)
	}
}
