// Package notify is the optional Slack slash-command front end (C12): a
// thin adapter from Slack's socketmode event loop onto the shared job
// controller, grounded on the teacher's slack/slackbot.go and slack/handler.go.
package notify

import (
	"log"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/bcdannyboy/fairbtc/job"
)

// Bot wraps a Slack socketmode connection and dispatches slash commands to
// the Handler.
type Bot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	handler      *Handler
}

// NewBot constructs a Bot bound to ctrl's job controller and factory. appToken
// is the app-level token (xapp-...), botToken the bot token (xoxb-...).
func NewBot(appToken, botToken string, ctrl *job.Controller, factory InputsFactory) *Bot {
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(false),
		socketmode.OptionLog(log.New(log.Writer(), "notify/socketmode: ", log.Lshortfile|log.LstdFlags)),
	)

	return &Bot{
		client:       client,
		socketClient: socketClient,
		handler:      NewHandler(ctrl, factory),
	}
}

// Start blocks, running the socketmode event loop until it errors or the
// process exits.
func (b *Bot) Start() error {
	go func() {
		for evt := range b.socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeSlashCommand:
				if err := b.handler.Handle(&evt, b.socketClient); err != nil {
					log.Printf("notify: command handling error: %v", err)
				}
			}
		}
	}()

	return b.socketClient.Run()
}
