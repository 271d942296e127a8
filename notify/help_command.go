package notify

import (
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// HelpHandler serves /help, per the teacher's slack/help_command.go.
type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) HandleCommand(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	helpText := "Available commands:\n" +
		"/help - Show this help message\n" +
		"/price above <strike> <horizonHours> - P(BTC above strike at horizon)\n" +
		"/price range <low> <high> <horizonHours> - P(BTC in [low,high] at horizon)"

	_, _, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(helpText, false))
	return err
}
