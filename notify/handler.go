package notify

import (
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/bcdannyboy/fairbtc/job"
	"github.com/bcdannyboy/fairbtc/models"
)

// InputsFactory builds a fully-validated SimInputs for a requested horizon,
// typically backed by calibrate.Calibrate over the latest candle history
// plus configured HMM/jump defaults. It is supplied by cmd/simcli's wiring,
// not by this package, so notify has no direct dependency on a market data
// source.
type InputsFactory func(horizonHours float64) (s0 float64, inputs models.SimInputs, err error)

// Handler dispatches Slack slash commands to the /help and /price
// handlers, per the teacher's slack/handler.go.
type Handler struct {
	help  *HelpHandler
	price *PriceHandler
}

// NewHandler builds a Handler bound to ctrl and factory.
func NewHandler(ctrl *job.Controller, factory InputsFactory) *Handler {
	return &Handler{
		help:  NewHelpHandler(),
		price: NewPriceHandler(ctrl, factory),
	}
}

// Handle dispatches evt.Data.(slack.SlashCommand) by Command, then acks
// the event, matching the teacher's ack-after-dispatch ordering.
func (h *Handler) Handle(evt *socketmode.Event, client *socketmode.Client) error {
	data, ok := evt.Data.(slack.SlashCommand)
	if !ok {
		client.Ack(*evt.Request)
		return nil
	}

	var err error
	switch data.Command {
	case "/help":
		err = h.help.HandleCommand(evt, client)
	case "/price":
		err = h.price.HandleCommand(evt, client)
	}

	client.Ack(*evt.Request)
	return err
}
