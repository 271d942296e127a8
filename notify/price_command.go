package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/bcdannyboy/fairbtc/job"
	"github.com/bcdannyboy/fairbtc/models"
	"github.com/bcdannyboy/fairbtc/simulate"
)

// defaultPaths is the path count a /price slash command runs, a smaller
// budget than the CLI driver's default since Slack expects a response
// within a few seconds of progress updates.
const defaultPaths = 20000

// PriceHandler serves /price, adapted from the teacher's
// slack/fcs_command.go's "post initial message, run in background, post
// progress, post final result" shape.
type PriceHandler struct {
	ctrl    *job.Controller
	factory InputsFactory
}

func NewPriceHandler(ctrl *job.Controller, factory InputsFactory) *PriceHandler {
	return &PriceHandler{ctrl: ctrl, factory: factory}
}

func (h *PriceHandler) HandleCommand(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	target, horizon, err := parsePriceArgs(data.Text)
	if err != nil {
		_, _, postErr := client.PostMessage(data.ChannelID, slack.MsgOptionText(err.Error(), false))
		return postErr
	}

	s0, inputs, err := h.factory(horizon)
	if err != nil {
		_, _, postErr := client.PostMessage(data.ChannelID, slack.MsgOptionText(fmt.Sprintf("calibration failed: %v", err), false))
		return postErr
	}

	_, ts, err := client.PostMessage(data.ChannelID, slack.MsgOptionText("Pricing...", false))
	if err != nil {
		return err
	}

	req := job.Request{
		Market:  "BTC",
		S0:      s0,
		Horizon: horizon,
		Inputs:  inputs,
		Target:  target,
		Opts:    simulate.Opts{N: defaultPaths},
	}

	_, events := h.ctrl.Submit(context.Background(), req)
	go streamPriceResult(client, data.ChannelID, ts, events)
	return nil
}

func streamPriceResult(client *socketmode.Client, channelID, ts string, events <-chan models.JobEvent) {
	lastPosted := -1
	for evt := range events {
		switch evt.Kind {
		case models.EventProgress:
			pct := evt.Progress.BatchesComplete * 100 / evt.Progress.BatchesTotal
			milestone := (pct / 25) * 25
			if milestone > lastPosted && milestone > 0 && milestone < 100 {
				lastPosted = milestone
				client.PostMessage(channelID,
					slack.MsgOptionText(fmt.Sprintf("%d%% complete, running p=%.4f", pct, evt.Progress.RunningP), false),
					slack.MsgOptionTS(ts))
			}
		case models.EventComplete:
			r := evt.Result
			client.PostMessage(channelID,
				slack.MsgOptionText(fmt.Sprintf("p=%.4f  CI=[%.4f, %.4f]  fair=%d¢", r.P, r.CI.Lo, r.CI.Hi, r.FairCents), false),
				slack.MsgOptionTS(ts))
		case models.EventError:
			client.PostMessage(channelID,
				slack.MsgOptionText(fmt.Sprintf("pricing failed: %v", evt.Err), false),
				slack.MsgOptionTS(ts))
		case models.EventCancelled:
			client.PostMessage(channelID,
				slack.MsgOptionText("pricing cancelled", false),
				slack.MsgOptionTS(ts))
		}
	}
}

// parsePriceArgs parses "above <strike> <horizonHours>" or
// "range <low> <high> <horizonHours>".
func parsePriceArgs(text string) (models.Target, float64, error) {
	args := strings.Fields(text)
	usage := fmt.Errorf("usage: /price above <strike> <horizonHours> | /price range <low> <high> <horizonHours>")

	if len(args) < 1 {
		return models.Target{}, 0, usage
	}

	switch strings.ToLower(args[0]) {
	case "above":
		if len(args) != 3 {
			return models.Target{}, 0, usage
		}
		k, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return models.Target{}, 0, usage
		}
		horizon, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return models.Target{}, 0, usage
		}
		return models.Above(k), horizon, nil
	case "range":
		if len(args) != 4 {
			return models.Target{}, 0, usage
		}
		l, err1 := strconv.ParseFloat(args[1], 64)
		u, err2 := strconv.ParseFloat(args[2], 64)
		horizon, err3 := strconv.ParseFloat(args[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return models.Target{}, 0, usage
		}
		return models.Range(l, u), horizon, nil
	default:
		return models.Target{}, 0, usage
	}
}
