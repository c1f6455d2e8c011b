package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nerrad567/snipskit-go/pkg/component"
	"github.com/nerrad567/snipskit-go/pkg/handler"
	"github.com/nerrad567/snipskit-go/pkg/hermes"
	"github.com/nerrad567/snipskit-go/pkg/ontology"
)

func newIntentsCmd(flags *rootFlags) *cobra.Command {
	var (
		conn     connFlags
		sessions bool
	)

	cmd := &cobra.Command{
		Use:   "intents",
		Short: "Print recognised intents and their slots",
		Long: `Connect to the broker configured in snips.toml and print every intent the
dialogue manager recognises, with its confidence and slot values.
With --sessions, session starts and ends are printed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := flags.logger(cmd)
			client, stopMetrics, err := newMQTTClient(cmd.Context(), conn, log)
			if err != nil {
				return err
			}
			defer stopMetrics()

			comp, err := component.New(hermes.New(client),
				component.WithSnipsConfigFile(flags.snipsConfig),
				component.WithLogger(log),
			)
			if err != nil {
				return err
			}

			app := &intentsApp{
				sessions: sessions,
				out:      cmd.OutOrStdout(),
				limit:    newLimit(conn.count, client.Stop),
			}
			return comp.Run(cmd.Context(), app)
		},
	}

	conn.register(cmd)
	cmd.Flags().BoolVar(&sessions, "sessions", false, "also print session events")
	return cmd
}

// intentsApp prints Hermes dialogue events.
type intentsApp struct {
	sessions bool
	out      io.Writer
	limit    *limit

	mu sync.Mutex
}

func (a *intentsApp) Handlers(reg *handler.Registry) {
	reg.Intents(a.intent)
	reg.IntentNotRecognized(a.notRecognized)
	if a.sessions {
		reg.SessionStarted(a.sessionStarted)
		reg.SessionQueued(a.sessionQueued)
		reg.SessionEnded(a.sessionEnded)
	}
}

func (a *intentsApp) intent(msg *ontology.IntentMessage) error {
	var b strings.Builder
	fmt.Fprintf(&b, "intent %s (%.2f) site=%s session=%s input=%q",
		msg.Intent.IntentName, msg.Intent.ConfidenceScore, msg.SiteID, msg.SessionID, msg.Input)
	for _, slot := range msg.Slots {
		fmt.Fprintf(&b, "\n  %s = %v (%s)", slot.SlotName, slot.Value["value"], slot.Entity)
	}
	return a.printCounted(b.String())
}

func (a *intentsApp) notRecognized(msg *ontology.IntentNotRecognizedMessage) error {
	return a.printCounted(fmt.Sprintf("not recognised site=%s session=%s input=%q",
		msg.SiteID, msg.SessionID, msg.Input))
}

func (a *intentsApp) sessionStarted(msg *ontology.SessionStartedMessage) error {
	return a.print(fmt.Sprintf("session started site=%s session=%s", msg.SiteID, msg.SessionID))
}

func (a *intentsApp) sessionQueued(msg *ontology.SessionQueuedMessage) error {
	return a.print(fmt.Sprintf("session queued site=%s session=%s", msg.SiteID, msg.SessionID))
}

func (a *intentsApp) sessionEnded(msg *ontology.SessionEndedMessage) error {
	line := fmt.Sprintf("session ended site=%s session=%s reason=%s",
		msg.SiteID, msg.SessionID, msg.Termination.Reason)
	if msg.Termination.Error != "" {
		line += " error=" + msg.Termination.Error
	}
	return a.print(line)
}

func (a *intentsApp) print(line string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := fmt.Fprintln(a.out, line)
	return err
}

// printCounted prints an intent event, which counts towards --count.
func (a *intentsApp) printCounted(line string) error {
	err := a.print(line)
	a.limit.done()
	return err
}
