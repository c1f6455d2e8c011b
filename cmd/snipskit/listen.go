package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nerrad567/snipskit-go/pkg/component"
	"github.com/nerrad567/snipskit-go/pkg/handler"
	"github.com/nerrad567/snipskit-go/pkg/mqtt"
	"github.com/nerrad567/snipskit-go/pkg/ontology"
)

// connFlags configure the MQTT connection of listen and intents.
type connFlags struct {
	clientID    string
	qos         uint8
	metricsAddr string
	count       int
}

func (c *connFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&c.clientID, "client-id", "", "MQTT client ID (default: random)")
	f.Uint8Var(&c.qos, "qos", 0, "MQTT subscription QoS (0-2)")
	f.StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")
	f.IntVarP(&c.count, "count", "n", 0, "exit after this many messages (0: run until interrupted)")
}

func newListenCmd(flags *rootFlags) *cobra.Command {
	var (
		conn   connFlags
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "listen [TOPIC...]",
		Short: "Print the messages published on the Snips MQTT bus",
		Long: `Connect to the broker configured in snips.toml and print every message on
the given topic filters, one "topic payload" line per message.
Without arguments all Hermes topics (hermes/#) are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := args
			if len(topics) == 0 {
				topics = []string{ontology.Topics{}.AllTopics()}
			}

			log := flags.logger(cmd)
			client, stopMetrics, err := newMQTTClient(cmd.Context(), conn, log)
			if err != nil {
				return err
			}
			defer stopMetrics()

			comp, err := component.New(client,
				component.WithSnipsConfigFile(flags.snipsConfig),
				component.WithLogger(log),
			)
			if err != nil {
				return err
			}

			app := &listenApp{
				topics: topics,
				pretty: pretty,
				out:    cmd.OutOrStdout(),
				limit:  newLimit(conn.count, client.Stop),
			}
			return comp.Run(cmd.Context(), app)
		},
	}

	conn.register(cmd)
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON payloads")
	return cmd
}

// listenApp prints raw messages.
type listenApp struct {
	topics []string
	pretty bool
	out    io.Writer
	limit  *limit

	mu sync.Mutex
}

func (a *listenApp) Handlers(reg *handler.Registry) {
	for _, topic := range a.topics {
		reg.RawTopic(topic, a.print)
	}
}

func (a *listenApp) print(topic string, payload []byte) error {
	if a.pretty && json.Valid(payload) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, payload, "", "  "); err == nil {
			payload = buf.Bytes()
		}
	}

	a.mu.Lock()
	_, err := fmt.Fprintf(a.out, "%s %s\n", topic, payload)
	a.mu.Unlock()

	a.limit.done()
	return err
}

// limit calls stop once n messages have been handled. A nil *limit or
// n <= 0 never stops.
type limit struct {
	mu   sync.Mutex
	left int
	stop func()
}

func newLimit(n int, stop func()) *limit {
	if n <= 0 {
		return nil
	}
	return &limit{left: n, stop: stop}
}

func (l *limit) done() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.left == 0 {
		return
	}
	l.left--
	if l.left == 0 {
		l.stop()
	}
}

var _ component.Transport = (*mqtt.Client)(nil)
