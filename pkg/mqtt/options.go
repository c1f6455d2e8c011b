package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nerrad567/snipskit-go/pkg/config"
	"github.com/nerrad567/snipskit-go/pkg/metrics"
)

// Connection constants.
const (
	// DefaultPort is used when the broker address has no port.
	DefaultPort = 1883

	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultOperationTimeout is the maximum time to wait for a publish or
	// subscribe acknowledgment.
	defaultOperationTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 250 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// clientIDPrefix prefixes generated client IDs.
	clientIDPrefix = "snipskit-"

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// settings are the transport tunables not found in snips.toml.
type settings struct {
	clientID         string
	keepAlive        time.Duration
	bindAddress      string
	qos              byte
	connectTimeout   time.Duration
	operationTimeout time.Duration
	logger           Logger
	metrics          *metrics.Dispatch
	newClient        func(*pahomqtt.ClientOptions) pahomqtt.Client
}

func defaultSettings() settings {
	return settings{
		clientID:         clientIDPrefix + uuid.NewString(),
		keepAlive:        defaultKeepAlive,
		connectTimeout:   defaultConnectTimeout,
		operationTimeout: defaultOperationTimeout,
		logger:           noopLogger{},
		newClient:        pahomqtt.NewClient,
	}
}

// Option configures a Client.
type Option func(*settings)

// WithClientID sets the MQTT client ID. The default is "snipskit-<uuid>".
func WithClientID(id string) Option {
	return func(s *settings) {
		if id != "" {
			s.clientID = id
		}
	}
}

// WithKeepAlive sets the keepalive interval (default 60s).
func WithKeepAlive(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.keepAlive = d
		}
	}
}

// WithBindAddress sets the local IP address to connect from.
// By default any local interface is used.
func WithBindAddress(addr string) Option {
	return func(s *settings) { s.bindAddress = addr }
}

// WithQoS sets the QoS used for subscriptions and publishes (default 0).
// Values above 2 are clamped to 2.
func WithQoS(qos byte) Option {
	return func(s *settings) { s.qos = min(qos, maxQoS) }
}

// WithConnectTimeout bounds the initial connection attempt (default 10s).
func WithConnectTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// WithLogger sets the logger for connection events and handler failures.
func WithLogger(l Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics reports dispatch activity to m.
func WithMetrics(m *metrics.Dispatch) Option {
	return func(s *settings) { s.metrics = m }
}

// WithPahoFactory replaces the function that creates the underlying paho
// client. Intended for tests that substitute an in-memory client.
func WithPahoFactory(f func(*pahomqtt.ClientOptions) pahomqtt.Client) Option {
	return func(s *settings) {
		if f != nil {
			s.newClient = f
		}
	}
}

// splitBrokerAddress splits "host[:port]" and applies DefaultPort.
func splitBrokerAddress(addr string) (string, int, error) {
	if addr == "" {
		addr = config.DefaultBrokerAddress
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		var addrErr *net.AddrError
		if errors.As(err, &addrErr) && addrErr.Err == "missing port in address" {
			return addr, DefaultPort, nil
		}
		return "", 0, fmt.Errorf("%w: %q: %w", ErrInvalidBrokerAddress, addr, err)
	}
	if host == "" {
		return "", 0, fmt.Errorf("%w: %q: empty host", ErrInvalidBrokerAddress, addr)
	}
	if portStr == "" {
		return host, DefaultPort, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("%w: %q: bad port", ErrInvalidBrokerAddress, addr)
	}
	return host, port, nil
}

// buildClientOptions creates paho MQTT options from the Snips settings.
//
// This configures:
//   - Broker URL (tcp:// or ssl://, host from mqtt_tls_hostname when TLS is on)
//   - Client ID, keepalive and optional local bind address
//   - Authentication credentials (only when username and password are both set)
//   - TLS configuration (only when mqtt_tls_hostname is set)
//   - Clean session and auto-reconnect
func buildClientOptions(opts config.MQTTOptions, s settings) (*pahomqtt.ClientOptions, error) {
	host, port, err := splitBrokerAddress(opts.BrokerAddress)
	if err != nil {
		return nil, err
	}

	po := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if opts.TLSEnabled() {
		scheme = "ssl"
		host = opts.TLSHostname
	}
	brokerURL := fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(host, strconv.Itoa(port)))
	po.AddBroker(brokerURL)
	if len(po.Servers) == 0 {
		// AddBroker drops URLs it cannot parse.
		return nil, fmt.Errorf("%w: %q", ErrInvalidBrokerAddress, brokerURL)
	}

	po.SetClientID(s.clientID)

	if opts.AuthEnabled() {
		po.SetUsername(opts.Username)
		po.SetPassword(opts.Password)
	}

	if opts.TLSEnabled() {
		tlsConfig, err := buildTLSConfig(opts)
		if err != nil {
			return nil, err
		}
		po.SetTLSConfig(tlsConfig)
	}

	if s.bindAddress != "" {
		ip := net.ParseIP(s.bindAddress)
		if ip == nil {
			return nil, fmt.Errorf("%w: bind address %q is not an IP", ErrInvalidBrokerAddress, s.bindAddress)
		}
		po.SetDialer(&net.Dialer{
			Timeout:   s.connectTimeout,
			LocalAddr: &net.TCPAddr{IP: ip},
		})
	}

	// Clean session - start fresh on connect (no persistent session on broker)
	po.SetCleanSession(true)

	// Reconnect after a lost connection, but fail the first attempt visibly.
	po.SetAutoReconnect(true)
	po.SetConnectRetry(false)

	po.SetConnectTimeout(s.connectTimeout)
	po.SetKeepAlive(s.keepAlive)

	// Deliver messages one at a time, in order, on the router goroutine.
	po.SetOrderMatters(true)

	return po, nil
}

// buildTLSConfig builds the TLS configuration for a TLS-enabled connection.
//
// Trusted roots are the system pool (unless TLSDisableRootStore), plus
// TLSCAFile and every PEM file in TLSCAPath. A client key pair is loaded
// when TLSClientCert is set; TLSClientKey defaults to the certificate file.
func buildTLSConfig(opts config.MQTTOptions) (*tls.Config, error) {
	roots := x509.NewCertPool()
	if !opts.TLSDisableRootStore {
		if system, err := x509.SystemCertPool(); err == nil {
			roots = system
		}
	}

	if opts.TLSCAFile != "" {
		pem, err := os.ReadFile(opts.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("%w: reading CA file: %w", ErrInvalidTLSConfig, err)
		}
		if !roots.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates in CA file %s", ErrInvalidTLSConfig, opts.TLSCAFile)
		}
	}

	if opts.TLSCAPath != "" {
		entries, err := os.ReadDir(opts.TLSCAPath)
		if err != nil {
			return nil, fmt.Errorf("%w: reading CA path: %w", ErrInvalidTLSConfig, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			pem, err := os.ReadFile(filepath.Join(opts.TLSCAPath, entry.Name()))
			if err != nil {
				continue
			}
			roots.AppendCertsFromPEM(pem)
		}
	}

	tlsConfig := &tls.Config{
		MinVersion: tlsMinVersion,
		RootCAs:    roots,
		ServerName: opts.TLSHostname,
	}

	if opts.TLSClientCert != "" {
		keyFile := opts.TLSClientKey
		if keyFile == "" {
			keyFile = opts.TLSClientCert
		}
		cert, err := tls.LoadX509KeyPair(opts.TLSClientCert, keyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: loading client certificate: %w", ErrInvalidTLSConfig, err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
