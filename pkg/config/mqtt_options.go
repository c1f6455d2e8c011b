package config

// DefaultBrokerAddress is used when snips.toml does not name a broker.
const DefaultBrokerAddress = "localhost:1883"

// Keys in the snips-common section describing the MQTT connection.
const (
	keyBroker              = "mqtt"
	keyUsername            = "mqtt_username"
	keyPassword            = "mqtt_password"
	keyTLSHostname         = "mqtt_tls_hostname"
	keyTLSCAFile           = "mqtt_tls_cafile"
	keyTLSCAPath           = "mqtt_tls_capath"
	keyTLSClientKey        = "mqtt_tls_client_key"
	keyTLSClientCert       = "mqtt_tls_client_cert"
	keyTLSDisableRootStore = "mqtt_tls_disable_root_store"
	keyAssistant           = "assistant"
)

// MQTTOptions contains the MQTT broker connection settings of a Snips
// installation.
//
// Empty strings mean "not configured". TLS is used only when TLSHostname is
// set; the other TLS fields are ignored otherwise.
type MQTTOptions struct {
	// BrokerAddress is the broker as "host:port".
	BrokerAddress string `yaml:"broker_address" json:"broker_address"`

	// Username and Password enable authentication when both are set.
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"-" json:"-"`

	// TLSHostname is the host name to connect to and verify over TLS.
	TLSHostname string `yaml:"tls_hostname,omitempty" json:"tls_hostname,omitempty"`

	// TLSCAFile is a PEM bundle of trusted CA certificates.
	TLSCAFile string `yaml:"tls_ca_file,omitempty" json:"tls_ca_file,omitempty"`

	// TLSCAPath is a directory of PEM CA certificates.
	TLSCAPath string `yaml:"tls_ca_path,omitempty" json:"tls_ca_path,omitempty"`

	// TLSClientKey and TLSClientCert are the client's key pair for mutual TLS.
	TLSClientKey  string `yaml:"tls_client_key,omitempty" json:"tls_client_key,omitempty"`
	TLSClientCert string `yaml:"tls_client_cert,omitempty" json:"tls_client_cert,omitempty"`

	// TLSDisableRootStore excludes the system certificate pool from the trusted roots.
	TLSDisableRootStore bool `yaml:"tls_disable_root_store" json:"tls_disable_root_store"`
}

// DefaultMQTTOptions returns the settings used when snips.toml has no
// snips-common section: localhost:1883 without authentication or TLS.
func DefaultMQTTOptions() MQTTOptions {
	return MQTTOptions{BrokerAddress: DefaultBrokerAddress}
}

// TLSEnabled reports whether the connection should use TLS.
func (o MQTTOptions) TLSEnabled() bool {
	return o.TLSHostname != ""
}

// AuthEnabled reports whether both a username and a password are configured.
func (o MQTTOptions) AuthEnabled() bool {
	return o.Username != "" && o.Password != ""
}

// mqttOptionsFrom derives MQTT settings from a parsed snips.toml.
// Each field falls back to its own default; nothing here fails the load.
func mqttOptionsFrom(values tree) MQTTOptions {
	opts := DefaultMQTTOptions()

	common, ok := values[SectionCommon].(map[string]any)
	if !ok {
		return opts
	}

	opts.BrokerAddress = stringOr(common, keyBroker, DefaultBrokerAddress)
	opts.Username = stringOr(common, keyUsername, "")
	opts.Password = stringOr(common, keyPassword, "")
	opts.TLSHostname = stringOr(common, keyTLSHostname, "")
	opts.TLSCAFile = stringOr(common, keyTLSCAFile, "")
	opts.TLSCAPath = stringOr(common, keyTLSCAPath, "")
	opts.TLSClientKey = stringOr(common, keyTLSClientKey, "")
	opts.TLSClientCert = stringOr(common, keyTLSClientCert, "")

	if v, ok := common[keyTLSDisableRootStore].(bool); ok {
		opts.TLSDisableRootStore = v
	}

	return opts
}

// stringOr returns section[key] if it is a non-empty string, else fallback.
func stringOr(section map[string]any, key, fallback string) string {
	if v, ok := section[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
