// internal/gateway/schema.go
//
// The gateway's concrete configuration schema.
//
// One Entry per recognized setting: dotted key, documentation, format,
// default, and the optional env/flag bindings.  Only the documented
// subset (API host/port, auth mode/app name, listen port) binds an
// ADEPT_GW_* environment variable; everything else is file/CLI-only.

package gateway

import "github.com/AdeptTravel/adept-gateway/internal/config"

// Schema returns the full entry set, declared once at process start.
func Schema() []config.Entry {
	return []config.Entry{
		{Key: "config.file", Doc: "path to the optional YAML config file", Format: config.FormatString, Default: "", Flag: "config"},

		{Key: "api.host", Doc: "upstream API host address", Format: config.FormatIP, Default: "127.0.0.1", Env: "ADEPT_GW_API_HOST", Flag: "api-host"},
		{Key: "api.port", Doc: "upstream API port", Format: config.FormatPort, Default: 8899, Env: "ADEPT_GW_API_PORT", Flag: "api-port"},

		{Key: "auth.mode", Doc: "upstream authentication mode (only \"password\" is supported)", Format: config.FormatString, Default: "password", Env: "ADEPT_GW_AUTH_MODE", Flag: "auth-mode"},
		{Key: "auth.app_name", Doc: "application name for upstream application auth (empty disables it)", Format: config.FormatString, Default: "", Env: "ADEPT_GW_AUTH_APP_NAME", Flag: "auth-app-name"},

		{Key: "listen.port", Doc: "gateway listen port", Format: config.FormatPort, Default: 8443, Env: "ADEPT_GW_LISTEN_PORT", Flag: "listen-port"},
		{Key: "session.expiration_seconds", Doc: "idle session expiration in seconds", Format: config.FormatInt, Default: 900, Flag: "session-expiration"},

		{Key: "https.enable", Doc: "serve HTTPS with mutual TLS", Format: config.FormatBool, Default: false, Flag: "https-enable"},
		{Key: "https.ca", Doc: "trust-anchor PEM file under conf/tls", Format: config.FormatString, Default: "ca.pem", Flag: "https-ca"},
		{Key: "https.cert", Doc: "server certificate PEM file under conf/tls", Format: config.FormatString, Default: "server.crt", Flag: "https-cert"},
		{Key: "https.key", Doc: "server private-key PEM file under conf/tls", Format: config.FormatString, Default: "server.key", Flag: "https-key"},
		{Key: "https.crl", Doc: "revocation-list file under conf/tls (empty skips revocation checking)", Format: config.FormatString, Default: "", Flag: "https-crl"},

		{Key: "log.stdout.enable", Doc: "tee logs to stdout", Format: config.FormatBool, Default: true, Flag: "log-stdout"},
		{Key: "log.stdout.level", Doc: "stdout log level", Format: config.FormatString, Default: "info", Flag: "log-stdout-level"},
		{Key: "log.file.path", Doc: "log file path (relative to the root)", Format: config.FormatString, Default: "logs/gateway.log", Flag: "log-file"},
		{Key: "log.file.level", Doc: "log file level", Format: config.FormatString, Default: "info", Flag: "log-file-level"},
		{Key: "log.request_body", Doc: "log request bodies", Format: config.FormatBool, Default: false, Flag: "log-request-body"},
		{Key: "log.client_detail", Doc: "log client connection detail", Format: config.FormatBool, Default: false, Flag: "log-client-detail"},

		{Key: "service.name", Doc: "service name reported to peers", Format: config.FormatString, Default: "adept-gateway", Flag: "service-name"},
		{Key: "service.version", Doc: "service version reported to peers", Format: config.FormatString, Default: "0.1.0", Flag: "service-version"},

		{Key: "body.max_bytes", Doc: "maximum accepted request body size in bytes", Format: config.FormatInt, Default: 1048576, Flag: "max-body-bytes"},

		{Key: "throttle.burst", Doc: "default per-client burst", Format: config.FormatInt, Default: 20, Flag: "throttle-burst"},
		{Key: "throttle.rate", Doc: "default per-client requests per second", Format: config.FormatInt, Default: 10, Flag: "throttle-rate"},

		{Key: "ws.control.enable", Doc: "enable the websocket control transport", Format: config.FormatBool, Default: false, Flag: "ws-control"},
		{Key: "ws.control.port", Doc: "websocket control transport port", Format: config.FormatPort, Default: 8444, Flag: "ws-control-port"},
		{Key: "ws.stream.enable", Doc: "enable the websocket stream transport", Format: config.FormatBool, Default: false, Flag: "ws-stream"},
		{Key: "ws.stream.port", Doc: "websocket stream transport port", Format: config.FormatPort, Default: 8445, Flag: "ws-stream-port"},

		{Key: "poll.max_buffer_bytes", Doc: "long-poll maximum buffered bytes", Format: config.FormatInt, Default: 65536, Flag: "poll-max-buffer"},
		{Key: "poll.frequency_ms", Doc: "long-poll frequency in milliseconds", Format: config.FormatInt, Default: 500, Flag: "poll-frequency-ms"},
		{Key: "poll.timeout_ms", Doc: "long-poll timeout in milliseconds", Format: config.FormatInt, Default: 30000, Flag: "poll-timeout-ms"},
	}
}
