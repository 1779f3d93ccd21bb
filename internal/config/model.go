// internal/config/model.go
//
// Typed configuration model for formhook.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `FORMHOOK_`-prefixed environment overrides – highest precedence.
//
// A `storage.key` beginning with `vault:` is NOT resolved here; cmd/web
// hands it to internal/vault after Load returns, so this package stays free
// of network calls.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Log section
//

// Log selects the minimum level written to the file and console cores.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

//
// Form section
//

// Form configures the submission endpoint.
//
// CSRFKey is a base64url string of at least 32 bytes.  When empty the
// process generates a random key and tokens stop verifying after restart.
type Form struct {
	CSRFKey   string `koanf:"csrf_key"`
	MaxMemory int64  `koanf:"max_memory" validate:"gte=0"`
}

//
// Storage section
//

// Storage selects the avatar backend.
//
//   - http   – hosted object store at Endpoint, authenticated with Key.
//   - sql    – storage_object table reached through DSN.
//   - memory – in-process map, for development only.
type Storage struct {
	Backend  string        `koanf:"backend"  validate:"required,oneof=http sql memory"`
	Bucket   string        `koanf:"bucket"   validate:"required"`
	Endpoint string        `koanf:"endpoint" validate:"omitempty,url"`
	Key      string        `koanf:"key"`
	DSN      string        `koanf:"dsn"`
	Timeout  time.Duration `koanf:"timeout"  validate:"gte=0"`
}

//
// GeoIP section
//

// GeoIP points at an optional GeoLite2-City database.  Empty disables
// country and city enrichment.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // FORMHOOK_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	Log     Log     `koanf:"log"`
	Form    Form    `koanf:"form"`
	Storage Storage `koanf:"storage"`
	GeoIP   GeoIP   `koanf:"geoip"`
	Paths   Paths   `koanf:"-"`
}

// Defaults returns the values applied before any layer is merged.
func Defaults() Config {
	return Config{
		HTTP:    HTTP{ListenAddr: ":8080"},
		Log:     Log{Level: "info"},
		Form:    Form{MaxMemory: 8 << 20},
		Storage: Storage{Backend: "memory", Bucket: "form-hook-zod-bucket", Timeout: 30 * time.Second},
	}
}
