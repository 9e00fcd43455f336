// Package config holds this repo's environment/flag/file-driven
// configuration, grounded on babble's src/config/config.go: the same
// set of defaults-plus-mapstructure-tags shape, trimmed to the fields
// the tangle node and its CLI actually use.
package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// DefaultKeyfile is the default name of the file holding a node's
// private key, written by `tangle keygen`.
const DefaultKeyfile = "priv_key"

// DefaultBadgerFile is the default name of the badger database
// directory a snapshot.BadgerSink opens under DataDir.
const DefaultBadgerFile = "tangle_db"

// Default configuration values, grounded on babble's own constant block.
const (
	DefaultLogLevel         = "info"
	DefaultBindAddr         = "127.0.0.1:1337"
	DefaultHeartbeatTimeout = 10 * time.Second
	DefaultTCPTimeout       = 1000 * time.Millisecond
	DefaultMaxPool          = 2
)

// Config is this repo's equivalent of babble's config.Config: every
// setting a running node needs, bindable from flags, environment, or a
// config file via viper.
type Config struct {
	// DataDir is the top-level directory holding the node's key file and
	// (if enabled) its badger snapshot store.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, if set, tees Info-level-and-above log output to this file
	// via lfshook, in addition to the console formatter.
	LogFile string `mapstructure:"log-file"`

	// BindAddr is the local address:port this node's transport listens
	// on.
	BindAddr string `mapstructure:"listen"`

	// AdvertiseAddr is the address other peers should dial to reach this
	// node. Defaults to BindAddr when empty.
	AdvertiseAddr string `mapstructure:"advertise"`

	// MaxPool controls how many pooled connections the TCP transport
	// keeps per peer.
	MaxPool int `mapstructure:"max-pool"`

	// TCPTimeout bounds dialing and per-RPC I/O deadlines.
	TCPTimeout time.Duration `mapstructure:"timeout"`

	// HeartbeatTimeout is the interval between gossip rounds.
	HeartbeatTimeout time.Duration `mapstructure:"heartbeat"`

	// Peers lists addresses to bootstrap against on startup.
	Peers []string `mapstructure:"peers"`

	// SnapshotPath, if set, is the file snapshot.Load reads from on
	// startup and snapshot.Save writes to on shutdown.
	SnapshotPath string `mapstructure:"snapshot"`

	// BadgerDir, if set, makes the node use a snapshot.BadgerSink rooted
	// here instead of (or alongside) SnapshotPath.
	BadgerDir string `mapstructure:"badger-dir"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a Config populated with every default value,
// grounded on babble's NewDefaultConfig.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:          DefaultDataDir(),
		LogLevel:         DefaultLogLevel,
		BindAddr:         DefaultBindAddr,
		MaxPool:          DefaultMaxPool,
		TCPTimeout:       DefaultTCPTimeout,
		HeartbeatTimeout: DefaultHeartbeatTimeout,
	}
}

// SetDataDir sets DataDir and, if BadgerDir is still unset, points it at
// the default badger directory under the new DataDir.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.BadgerDir == "" {
		c.BadgerDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// Keyfile returns the full path of the file holding this node's private
// key.
func (c *Config) Keyfile() string {
	return filepath.Join(c.DataDir, DefaultKeyfile)
}

// Advertise returns AdvertiseAddr, falling back to BindAddr when unset.
func (c *Config) Advertise() string {
	if c.AdvertiseAddr != "" {
		return c.AdvertiseAddr
	}
	return c.BindAddr
}

// Logger returns a formatted logrus Entry, building the underlying
// *logrus.Logger on first use: console output goes through
// x-cray/logrus-prefixed-formatter, and — when LogFile is set — Info and
// above is additionally teed to LogFile via rifflock/lfshook, grounded on
// babble's config.Logger and the dummy client's newLogger.
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile != "" {
			if _, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
				c.logger.WithField("error", err).Warn("failed to open log file, logging to stderr only")
			} else {
				c.logger.Hooks.Add(lfshook.NewHook(
					lfshook.PathMap{
						logrus.InfoLevel:  c.LogFile,
						logrus.WarnLevel:  c.LogFile,
						logrus.ErrorLevel: c.LogFile,
						logrus.FatalLevel: c.LogFile,
						logrus.PanicLevel: c.LogFile,
					},
					new(prefixed.TextFormatter),
				))
			}
		}
	}
	return c.logger.WithField("prefix", "tangle")
}

// LogLevel parses a string into a logrus level, defaulting to Info for
// anything unrecognized.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// DefaultDataDir returns the default top-level configuration directory
// for the current OS, grounded on babble's DefaultDataDir.
func DefaultDataDir() string {
	home := HomeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, ".Tangle")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Tangle")
	default:
		return filepath.Join(home, ".tangle")
	}
}

// HomeDir returns the current user's home directory, or "" if it can't
// be determined.
func HomeDir() string {
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return ""
}
