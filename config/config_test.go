package config

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetDataDirDerivesBadgerDir(t *testing.T) {
	c := NewDefaultConfig()
	c.BadgerDir = ""
	c.SetDataDir("/tmp/example")

	want := filepath.Join("/tmp/example", DefaultBadgerFile)
	if c.BadgerDir != want {
		t.Fatalf("BadgerDir = %q, want %q", c.BadgerDir, want)
	}
}

func TestAdvertiseFallsBackToBindAddr(t *testing.T) {
	c := NewDefaultConfig()
	c.BindAddr = "127.0.0.1:9000"
	if got := c.Advertise(); got != c.BindAddr {
		t.Fatalf("Advertise() = %q, want %q", got, c.BindAddr)
	}

	c.AdvertiseAddr = "203.0.113.5:9000"
	if got := c.Advertise(); got != c.AdvertiseAddr {
		t.Fatalf("Advertise() = %q, want %q", got, c.AdvertiseAddr)
	}
}

func TestLogLevelParsing(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
		"":        logrus.InfoLevel,
	}
	for in, want := range cases {
		if got := LogLevel(in); got != want {
			t.Fatalf("LogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
