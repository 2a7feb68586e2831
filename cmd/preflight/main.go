// cmd/preflight/main.go
package main

import (
	"fmt"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/hamed0406/sessionkeeper/internal/config"
	"github.com/hamed0406/sessionkeeper/internal/credential"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfgPath := os.Getenv("AGENT_CONFIG")
	if cfgPath == "" {
		cfgPath = "agent.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fail(err.Error())
	}
	ok("config loaded (" + cfgPath + " + environment)")

	u, err := url.ParseRequestURI(cfg.PingURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fail("PING_URL is not an http(s) URL: " + cfg.PingURL)
	}
	if u.Scheme == "http" {
		warn("PING_URL uses plain http; the session cookie will travel unencrypted.")
	}
	ok("PING_URL=" + cfg.PingURL)

	token, err := credential.NewReader(zap.NewNop(), cfg.SettingsFile).Read()
	if err != nil {
		fail(cfg.SettingsFile + ": " + err.Error() + " [" + credential.Kind(err) + "]")
	}
	ok("token read from " + cfg.SettingsFile + ": " + credential.Mask(token))

	if cfg.LogCredential {
		warn("LOG_CREDENTIAL is on; the token will be written to logs verbatim.")
	}
	if cfg.StatusAddr != "" && len(cfg.StatusAPIKeys) == 0 {
		warn("STATUS_ADDR set without STATUS_API_KEYS; the status API is unauthenticated.")
	}
	if !cfg.MissingSettingsFatal {
		ok("missing settings file will be retried every " + cfg.Interval.String())
	}

	ok("preflight passed")
}
