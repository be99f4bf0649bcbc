/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in, anonymous conversion events and crash
// reports. It never blocks a command and drops silently on any error.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"log/slog"

	applog "screenmd/internal/log"
	"screenmd/internal/version"
)

// Config gates telemetry. Everything is off by default; without OptIn and the
// matching URL nothing leaves the process.
//
// Environment (read by FromEnv):
//   - SMD_TELEMETRY_OPT_IN: "1", "true", "yes", "on" to enable
//   - SMD_TELEMETRY_URL: endpoint for JSON events
//   - SMD_CRASH_UPLOAD_URL: endpoint for plain-text crash reports
//   - SMD_TELEMETRY_TIMEOUT_MS: request timeout, default 1500ms
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
}

func FromEnv() Config {
	cfg := Config{
		OptIn:     optedIn(os.Getenv("SMD_TELEMETRY_OPT_IN")),
		EventsURL: strings.TrimSpace(os.Getenv("SMD_TELEMETRY_URL")),
		CrashURL:  strings.TrimSpace(os.Getenv("SMD_CRASH_UPLOAD_URL")),
		Timeout:   1500 * time.Millisecond,
	}
	if ms := strings.TrimSpace(os.Getenv("SMD_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func optedIn(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// payload is one queued POST. Events and crash reports share the queue and
// the single sender goroutine.
type payload struct {
	url         string
	contentType string
	body        []byte
}

// event is the wire shape of a usage event. Props carry non-identifying
// counts only (pages, formats), never script content.
type event struct {
	Name    string         `json:"name"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

// Client queues payloads on a bounded channel; a full queue drops the newest.
type Client struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	q      chan payload
	once   sync.Once
	closed chan struct{}
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// InitDefault builds the package-level client from the environment on first use.
func InitDefault() {
	defaultOnce.Do(func() {
		defaultClient = New(FromEnv())
	})
}

func New(cfg Config) *Client {
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan payload, 64),
		closed: make(chan struct{}),
	}
	go c.run()
	return c
}

// Enabled reports whether usage events would actually be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues a usage event. Props must be non-identifying.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	body, err := json.Marshal(event{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Props:   props,
	})
	if err != nil {
		return
	}
	c.enqueue(payload{url: c.cfg.EventsURL, contentType: "application/json", body: body})
}

// Event queues a usage event on the default client.
func Event(name string, props map[string]any) { InitDefault(); defaultClient.Event(name, props) }

// UploadCrash queues an already-serialized crash report. Crash uploads honor
// OptIn but only need CrashURL, so they work without an events endpoint.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	c.enqueue(payload{
		url:         c.cfg.CrashURL,
		contentType: "text/plain; charset=utf-8",
		body:        append([]byte(nil), report...),
	})
}

// UploadCrash queues a crash report on the default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }

// Flush waits briefly for the queue to drain, bounded by half a second.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for len(c.q) > 0 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Flush drains the default client's queue, bounded by half a second.
func Flush(ctx context.Context) { InitDefault(); defaultClient.Flush(ctx) }

// Close stops the sender goroutine. Queued payloads are abandoned.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) run() {
	for {
		select {
		case <-c.closed:
			return
		case p := <-c.q:
			c.post(p)
		}
	}
}

func (c *Client) enqueue(p payload) {
	select {
	case c.q <- p:
	default:
		// full queue, drop
	}
}

func (c *Client) post(p payload) {
	req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(p.body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", p.contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		c.log.Debug("telemetry post failed", slog.Any("err", err))
		return
	}
	_ = resp.Body.Close()
}
