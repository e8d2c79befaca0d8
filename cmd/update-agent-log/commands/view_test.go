package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/rollout"
)

func TestFormatExchangeEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp: ts,
		CycleID:   "abc12345-6789-0123-4567-890abcdef012",
		Direction: log.DirectionOut,
		Layer:     log.LayerTransport,
		Category:  log.CategoryExchange,
		Exchange: &log.ExchangeEvent{
			Method:     "GET",
			Path:       "/DEFAULT/controller/v1/dev-1",
			StatusCode: 200,
			Duration:   12 * time.Millisecond,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "2026-01-28T10:15:32.123456Z") {
		t.Errorf("expected RFC3339Nano timestamp, got: %s", output)
	}
	if !strings.Contains(output, "[cycle:abc12345]") {
		t.Errorf("expected shortened cycle ID, got: %s", output)
	}
	if !strings.Contains(output, "OUT") {
		t.Errorf("expected OUT direction, got: %s", output)
	}
	if !strings.Contains(output, "TRANSPORT") {
		t.Errorf("expected TRANSPORT layer, got: %s", output)
	}
	if !strings.Contains(output, "Exchange") {
		t.Errorf("expected Exchange label, got: %s", output)
	}
	if !strings.Contains(output, "GET /DEFAULT/controller/v1/dev-1") {
		t.Errorf("expected method/path, got: %s", output)
	}
	if !strings.Contains(output, "Status: 200") {
		t.Errorf("expected status code, got: %s", output)
	}
}

func TestFormatStateChangeEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 30, 0, time.UTC)
	event := log.Event{
		Timestamp: ts,
		CycleID:   "abc12345-6789-0123-4567-890abcdef012",
		Layer:     log.LayerOrchestrator,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			From:   "OPEN_SESSION",
			To:     "POLL_BASE",
			Reason: "session established",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "State") {
		t.Errorf("expected State label, got: %s", output)
	}
	if !strings.Contains(output, "OPEN_SESSION -> POLL_BASE") {
		t.Errorf("expected transition, got: %s", output)
	}
	if !strings.Contains(output, "Reason: session established") {
		t.Errorf("expected reason, got: %s", output)
	}
}

func TestFormatDownloadEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 35, 0, time.UTC)
	event := log.Event{
		Timestamp: ts,
		CycleID:   "abc12345",
		Layer:     log.LayerDownload,
		Category:  log.CategoryDownload,
		Download: &log.DownloadEvent{
			Written: 512,
			Total:   1024,
			Percent: 50,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Download") {
		t.Errorf("expected Download label, got: %s", output)
	}
	if !strings.Contains(output, "512/1024 bytes (50%)") {
		t.Errorf("expected progress, got: %s", output)
	}
}

func TestFormatCycleEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 40, 0, time.UTC)
	event := log.Event{
		Timestamp: ts,
		CycleID:   "abc12345",
		Layer:     log.LayerOrchestrator,
		Category:  log.CategoryCycle,
		Cycle: &log.CycleEvent{
			Outcome:  rollout.NoUpdate,
			NextPoll: 5 * time.Minute,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Cycle") {
		t.Errorf("expected Cycle label, got: %s", output)
	}
	if !strings.Contains(output, "Outcome: NoUpdate") {
		t.Errorf("expected outcome, got: %s", output)
	}
	if !strings.Contains(output, "NextPoll: 5m0s") {
		t.Errorf("expected next poll, got: %s", output)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 45, 0, time.UTC)
	event := log.Event{
		Timestamp: ts,
		CycleID:   "abc12345",
		Layer:     log.LayerTransport,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: "connection refused",
			Context: "POLL_BASE",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Error") {
		t.Errorf("expected Error label, got: %s", output)
	}
	if !strings.Contains(output, "Message: connection refused") {
		t.Errorf("expected message, got: %s", output)
	}
	if !strings.Contains(output, "Context: POLL_BASE") {
		t.Errorf("expected context, got: %s", output)
	}
}

func TestFormatEventIncludesDeviceAndAction(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 50, 0, time.UTC)
	event := log.Event{
		Timestamp: ts,
		CycleID:   "abc12345",
		Layer:     log.LayerOrchestrator,
		Category:  log.CategoryCycle,
		DeviceID:  "dev-1",
		ActionID:  "42",
		Cycle:     &log.CycleEvent{Outcome: rollout.Ok},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Device: dev-1") {
		t.Errorf("expected device ID, got: %s", output)
	}
	if !strings.Contains(output, "Action: 42") {
		t.Errorf("expected action ID, got: %s", output)
	}
}

func TestParseLayer(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Layer
		wantErr  bool
	}{
		{"transport", log.LayerTransport, false},
		{"TRANSPORT", log.LayerTransport, false},
		{"orchestrator", log.LayerOrchestrator, false},
		{"download", log.LayerDownload, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := parseLayer(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLayer(%q) expected error", tt.input)
			}
		} else {
			if err != nil {
				t.Errorf("parseLayer(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("parseLayer(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Direction
		wantErr  bool
	}{
		{"in", log.DirectionIn, false},
		{"IN", log.DirectionIn, false},
		{"out", log.DirectionOut, false},
		{"OUT", log.DirectionOut, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDirection(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDirection(%q) expected error", tt.input)
			}
		} else {
			if err != nil {
				t.Errorf("parseDirection(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("parseDirection(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Category
		wantErr  bool
	}{
		{"exchange", log.CategoryExchange, false},
		{"EXCHANGE", log.CategoryExchange, false},
		{"state", log.CategoryState, false},
		{"download", log.CategoryDownload, false},
		{"cycle", log.CategoryCycle, false},
		{"error", log.CategoryError, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := parseCategory(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCategory(%q) expected error", tt.input)
			}
		} else {
			if err != nil {
				t.Errorf("parseCategory(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("parseCategory(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		}
	}
}

func TestRunViewFiltersByLayer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryExchange, Exchange: &log.ExchangeEvent{Method: "GET", Path: "/a"}},
		{Timestamp: ts, Layer: log.LayerOrchestrator, Category: log.CategoryState, StateChange: &log.StateChangeEvent{To: "POLL_BASE"}},
		{Timestamp: ts, Layer: log.LayerDownload, Category: log.CategoryDownload, Download: &log.DownloadEvent{Written: 1, Total: 2}},
	}

	path := createTestLogFile(t, events)

	orchestratorLayer := log.LayerOrchestrator
	var buf bytes.Buffer
	err := RunView(path, ViewFilter{Base: log.Filter{Layer: &orchestratorLayer}}, &buf)
	if err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if strings.Count(output, "ORCHESTRATOR") != 1 {
		t.Errorf("expected exactly one orchestrator-layer event, got:\n%s", output)
	}
	if strings.Contains(output, "TRANSPORT") || strings.Contains(output, "DOWNLOAD") {
		t.Errorf("expected other layers to be filtered out, got:\n%s", output)
	}
}

func TestRunViewFiltersByDirection(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryExchange, Direction: log.DirectionIn, Exchange: &log.ExchangeEvent{Method: "GET", Path: "/a"}},
		{Timestamp: ts, Category: log.CategoryExchange, Direction: log.DirectionOut, Exchange: &log.ExchangeEvent{Method: "GET", Path: "/b"}},
	}

	path := createTestLogFile(t, events)

	out := log.DirectionOut
	var buf bytes.Buffer
	err := RunView(path, ViewFilter{Direction: &out}, &buf)
	if err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "/b") {
		t.Errorf("expected the outbound exchange to remain, got:\n%s", output)
	}
	if strings.Contains(output, "/a") {
		t.Errorf("expected the inbound exchange to be filtered out, got:\n%s", output)
	}
}
