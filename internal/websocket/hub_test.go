// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/cfrancis/fermwatch/internal/models"
)

// startHub runs the hub in the background and cancels it on cleanup.
func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("hub did not stop after context cancel")
		}
	})
	return hub
}

// registerFake registers a hub-only client (no network connection).
func registerFake(t *testing.T, hub *Hub) *Client {
	t.Helper()

	client := &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		send: make(chan Message, 8),
	}
	select {
	case hub.Register <- client:
	case <-time.After(2 * time.Second):
		t.Fatal("register timed out")
	}
	return client
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := startHub(t)

	client := registerFake(t, hub)
	waitForClients(t, hub, 1)

	hub.Unregister <- client
	waitForClients(t, hub, 0)
}

func TestHubBroadcastReading(t *testing.T) {
	hub := startHub(t)
	client := registerFake(t, hub)
	waitForClients(t, hub, 1)

	reading := models.Reading{
		SensorID:   "temperature",
		RecordedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Value:      37.2,
	}
	hub.BroadcastReading(reading)

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeReading {
			t.Errorf("message type = %q, want %q", msg.Type, MessageTypeReading)
		}
		got, ok := msg.Data.(models.Reading)
		if !ok {
			t.Fatalf("message data type %T", msg.Data)
		}
		if got.SensorID != "temperature" || got.Value != 37.2 {
			t.Errorf("reading = %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast not delivered")
	}
}

func TestHubBroadcastStatsUpdate(t *testing.T) {
	hub := startHub(t)
	client := registerFake(t, hub)
	waitForClients(t, hub, 1)

	hub.BroadcastStatsUpdate(1440)

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeStatsUpdate {
			t.Errorf("message type = %q", msg.Type)
		}
		data, ok := msg.Data.(StatsUpdateData)
		if !ok {
			t.Fatalf("message data type %T", msg.Data)
		}
		if data.TotalReadings != 1440 {
			t.Errorf("total_readings = %d, want 1440", data.TotalReadings)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast not delivered")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()

	client := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 8)}
	hub.Register <- client
	waitForClients(t, hub, 1)

	cancel()
	<-done

	if _, open := <-client.send; open {
		t.Error("client send channel should be closed after shutdown")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("client count after shutdown = %d", hub.GetClientCount())
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"type":"pong","data":null}` {
		t.Errorf("marshaled = %s", data)
	}
}
