// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package services

import (
	"context"
)

// ContextRunner matches components whose run loop already follows the
// suture pattern: block, process, return when the context is canceled.
// Satisfied by *websocket.Hub and *sampler.Sampler.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService wraps the WebSocket hub as a supervised service.
type WebSocketHubService struct {
	hub  ContextRunner
	name string
}

// NewWebSocketHubService creates a new hub service wrapper.
func NewWebSocketHubService(hub ContextRunner) *WebSocketHubService {
	return &WebSocketHubService{hub: hub, name: "websocket-hub"}
}

// Serve implements suture.Service by delegating to the hub's run loop,
// which closes all clients on shutdown.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture's event log.
func (w *WebSocketHubService) String() string {
	return w.name
}

// SamplerService wraps the synthetic reading sampler as a supervised
// service. If the sampler panics or returns an error, the supervisor
// restarts it without touching the HTTP layer.
type SamplerService struct {
	sampler ContextRunner
	name    string
}

// NewSamplerService creates a new sampler service wrapper.
func NewSamplerService(s ContextRunner) *SamplerService {
	return &SamplerService{sampler: s, name: "sampler"}
}

// Serve implements suture.Service.
func (s *SamplerService) Serve(ctx context.Context) error {
	return s.sampler.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture's event log.
func (s *SamplerService) String() string {
	return s.name
}
