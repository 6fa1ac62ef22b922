// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

/*
Package services provides suture.Service wrappers for FermWatch components.

Each wrapper adapts a component's lifecycle to suture's context-aware Serve
pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Available services:

  - HTTPServerService: wraps *http.Server, converting the blocking
    ListenAndServe pattern to Serve with graceful Shutdown on cancel.
  - WebSocketHubService: delegates to the hub's RunWithContext.
  - SamplerService: delegates to the sampler's RunWithContext.

Wrappers take small interfaces rather than the concrete types so tests can
substitute fakes, and implement fmt.Stringer so suture's event log names
them usefully.
*/
package services
