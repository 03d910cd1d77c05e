// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeServer struct {
	started  chan struct{}
	release  chan error
	shutdown chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		started:  make(chan struct{}),
		release:  make(chan error, 1),
		shutdown: make(chan struct{}, 1),
	}
}

func (s *fakeServer) ListenAndServe() error {
	close(s.started)
	return <-s.release
}

func (s *fakeServer) Shutdown(context.Context) error {
	s.shutdown <- struct{}{}
	s.release <- nil
	return nil
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	server := newFakeServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	select {
	case <-server.shutdown:
	default:
		t.Fatal("Shutdown was not called")
	}
}

func TestHTTPServerServiceStartupFailure(t *testing.T) {
	server := newFakeServer()
	svc := NewHTTPServerService(server, time.Second)

	go func() {
		<-server.started
		server.release <- errors.New("bind: address already in use")
	}()

	err := svc.Serve(context.Background())
	if err == nil {
		t.Fatal("expected startup error")
	}
}
