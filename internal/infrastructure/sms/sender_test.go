package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestHTTPSender_SendCode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer gw-secret" {
			t.Fatalf("unexpected auth header: %s", auth)
		}
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Mob != "13800000000" || len(req.Params) != 1 || req.Params[0] != "123456" {
			t.Fatalf("unexpected payload: %+v", req)
		}
		_, _ = w.Write([]byte(`{"isSuccess":true}`))
	}))
	defer srv.Close()

	sender := NewHTTPSender(srv.URL, "gw-secret")
	if err := sender.SendCode(context.Background(), "13800000000", "123456"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
}

func TestHTTPSender_SendCode_GatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"isSuccess":false,"message":"quota exceeded"}`))
	}))
	defer srv.Close()

	sender := NewHTTPSender(srv.URL, "gw-secret")
	err := sender.SendCode(context.Background(), "13800000000", "123456")
	if err == nil {
		t.Fatalf("expected rejection error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected gateway message in error, got %v", err)
	}
}

func TestHTTPSender_SendCode_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sender := NewHTTPSender(srv.URL, "gw-secret")
	if err := sender.SendCode(context.Background(), "13800000000", "123456"); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
}

func TestLogSender_AlwaysSucceeds(t *testing.T) {
	sender := NewLogSender(zerolog.Nop())
	if err := sender.SendCode(context.Background(), "13800000000", "123456"); err != nil {
		t.Fatalf("log sender must not fail: %v", err)
	}
}
