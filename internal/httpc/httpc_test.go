package httpc

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func doGet(t *testing.T, h *Httpc, url string) (int, error) {
	t.Helper()
	resp, err := h.New().R().SetContext(context.Background()).Get(url)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}

func TestHTTPClient_Insecure_AllowsSelfSigned(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	// default should fail due to unknown authority
	if _, err := doGet(t, &Httpc{}, srv.URL); err == nil {
		t.Fatalf("expected error without insecure TLS, got nil")
	}

	cfg, err := TLSConfig(true, "", "")
	if err != nil {
		t.Fatalf("TLSConfig: %v", err)
	}
	if code, err := doGet(t, &Httpc{TlsConfig: cfg}, srv.URL); err != nil || code != 200 {
		t.Fatalf("expected 200 with insecure, got code=%d err=%v", code, err)
	}
}

func TestHTTPClient_TLSConfigAppliedToClient(t *testing.T) {
	cfg, err := TLSConfig(false, "1.2", "tls13")
	if err != nil {
		t.Fatalf("TLSConfig: %v", err)
	}
	c := (&Httpc{TlsConfig: cfg}).New()
	tr, _ := c.GetClient().Transport.(*http.Transport)
	if tr == nil || tr.TLSClientConfig == nil {
		t.Fatalf("expected TLSClientConfig to be set")
	}
	if tr.TLSClientConfig.MinVersion != tls.VersionTLS12 || tr.TLSClientConfig.MaxVersion != tls.VersionTLS13 {
		t.Fatalf("expected TLS1.2-1.3, got Min=%v Max=%v", tr.TLSClientConfig.MinVersion, tr.TLSClientConfig.MaxVersion)
	}
}

func TestTLSConfig_Validation(t *testing.T) {
	if cfg, err := TLSConfig(false, "", ""); err != nil || cfg != nil {
		t.Fatalf("expected nil config for defaults, got %v %v", cfg, err)
	}
	if _, err := TLSConfig(false, "1.9", ""); err == nil {
		t.Fatalf("expected error for unknown min version")
	}
	if _, err := TLSConfig(false, "", "ssl3"); err == nil {
		t.Fatalf("expected error for unknown max version")
	}
	if _, err := TLSConfig(false, "1.3", "1.2"); err == nil {
		t.Fatalf("expected error when min > max")
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := (&Httpc{Timeout: 50 * time.Millisecond}).New()
	if c.GetClient().Timeout != 50*time.Millisecond {
		t.Fatalf("expected client timeout 50ms, got %v", c.GetClient().Timeout)
	}
	if _, err := c.R().Get(srv.URL); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestHTTPClient_PlainHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	}))
	defer srv.Close()
	if code, err := doGet(t, &Httpc{}, srv.URL); err != nil || code != 204 {
		t.Fatalf("default client to http server expected 204, got code=%d err=%v", code, err)
	}
}
