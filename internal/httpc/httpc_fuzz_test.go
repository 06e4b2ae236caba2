package httpc

import (
	"crypto/tls"
	"testing"
)

// FuzzParseTLSVersion ensures ParseTLSVersion handles arbitrary strings safely
// and only returns known TLS versions or 0.
func FuzzParseTLSVersion(f *testing.F) {
	f.Add("")
	f.Add("1.2")
	f.Add("tls1.3")
	f.Add("TLS13")
	f.Add("weird-input!!")

	f.Fuzz(func(t *testing.T, s string) {
		v := ParseTLSVersion(s)
		if v != 0 && v != tls.VersionTLS10 && v != tls.VersionTLS11 && v != tls.VersionTLS12 && v != tls.VersionTLS13 {
			t.Fatalf("unexpected tls version: %v", v)
		}
	})
}

// FuzzTLSConfig checks that accepted version bounds are never inverted and
// that verification is only skipped when asked for.
func FuzzTLSConfig(f *testing.F) {
	f.Add(false, "", "")
	f.Add(true, "1.2", "1.3")
	f.Add(false, "1.3", "1.2")
	f.Add(false, "tls1.1", "bogus")

	f.Fuzz(func(t *testing.T, insecure bool, minV, maxV string) {
		cfg, err := TLSConfig(insecure, minV, maxV)
		if err != nil {
			if cfg != nil {
				t.Fatalf("config returned alongside error %v", err)
			}
			return
		}
		if cfg == nil {
			if insecure {
				t.Fatalf("insecure request produced no tls config")
			}
			return
		}
		if cfg.InsecureSkipVerify != insecure {
			t.Fatalf("InsecureSkipVerify = %v, want %v", cfg.InsecureSkipVerify, insecure)
		}
		if cfg.MinVersion != 0 && cfg.MaxVersion != 0 && cfg.MinVersion > cfg.MaxVersion {
			t.Fatalf("inverted bounds %x > %x", cfg.MinVersion, cfg.MaxVersion)
		}
		if cfg.MinVersion != ParseTLSVersion(minV) || cfg.MaxVersion != ParseTLSVersion(maxV) {
			t.Fatalf("bounds %x/%x do not match %q/%q", cfg.MinVersion, cfg.MaxVersion, minV, maxV)
		}
	})
}
