package safeurl_test

import (
	"strings"
	"testing"

	"github.com/pavvel11/gateflow-sub005/safeurl"
)

func TestValidateAccepted(t *testing.T) {
	valid := []string{
		"https://example.com/hooks",
		"https://hooks.example.com:8443/gateflow?token=abc",
		"https://172.15.0.1/hook",
		"https://172.32.0.1/hook",
		"https://8.8.8.8/hook",
		"https://metadata.example.com/hook", // only exact internal hostnames are blocked
	}

	for _, raw := range valid {
		if err := safeurl.Validate(raw, safeurl.Options{}); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", raw, err)
		}
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	invalid := []string{
		"",
		"not a url",
		"example.com/hooks", // relative
		"//example.com/hooks",
	}

	for _, raw := range invalid {
		if err := safeurl.Validate(raw, safeurl.Options{}); err == nil {
			t.Errorf("Validate(%q) = nil, want error", raw)
		}
	}
}

func TestValidateRejectsSchemes(t *testing.T) {
	invalid := []string{
		"http://example.com/hooks",
		"ftp://example.com/file",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"data:text/plain;base64,aGk=",
		"gopher://example.com",
	}

	for _, raw := range invalid {
		if err := safeurl.Validate(raw, safeurl.Options{}); err == nil {
			t.Errorf("Validate(%q) = nil, want error", raw)
		}
	}
}

func TestValidateAllowHTTPOverride(t *testing.T) {
	opts := safeurl.Options{AllowHTTP: true}

	if err := safeurl.Validate("http://example.com/hooks", opts); err != nil {
		t.Errorf("Validate with AllowHTTP = %v, want nil", err)
	}

	// The override applies to http only, never to other schemes.
	if err := safeurl.Validate("ftp://example.com/file", opts); err == nil {
		t.Error("Validate(ftp) with AllowHTTP = nil, want error")
	}

	// Private ranges stay blocked even with the override.
	if err := safeurl.Validate("http://192.168.1.10/hooks", opts); err == nil {
		t.Error("Validate(private) with AllowHTTP = nil, want error")
	}
}

func TestValidateRejectsLoopbackAndLocal(t *testing.T) {
	invalid := []string{
		"https://localhost/hooks",
		"https://localhost:3000/hooks",
		"https://sub.localhost/hooks",
		"https://0.0.0.0/hooks",
		"https://127.0.0.1/hooks",
		"https://127.1.2.3/hooks",
		"https://[::1]/hooks",
		"https://[::ffff:127.0.0.1]/hooks",
	}

	for _, raw := range invalid {
		if err := safeurl.Validate(raw, safeurl.Options{}); err == nil {
			t.Errorf("Validate(%q) = nil, want error", raw)
		}
	}
}

func TestValidateRejectsPrivateRanges(t *testing.T) {
	invalid := []string{
		"https://10.0.0.1/hooks",
		"https://10.255.255.255/hooks",
		"https://172.16.0.1/hooks",
		"https://172.31.255.255/hooks",
		"https://192.168.0.1/hooks",
		"https://192.168.255.1/hooks",
		"https://169.254.0.1/hooks",
		"https://[fe80::1]/hooks",
		"https://[fc00::1]/hooks",
		"https://[fd12:3456::1]/hooks",
	}

	for _, raw := range invalid {
		if err := safeurl.Validate(raw, safeurl.Options{}); err == nil {
			t.Errorf("Validate(%q) = nil, want error", raw)
		}
	}
}

func TestValidateCloudMetadataReason(t *testing.T) {
	err := safeurl.Validate("https://169.254.169.254/latest/meta-data/", safeurl.Options{})
	if err == nil {
		t.Fatal("expected error for cloud metadata address")
	}
	if !strings.Contains(err.Error(), "cloud metadata") {
		t.Errorf("reason should mention cloud metadata, got %q", err.Error())
	}
}

func TestValidateRejectsInternalHostnames(t *testing.T) {
	invalid := []string{
		"https://metadata.google.internal/computeMetadata/v1/",
		"https://foo.metadata.google.internal/",
		"https://metadata.goog/",
		"https://kubernetes.default/api",
		"https://kubernetes.default.svc/api",
		"https://foo.kubernetes.default.svc/api",
	}

	for _, raw := range invalid {
		if err := safeurl.Validate(raw, safeurl.Options{}); err == nil {
			t.Errorf("Validate(%q) = nil, want error", raw)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !safeurl.IsValid("https://example.com", safeurl.Options{}) {
		t.Error("IsValid(https://example.com) = false")
	}
	if safeurl.IsValid("https://10.0.0.1", safeurl.Options{}) {
		t.Error("IsValid(https://10.0.0.1) = true")
	}
}
