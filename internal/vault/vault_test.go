package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/yanizio/formhook/internal/config"
)

func TestParseRef(t *testing.T) {
	cases := []struct {
		ref      string
		path     string
		key      string
		wantFail bool
	}{
		{ref: "vault:secret/formhook#service_key", path: "secret/formhook", key: "service_key"},
		{ref: "vault:kv/apps/formhook/prod#key", path: "kv/apps/formhook/prod", key: "key"},
		{ref: "vault:secret#key", wantFail: true},
		{ref: "vault:secret/formhook", wantFail: true},
		{ref: "vault:secret/formhook#", wantFail: true},
	}
	for _, tc := range cases {
		path, key, err := ParseRef(tc.ref)
		if tc.wantFail {
			if !errors.Is(err, ErrBadRef) {
				t.Errorf("ParseRef(%q) err = %v, want ErrBadRef", tc.ref, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRef(%q): %v", tc.ref, err)
		}
		if path != tc.path || key != tc.key {
			t.Errorf("ParseRef(%q) = %q, %q", tc.ref, path, key)
		}
	}
}

func TestResolve_LiteralPassesThrough(t *testing.T) {
	// A zero Client is enough: literals never reach the API.
	var c Client
	got, err := c.Resolve(context.Background(), "plain-service-key")
	if err != nil || got != "plain-service-key" {
		t.Fatalf("Resolve = %q, %v", got, err)
	}
}

func TestSplitMount(t *testing.T) {
	mount, rel := splitMount("secret/formhook/prod")
	if mount != "secret" || rel != "formhook/prod" {
		t.Fatalf("splitMount = %q, %q", mount, rel)
	}
}

func TestResolveConfig_NoRefsSkipsVault(t *testing.T) {
	t.Setenv("VAULT_ADDR", "http://127.0.0.1:1") // would fail if contacted

	cfg := config.Defaults()
	cfg.Storage.Key = "plain-key"
	got, err := ResolveConfig(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if got.Storage.Key != "plain-key" {
		t.Fatalf("Storage.Key = %q", got.Storage.Key)
	}
}

func TestResolveConfig_BadRef(t *testing.T) {
	t.Setenv("VAULT_ADDR", "http://127.0.0.1:1")

	cfg := config.Defaults()
	cfg.Form.CSRFKey = "vault:nofield"
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := ResolveConfig(ctx, cfg, nil); err == nil {
		t.Fatal("expected error for malformed reference")
	}
}
