package vault

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/formhook/internal/config"
)

// ResolveConfig returns cfg with vault: references in storage.key and
// form.csrf_key replaced by their values.  Vault is only contacted when at
// least one reference is present.
func ResolveConfig(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (config.Config, error) {
	refs := []*string{&cfg.Storage.Key, &cfg.Form.CSRFKey}

	var c *Client
	for _, p := range refs {
		if !IsRef(*p) {
			continue
		}
		if c == nil {
			vc, err := New(ctx, log)
			if err != nil {
				return cfg, err
			}
			c = vc
		}
		v, err := c.Resolve(ctx, *p)
		if err != nil {
			return cfg, fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = v
	}
	return cfg, nil
}
