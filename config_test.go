package itqlsh

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	base := Config{L: 4, D: 32, N: 16, S: 100, I: 10, K: 10, HammingRadius: 2}

	if err := base.Validate(1000); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(c Config) Config
	}{
		{"L non-positive", func(c Config) Config { c.L = 0; return c }},
		{"D non-positive", func(c Config) Config { c.D = 0; return c }},
		{"N exceeds D", func(c Config) Config { c.N = 64; return c }},
		{"S exceeds dataset", func(c Config) Config { c.S = 10000; return c }},
		{"I negative", func(c Config) Config { c.I = -1; return c }},
		{"K non-positive", func(c Config) Config { c.K = 0; return c }},
		{"hamming radius out of range", func(c Config) Config { c.HammingRadius = 100; return c }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.mutate(base)
			err := cfg.Validate(1000)
			if err == nil {
				t.Fatalf("expected ParamError for %s", tc.name)
			}
			var ie *IndexError
			if !errors.As(err, &ie) || ie.Kind != KindParam {
				t.Errorf("error = %v, want KindParam IndexError", err)
			}
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("errors.Is(err, ErrInvalidParams) = false")
			}
		})
	}
}
