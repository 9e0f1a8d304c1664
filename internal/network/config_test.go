package network

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Switches: []SwitchConfig{{ID: "sw1"}, {ID: "sw2", Name: "edge"}}}
	cfg.ApplyDefaults()

	if cfg.Executor != ExecutorShell {
		t.Errorf("Executor = %q, want %q", cfg.Executor, ExecutorShell)
	}
	if cfg.NetnsDir != DefaultNetnsDir {
		t.Errorf("NetnsDir = %q, want %q", cfg.NetnsDir, DefaultNetnsDir)
	}
	if cfg.CommandTimeout != DefaultCommandTimeout {
		t.Errorf("CommandTimeout = %v, want %v", cfg.CommandTimeout, DefaultCommandTimeout)
	}
	if cfg.MaxOutputBytes != DefaultMaxOutputBytes {
		t.Errorf("MaxOutputBytes = %d, want %d", cfg.MaxOutputBytes, DefaultMaxOutputBytes)
	}
	if cfg.Switches[0].Name != "sw1" {
		t.Errorf("switch name should default to id, got %q", cfg.Switches[0].Name)
	}
	if cfg.Switches[1].Name != "edge" {
		t.Errorf("explicit switch name overwritten: %q", cfg.Switches[1].Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate after defaults: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown executor", func(c *Config) { c.Executor = "ssh" }, "unknown executor"},
		{"timeout too small", func(c *Config) { c.CommandTimeout = time.Millisecond }, "CommandTimeout"},
		{"output too small", func(c *Config) { c.MaxOutputBytes = 10 }, "MaxOutputBytes"},
		{"missing id", func(c *Config) { c.Switches = []SwitchConfig{{Name: "x"}} }, "switch id is required"},
		{"duplicate id", func(c *Config) { c.Switches = []SwitchConfig{{ID: "a"}, {ID: "a", Name: "b"}} }, "duplicate switch id"},
		{"duplicate name", func(c *Config) { c.Switches = []SwitchConfig{{ID: "a"}, {ID: "b", Name: "a"}} }, "duplicate switch name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_UnknownExecutorSentinel(t *testing.T) {
	cfg := Config{Executor: "ssh"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownExecutor) {
		t.Errorf("Validate() = %v, want ErrUnknownExecutor", err)
	}
}
