package config_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrpbootstrap/internal/config"
)

func TestCoalesce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"${XRPBOOT_DSN}", ""},
		{"${OTHER}", "${OTHER}"},
		{" postgres://localhost/db ", "postgres://localhost/db"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, config.Coalesce(tt.value, "XRPBOOT_DSN"), "value %q", tt.value)
	}
}

func TestLoadDefaults(t *testing.T) {
	v := config.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(v, flags)

	cfg := config.Load(v)
	assert.Equal(t, config.Config{Executor: "railway"}, cfg)
}

func TestLoadFromFlags(t *testing.T) {
	v := config.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(v, flags)

	require.NoError(t, flags.Parse([]string{"--executor", "/opt/railway", "--dsn", "postgres://x", "-v", "--no-color"}))

	cfg := config.Load(v)
	assert.Equal(t, config.Config{
		Executor: "/opt/railway",
		DSN:      "postgres://x",
		Verbose:  true,
		NoColor:  true,
	}, cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("XRPBOOT_DSN", "${XRPBOOT_DSN}")
	t.Setenv("XRPBOOT_EXECUTOR", "railway-beta")
	t.Setenv("XRPBOOT_NO_COLOR", "true")

	v := config.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(v, flags)

	cfg := config.Load(v)
	assert.Equal(t, "railway-beta", cfg.Executor)
	assert.Empty(t, cfg.DSN)
	assert.True(t, cfg.NoColor)
}
