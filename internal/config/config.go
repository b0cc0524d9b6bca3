// Package config resolves CLI settings from flags and XRPBOOT_* environment
// variables.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"xrpbootstrap/internal/executor/railway"
)

const EnvPrefix = "XRPBOOT"

const (
	KeyExecutor = "executor"
	KeyDSN      = "dsn"
	KeyVerbose  = "verbose"
	KeyNoColor  = "no-color"
)

type Config struct {
	// Executor is the remote CLI binary name or path.
	Executor string
	// DSN enables run history in PostgreSQL when set.
	DSN     string
	Verbose bool
	NoColor bool
}

// New returns a viper instance reading XRPBOOT_* variables.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyExecutor, railway.DefaultBinary)
	return v
}

// BindFlags registers the persistent flags and binds them to v.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.String(KeyExecutor, railway.DefaultBinary, "Railway CLI binary name or path ($XRPBOOT_EXECUTOR)")
	flags.String(KeyDSN, "", "PostgreSQL DSN for run history, optional ($XRPBOOT_DSN)")
	flags.BoolP(KeyVerbose, "v", false, "log executor commands and step details to stderr")
	flags.Bool(KeyNoColor, false, "disable coloured output")

	for _, k := range []string{KeyExecutor, KeyDSN, KeyVerbose, KeyNoColor} {
		_ = v.BindPFlag(k, flags.Lookup(k))
	}
}

func Load(v *viper.Viper) Config {
	exe := Coalesce(v.GetString(KeyExecutor), "XRPBOOT_EXECUTOR")
	if exe == "" {
		exe = railway.DefaultBinary
	}
	return Config{
		Executor: exe,
		DSN:      Coalesce(v.GetString(KeyDSN), "XRPBOOT_DSN"),
		Verbose:  v.GetBool(KeyVerbose),
		NoColor:  v.GetBool(KeyNoColor),
	}
}

// Coalesce treats blank values and unexpanded "${NAME}" placeholders, which
// some deploy environments leave behind, as unset.
func Coalesce(value, name string) string {
	s := strings.TrimSpace(value)
	if s == "" || s == "${"+name+"}" {
		return ""
	}
	return s
}
