package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"liftcup/internal/dirs"
	"liftcup/internal/model"
)

// Viper keys and the persistent flags they are bound to.
var flagKeys = map[string]string{
	"temp_dir":        "temp-dir",
	"log_dir":         "log-dir",
	"debug":           "debug",
	"nolog":           "nolog",
	"rar_binary":      "rar-binary",
	"sfv_binary":      "sfv-binary",
	"par2_binary":     "par2-binary",
	"uploader":        "uploader",
	"uploader_config": "uploader-config",
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: a missing config file is not an error.
func Init(root *cobra.Command) error {
	_ = dirs.EnsureAll()

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: LIFTCUP_*
	viper.SetEnvPrefix("LIFTCUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if p, err := dirs.TempBaseDir(); err == nil {
		viper.SetDefault("temp_dir", p)
	}
	if p, err := dirs.LogDir(); err == nil {
		viper.SetDefault("log_dir", p)
	}

	for key, flag := range flagKeys {
		if f := root.PersistentFlags().Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

// Apply copies the resolved persistent settings into opts.
func Apply(opts *model.Options) {
	opts.TempDir = viper.GetString("temp_dir")
	opts.LogDir = viper.GetString("log_dir")
	opts.Debug = viper.GetBool("debug")
	opts.NoLog = viper.GetBool("nolog")
	opts.Tools.Rar = viper.GetString("rar_binary")
	opts.Tools.SFV = viper.GetString("sfv_binary")
	opts.Tools.Par2 = viper.GetString("par2_binary")
	opts.Tools.Uploader = viper.GetString("uploader")
	opts.Tools.UploaderConfig = viper.GetString("uploader_config")
}
