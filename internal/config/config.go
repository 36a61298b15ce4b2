package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"webmclip/internal/dirs"
	"webmclip/internal/model"
	"webmclip/internal/options"
)

// Config keys.
const (
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
	KeyFFprobe    = "ffprobe"
	KeyFFmpeg     = "ffmpeg"
	KeyOutputDir  = "output_dir"
	KeyVideoCodec = "video_codec"
	KeyAudioCodec = "audio_codec"
	KeyRateMode   = "rate_mode"
	KeyTwoPass    = "two_pass"
	KeyOutput     = "output"
)

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: any errors are returned for optional handling by caller.
func Init(root *cobra.Command) error {
	_ = dirs.EnsureAll()

	// Setup config search path
	if cfgDir, err := dirs.ConfigDir(); err == nil {
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: WEBMCLIP_*
	viper.SetEnvPrefix("WEBMCLIP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())

	// Bind root persistent flags to Viper keys
	_ = viper.BindPFlag(KeyLogLevel, root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(KeyLogFormat, root.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(KeyFFprobe, root.PersistentFlags().Lookup("ffprobe"))

	// Read config file if present (ignore not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyFFprobe, "")
	v.SetDefault(KeyFFmpeg, "")
	v.SetDefault(KeyOutputDir, "")
	v.SetDefault(KeyVideoCodec, string(model.CodecVP9))
	v.SetDefault(KeyAudioCodec, string(model.CodecOpus))
	v.SetDefault(KeyRateMode, string(model.RateLimit))
	v.SetDefault(KeyTwoPass, true)
	v.SetDefault(KeyOutput, "text")
}

// Settings is the resolved configuration.
type Settings struct {
	LogLevel   string
	LogFormat  string
	FFprobe    string
	FFmpeg     string
	OutputDir  string
	VideoCodec string
	AudioCodec string
	RateMode   string
	TwoPass    bool
	Output     string
}

// Load reads Settings from v.
func Load(v *viper.Viper) Settings {
	return Settings{
		LogLevel:   v.GetString(KeyLogLevel),
		LogFormat:  v.GetString(KeyLogFormat),
		FFprobe:    v.GetString(KeyFFprobe),
		FFmpeg:     v.GetString(KeyFFmpeg),
		OutputDir:  v.GetString(KeyOutputDir),
		VideoCodec: v.GetString(KeyVideoCodec),
		AudioCodec: v.GetString(KeyAudioCodec),
		RateMode:   v.GetString(KeyRateMode),
		TwoPass:    v.GetBool(KeyTwoPass),
		Output:     v.GetString(KeyOutput),
	}
}

// Current reads Settings from the global Viper instance.
func Current() Settings {
	return Load(viper.GetViper())
}

// ApplyTo seeds f with the configured codec and rate control defaults.
// Changes go through the same transitions as interactive edits.
func (s Settings) ApplyTo(f *options.Fields) error {
	var env options.Env
	if s.VideoCodec != "" {
		if err := options.Apply(f, options.Select("vcodec", s.VideoCodec), env); err != nil {
			return fmt.Errorf("config %s: %w", KeyVideoCodec, err)
		}
	}
	if s.AudioCodec != "" && model.AudioCodec(strings.ToLower(s.AudioCodec)) != f.AudioCodec {
		if err := options.Apply(f, options.Select("acodec", s.AudioCodec), env); err != nil {
			return fmt.Errorf("config %s: %w", KeyAudioCodec, err)
		}
	}
	if err := options.Apply(f, options.Check("mode2Pass", s.TwoPass), env); err != nil {
		return err
	}
	return ApplyRateMode(f, s.RateMode)
}

// ApplyRateMode switches f to the named rate control mode.
func ApplyRateMode(f *options.Fields, mode string) error {
	var env options.Env
	var limit, crf bool
	switch model.RateMode(strings.ToLower(strings.TrimSpace(mode))) {
	case "":
		return nil
	case model.RateLimit:
		limit = true
	case model.RateBitrate:
	case model.RateCRF:
		crf = true
	default:
		return fmt.Errorf("config %s: unsupported mode %q (want limit, bitrate or crf)", KeyRateMode, mode)
	}
	if err := options.Apply(f, options.Check("modeLimit", limit), env); err != nil {
		return err
	}
	if crf != f.ModeCRF {
		return options.Apply(f, options.Check("modeCRF", crf), env)
	}
	return nil
}
