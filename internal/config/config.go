package config

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/wirehdr/internal/protocol/frame"
)

// Config is a resolved wirehdr configuration.
type Config struct {
	Limits frame.Limits
	Frame  frame.Frame
}

type fileConfig struct {
	Limits limitsConfig `toml:"limits"`
	Header headerConfig `toml:"header"`
}

type limitsConfig struct {
	MaxBodyBytes int64 `toml:"max_body_bytes"`
	MaxAuthBytes int64 `toml:"max_auth_bytes"`
}

// Session is a string so the full u64 range fits; TOML integers are signed.
type headerConfig struct {
	Provider    int64  `toml:"provider"`
	Session     string `toml:"session"`
	ContentType int64  `toml:"content_type"`
	AcceptType  int64  `toml:"accept_type"`
	AuthType    int64  `toml:"auth_type"`
	Opcode      int64  `toml:"opcode"`
	Status      int64  `toml:"status"`
	Body        string `toml:"body"`
	Auth        string `toml:"auth"`
}

func Default() Config {
	return Config{Limits: frame.DefaultLimits()}
}

// Load reads path and applies every key it defines over Default.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg, err := resolve(raw, meta)
	if err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for in-memory TOML.
func Parse(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}
	return resolve(raw, meta)
}

func resolve(raw fileConfig, meta toml.MetaData) (Config, error) {
	cfg := Default()
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("limits", "max_body_bytes") {
		v, err := bounded("limits.max_body_bytes", raw.Limits.MaxBodyBytes, math.MaxUint32)
		if err != nil {
			return Config{}, err
		}
		cfg.Limits.MaxBodyBytes = uint32(v)
	}
	if meta.IsDefined("limits", "max_auth_bytes") {
		v, err := bounded("limits.max_auth_bytes", raw.Limits.MaxAuthBytes, math.MaxUint16)
		if err != nil {
			return Config{}, err
		}
		cfg.Limits.MaxAuthBytes = uint16(v)
	}

	h := &cfg.Frame.Header
	u8 := []struct {
		key string
		src int64
		dst *uint8
	}{
		{"provider", raw.Header.Provider, &h.Provider},
		{"content_type", raw.Header.ContentType, &h.ContentType},
		{"accept_type", raw.Header.AcceptType, &h.AcceptType},
		{"auth_type", raw.Header.AuthType, &h.AuthType},
	}
	for _, f := range u8 {
		if !meta.IsDefined("header", f.key) {
			continue
		}
		v, err := bounded("header."+f.key, f.src, math.MaxUint8)
		if err != nil {
			return Config{}, err
		}
		*f.dst = uint8(v)
	}

	u16 := []struct {
		key string
		src int64
		dst *uint16
	}{
		{"opcode", raw.Header.Opcode, &h.Opcode},
		{"status", raw.Header.Status, &h.Status},
	}
	for _, f := range u16 {
		if !meta.IsDefined("header", f.key) {
			continue
		}
		v, err := bounded("header."+f.key, f.src, math.MaxUint16)
		if err != nil {
			return Config{}, err
		}
		*f.dst = uint16(v)
	}

	if meta.IsDefined("header", "session") {
		v, err := strconv.ParseUint(strings.TrimSpace(raw.Header.Session), 0, 64)
		if err != nil {
			return Config{}, fmt.Errorf("header.session: %w", err)
		}
		h.Session = v
	}

	var err error
	if cfg.Frame.Body, err = decodeHex("header.body", raw.Header.Body); err != nil {
		return Config{}, err
	}
	if cfg.Frame.Auth, err = decodeHex("header.auth", raw.Header.Auth); err != nil {
		return Config{}, err
	}
	h.BodyLen = uint32(len(cfg.Frame.Body))
	h.AuthLen = uint16(len(cfg.Frame.Auth))

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configured frame fits the configured limits.
func Validate(cfg Config) error {
	if uint64(len(cfg.Frame.Body)) > uint64(cfg.Limits.MaxBodyBytes) {
		return fmt.Errorf("header.body is %d bytes, limit %d", len(cfg.Frame.Body), cfg.Limits.MaxBodyBytes)
	}
	if len(cfg.Frame.Auth) > int(cfg.Limits.MaxAuthBytes) {
		return fmt.Errorf("header.auth is %d bytes, limit %d", len(cfg.Frame.Auth), cfg.Limits.MaxAuthBytes)
	}
	return nil
}

func bounded(key string, v, max int64) (int64, error) {
	if v < 0 || v > max {
		return 0, fmt.Errorf("%s out of range [0, %d]: %d", key, max, v)
	}
	return v, nil
}

func decodeHex(key, raw string) ([]byte, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if raw == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
