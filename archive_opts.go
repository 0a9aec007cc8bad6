package kmz

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/meigma/kmz/codec"
)

// config holds the collaborators shared by every archive constructor.
type config struct {
	codec  codec.Codec
	fsys   afero.Fs
	logger *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		codec: codec.NewZip(),
		fsys:  afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// log returns the logger, falling back to a discard logger if nil.
func (c config) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Option configures an Archive constructor.
type Option func(*config)

// WithCodec sets the codec used to decode and encode archive bytes.
// The default is the standard zip codec with its default limits.
func WithCodec(c codec.Codec) Option {
	return func(cfg *config) {
		cfg.codec = c
	}
}

// WithFS sets the filesystem used by OpenFile, Create, and Unpack.
// The default is the host filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(cfg *config) {
		cfg.fsys = fsys
	}
}

// WithLogger sets the logger for diagnostics. The default discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}
