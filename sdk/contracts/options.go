package contracts

// Options defines the configuration for MIDI interfaces built by the
// midi package.
type Options struct {
	Logger            Logger   // Logger for transport lifecycle events and errors.
	LogLevel          LogLevel // Level of logging to use.
	Cable             Cable    // Cable tagging messages on byte-oriented transports.
	MaxPacketsPerRead int      // Packets a USB interface pulls per Read call.
	SysExSendChunk    int      // Bytes per SysEx write burst on byte streams.
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the logger for the interface.
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the interface.
func WithLogLevel(level LogLevel) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithCable sets the cable number tagging messages parsed from and sent
// to a byte-oriented transport.
func WithCable(cable Cable) Option {
	return func(opts *Options) {
		opts.Cable = cable
	}
}

// WithMaxPacketsPerRead bounds how many packets a USB interface pulls
// from its source during a single Read call.
func WithMaxPacketsPerRead(n int) Option {
	return func(opts *Options) {
		opts.MaxPacketsPerRead = n
	}
}

// WithSysExSendChunk sets the burst size used when writing a System
// Exclusive body to a byte stream.
func WithSysExSendChunk(n int) Option {
	return func(opts *Options) {
		opts.SysExSendChunk = n
	}
}
