package midi

import (
	"github.com/leandrodaf/midiwire/internal/logger"
	"github.com/leandrodaf/midiwire/sdk/contracts"
	"github.com/leandrodaf/midiwire/sdk/parser"
)

// applyDefaultOptions sets default values for Options if not explicitly
// provided.
//
// opts ...contracts.Option: A variadic list of option functions that can
// modify Options.
//
// Returns:
//   - contracts.Options: The finalized options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.Options, error) {
	options := &contracts.Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.MaxPacketsPerRead <= 0 {
		// Enough pulls to drain a full SysEx buffer of 3-byte payloads
		// in one Read call.
		options.MaxPacketsPerRead = (parser.SysExBufferSize + 2) / 3
	}
	if options.SysExSendChunk <= 0 {
		options.SysExSendChunk = 64
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
