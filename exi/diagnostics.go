package exi

import "github.com/rs/zerolog"

// Diagnostics is an optional text sink installed on the factory. It is
// orthogonal to control flow (spec §7): it never changes what gets
// returned to the caller. The factory passes it the error of a failed
// configuration check when creating an encoder or decoder, with bit
// position -1; errors raised while a stream is encoded or decoded are not
// passed to it.
type Diagnostics interface {
	Observe(bitPos int64, err *Error)
}

// NopDiagnostics discards everything; it is the zero-value sink used when
// a caller does not wire one in.
type NopDiagnostics struct{}

func (NopDiagnostics) Observe(bitPos int64, err *Error) {}

// ZerologDiagnostics adapts github.com/rs/zerolog as the diagnostics sink.
// Stream conditions that are ordinarily recoverable (OOB/FULL) log at
// warn; everything else logs at error.
type ZerologDiagnostics struct {
	Logger zerolog.Logger
}

func NewZerologDiagnostics(logger zerolog.Logger) *ZerologDiagnostics {
	return &ZerologDiagnostics{Logger: logger}
}

func (d *ZerologDiagnostics) Observe(bitPos int64, err *Error) {
	if err == nil {
		return
	}

	event := d.Logger.Error()
	if err.Kind == ErrOOB || err.Kind == ErrFull {
		event = d.Logger.Warn()
	}

	event.
		Str("kind", err.Kind.String()).
		Int64("bitPos", bitPos).
		Err(err).
		Msg("exi codec error")
}
