package exi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingDiagnostics struct {
	observed []*Error
	bitPos   []int64
}

func (r *recordingDiagnostics) Observe(bitPos int64, err *Error) {
	r.observed = append(r.observed, err)
	r.bitPos = append(r.bitPos, bitPos)
}

func TestDefaultEXIFactory_DiagnosticsObservesSanityCheckFailures(t *testing.T) {
	factory := NewDefaultEXIFactory()
	rec := &recordingDiagnostics{}
	factory.SetDiagnostics(rec)

	fidelity := NewDefaultFidelityOptions()
	require.NoError(t, fidelity.SetFidelity(FeatureSC, true))
	factory.SetFidelityOptions(fidelity)
	factory.SetCodingMode(CodingModeCompression)

	_, err := factory.CreateEXIBodyEncoder()
	require.Error(t, err)
	require.Len(t, rec.observed, 1)
	require.Equal(t, ErrMismatch, rec.observed[0].Kind)
}

func TestDefaultEXIFactory_SetDiagnosticsNilNormalizesToNop(t *testing.T) {
	factory := NewDefaultEXIFactory()
	factory.SetDiagnostics(nil)
	require.Equal(t, NopDiagnostics{}, factory.GetDiagnostics())
}
