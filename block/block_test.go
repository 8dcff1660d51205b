package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

// roundTrip encodes b, decodes the bytes through the registry and re-encodes,
// requiring byte identity and an exact Size.
func roundTrip(t *testing.T, b Block) Block {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))
	require.Equal(t, b.Size(), buf.Len())

	decoded, err := Build(bytes.NewReader(buf.Bytes()), b.Type(), b.Format(), buf.Len())
	require.NoError(t, err)
	require.Equal(t, b.Type(), decoded.Type())
	require.Equal(t, b.Format(), decoded.Format())
	require.Equal(t, buf.Len(), decoded.Size())

	var again bytes.Buffer
	require.NoError(t, decoded.Write(&again))
	require.Equal(t, buf.Bytes(), again.Bytes())

	return decoded
}

func TestBuildUnknownType(t *testing.T) {
	_, err := Build(bytes.NewReader(nil), format.BlockType(42), 0, 0)
	require.ErrorIs(t, err, errs.ErrUnknownBlockType)
}

func TestBuildSentinelTypes(t *testing.T) {
	b, err := Build(bytes.NewReader(nil), format.UnusedSlot, 0, 0)
	require.NoError(t, err)
	require.Zero(t, b.Size())

	b, err = Build(bytes.NewReader(nil), format.NotDefined, 0, 0)
	require.NoError(t, err)
	require.Zero(t, b.Size())
}

func TestRawPreservesPayload(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}
	decoded, err := Build(bytes.NewReader(payload), format.AnthropometricData, 7, len(payload))
	require.NoError(t, err)

	raw, ok := decoded.(*Raw)
	require.True(t, ok)
	require.Equal(t, format.AnthropometricData, raw.Type())
	require.Equal(t, uint32(7), raw.Format())
	require.Equal(t, payload, raw.Data)

	roundTrip(t, raw)
}

func TestBuildRawShortPayload(t *testing.T) {
	_, err := Build(bytes.NewReader([]byte{1, 2}), format.AnalogData, 1, 10)
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestBuildRawNegativeSize(t *testing.T) {
	_, err := Build(bytes.NewReader(nil), format.AnalogData, 1, -1)
	require.ErrorIs(t, err, errs.ErrInvalidContainer)
}
