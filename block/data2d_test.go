package block

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

func testData2D(t *testing.T) *Data2D {
	t.Helper()

	b := NewData2D(120, 2, []uint16{0, 1, 3})
	b.StartTime = time.Unix(1723000000, 0)
	b.Flags = format.Data2DWithoutDistortion

	require.NoError(t, b.SetPointsAt(0, 0, []bintype.Vec2{{10, 20}, {30, 40}}))
	require.NoError(t, b.SetPointsAt(0, 2, []bintype.Vec2{{50, 60}}))
	require.NoError(t, b.SetPointsAt(1, 1, []bintype.Vec2{{70, 80}, {90, 100}, {110, 120}}))

	return b
}

func TestData2DRoundTrip(t *testing.T) {
	decoded := roundTrip(t, testData2D(t)).(*Data2D)

	require.Equal(t, int32(2), decoded.Frames())
	require.Equal(t, []uint16{0, 1, 3}, decoded.Cameras())
	require.Equal(t, format.Data2DWithoutDistortion, decoded.Flags)
	require.True(t, decoded.StartTime.Equal(time.Unix(1723000000, 0)))

	pts, err := decoded.PointsAt(0, 0)
	require.NoError(t, err)
	require.Equal(t, []bintype.Vec2{{10, 20}, {30, 40}}, pts)

	pts, err = decoded.PointsAt(1, 0)
	require.NoError(t, err)
	require.Empty(t, pts)

	pts, err = decoded.PointsAt(1, 1)
	require.NoError(t, err)
	require.Len(t, pts, 3)
}

func TestData2DSize(t *testing.T) {
	b := testData2D(t)

	// 20 header + 6 camera map + 12 count matrix + 6 points of 8 bytes.
	require.Equal(t, 20+6+12+48, b.Size())
}

func TestData2DIndexOutOfRange(t *testing.T) {
	b := testData2D(t)

	_, err := b.PointsAt(2, 0)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	_, err = b.PointsAt(0, 3)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	require.ErrorIs(t, b.SetPointsAt(-1, 0, nil), errs.ErrIndexOutOfRange)
}

func TestData2DUnsupportedFormat(t *testing.T) {
	_, err := buildData2D(bytes.NewReader(nil), format.Data2DRTS)
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}

func TestData2DPointListTooLong(t *testing.T) {
	b := NewData2D(120, 1, []uint16{0})
	pts := make([]bintype.Vec2, maxPointsPerFrame+1)

	require.ErrorIs(t, b.SetPointsAt(0, 0, pts), errs.ErrCapacityExceeded)

	// A list smuggled past SetPointsAt must not truncate on the wire either.
	b.Points()[0][0] = pts
	require.ErrorIs(t, b.Write(&bytes.Buffer{}), errs.ErrCapacityExceeded)
}

func TestData2DRejectsNegativeCounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bintype.WriteInt32(&buf, -1)) // camera count
	require.NoError(t, bintype.WriteInt32(&buf, 2))  // frame count

	_, err := buildData2D(bytes.NewReader(buf.Bytes()), format.Data2DPCK)
	require.ErrorIs(t, err, errs.ErrInvalidContainer)
}
