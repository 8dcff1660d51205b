package segment

import (
	"io"
	"math"

	"github.com/movelab/tdf/bintype"
)

// Float32 is the Codec for one-float records (EMG samples and similar
// single-channel signals). The value itself is the missingness probe.
var Float32 Codec[float32] = float32Codec{}

type float32Codec struct{}

func (float32Codec) RecordSize() int { return 4 }

func (float32Codec) Blank() float32 { return float32(math.NaN()) }

func (float32Codec) Missing(v float32) bool { return math.IsNaN(float64(v)) }

func (float32Codec) ReadRun(r io.Reader, n int) ([]float32, error) {
	return bintype.ReadFloat32Slice(r, n)
}

func (float32Codec) WriteRun(w io.Writer, run []float32) error {
	return bintype.WriteFloat32Slice(w, run)
}

// Vec3 is the Codec for 3-float records (marker positions). The X component
// is the missingness probe.
var Vec3 Codec[bintype.Vec3] = vec3Codec{}

type vec3Codec struct{}

func (vec3Codec) RecordSize() int { return 12 }

func (vec3Codec) Blank() bintype.Vec3 {
	nan := float32(math.NaN())

	return bintype.Vec3{nan, nan, nan}
}

func (vec3Codec) Missing(v bintype.Vec3) bool { return math.IsNaN(float64(v[0])) }

func (vec3Codec) ReadRun(r io.Reader, n int) ([]bintype.Vec3, error) {
	flat, err := bintype.ReadFloat32Slice(r, 3*n)
	if err != nil {
		return nil, err
	}
	out := make([]bintype.Vec3, n)
	for i := range out {
		copy(out[i][:], flat[3*i:3*i+3])
	}

	return out, nil
}

func (vec3Codec) WriteRun(w io.Writer, run []bintype.Vec3) error {
	flat := make([]float32, 0, 3*len(run))
	for _, v := range run {
		flat = append(flat, v[:]...)
	}

	return bintype.WriteFloat32Slice(w, flat)
}
