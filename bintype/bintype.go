// Package bintype implements the typed binary codec every TDF layer is built
// on: fixed-width little-endian scalars, fixed-shape vectors and matrices,
// batch reads and writes, and explicit skip/pad operations for the reserved
// regions of the format.
//
// All reads fail with errs.ErrUnexpectedEOF (wrapped) when the stream ends
// before a fixed-width value completes.
package bintype

import (
	"fmt"
	"io"
	"math"

	"github.com/movelab/tdf/endian"
	"github.com/movelab/tdf/errs"
)

// engine is the byte order of every multi-byte field in a TDF file.
var engine = endian.GetLittleEndianEngine()

// Fixed vector and matrix shapes used by the block codecs. The f32 shapes
// carry capture data; the f64 shapes appear only in camera calibration records.
type (
	Vec2   [2]float32
	Vec3   [3]float32
	Mat3x3 [3][3]float32

	Vec2i [2]int32

	Vec2d   [2]float64
	Vec3d   [3]float64
	Mat3x3d [3][3]float64
)

func readN(r io.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: invalid length %d", errs.ErrUnexpectedEOF, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: want %d bytes: %v", errs.ErrUnexpectedEOF, n, err)
	}

	return buf, nil
}

// ReadUint32 reads one little-endian uint32.
func ReadUint32(r io.Reader) (uint32, error) {
	b, err := readN(r, 4)
	if err != nil {
		return 0, err
	}

	return engine.Uint32(b), nil
}

// ReadInt32 reads one little-endian int32.
func ReadInt32(r io.Reader) (int32, error) {
	v, err := ReadUint32(r)

	return int32(v), err
}

// ReadUint16 reads one little-endian uint16.
func ReadUint16(r io.Reader) (uint16, error) {
	b, err := readN(r, 2)
	if err != nil {
		return 0, err
	}

	return engine.Uint16(b), nil
}

// ReadInt16 reads one little-endian int16.
func ReadInt16(r io.Reader) (int16, error) {
	v, err := ReadUint16(r)

	return int16(v), err
}

// ReadFloat32 reads one little-endian IEEE 754 single.
func ReadFloat32(r io.Reader) (float32, error) {
	v, err := ReadUint32(r)

	return math.Float32frombits(v), err
}

// ReadFloat64 reads one little-endian IEEE 754 double.
func ReadFloat64(r io.Reader) (float64, error) {
	b, err := readN(r, 8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(engine.Uint64(b)), nil
}

// WriteUint32 writes one little-endian uint32.
func WriteUint32(w io.Writer, v uint32) error {
	var b [4]byte
	engine.PutUint32(b[:], v)
	_, err := w.Write(b[:])

	return err
}

// WriteInt32 writes one little-endian int32.
func WriteInt32(w io.Writer, v int32) error {
	return WriteUint32(w, uint32(v))
}

// WriteUint16 writes one little-endian uint16.
func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	engine.PutUint16(b[:], v)
	_, err := w.Write(b[:])

	return err
}

// WriteInt16 writes one little-endian int16.
func WriteInt16(w io.Writer, v int16) error {
	return WriteUint16(w, uint16(v))
}

// WriteFloat32 writes one little-endian IEEE 754 single.
func WriteFloat32(w io.Writer, v float32) error {
	return WriteUint32(w, math.Float32bits(v))
}

// WriteFloat64 writes one little-endian IEEE 754 double.
func WriteFloat64(w io.Writer, v float64) error {
	var b [8]byte
	engine.PutUint64(b[:], math.Float64bits(v))
	_, err := w.Write(b[:])

	return err
}

// ReadFloat32Slice reads n consecutive singles.
func ReadFloat32Slice(r io.Reader, n int) ([]float32, error) {
	b, err := readN(r, 4*n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(engine.Uint32(b[4*i:]))
	}

	return out, nil
}

// WriteFloat32Slice writes all values as consecutive singles.
func WriteFloat32Slice(w io.Writer, vals []float32) error {
	b := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		b = engine.AppendUint32(b, math.Float32bits(v))
	}
	_, err := w.Write(b)

	return err
}

// ReadFloat64Slice reads n consecutive doubles.
func ReadFloat64Slice(r io.Reader, n int) ([]float64, error) {
	b, err := readN(r, 8*n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(engine.Uint64(b[8*i:]))
	}

	return out, nil
}

// WriteFloat64Slice writes all values as consecutive doubles.
func WriteFloat64Slice(w io.Writer, vals []float64) error {
	b := make([]byte, 0, 8*len(vals))
	for _, v := range vals {
		b = engine.AppendUint64(b, math.Float64bits(v))
	}
	_, err := w.Write(b)

	return err
}

// ReadInt16Slice reads n consecutive int16 values.
func ReadInt16Slice(r io.Reader, n int) ([]int16, error) {
	b, err := readN(r, 2*n)
	if err != nil {
		return nil, err
	}
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(engine.Uint16(b[2*i:]))
	}

	return out, nil
}

// WriteInt16Slice writes all values as consecutive int16s.
func WriteInt16Slice(w io.Writer, vals []int16) error {
	b := make([]byte, 0, 2*len(vals))
	for _, v := range vals {
		b = engine.AppendUint16(b, uint16(v))
	}
	_, err := w.Write(b)

	return err
}

// ReadUint16Slice reads n consecutive uint16 values.
func ReadUint16Slice(r io.Reader, n int) ([]uint16, error) {
	b, err := readN(r, 2*n)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = engine.Uint16(b[2*i:])
	}

	return out, nil
}

// WriteUint16Slice writes all values as consecutive uint16s.
func WriteUint16Slice(w io.Writer, vals []uint16) error {
	b := make([]byte, 0, 2*len(vals))
	for _, v := range vals {
		b = engine.AppendUint16(b, v)
	}
	_, err := w.Write(b)

	return err
}

// ReadVec2 reads a 2-float record.
func ReadVec2(r io.Reader) (Vec2, error) {
	var v Vec2
	vals, err := ReadFloat32Slice(r, 2)
	if err != nil {
		return v, err
	}
	copy(v[:], vals)

	return v, nil
}

// WriteVec2 writes a 2-float record.
func WriteVec2(w io.Writer, v Vec2) error {
	return WriteFloat32Slice(w, v[:])
}

// ReadVec3 reads a 3-float record.
func ReadVec3(r io.Reader) (Vec3, error) {
	var v Vec3
	vals, err := ReadFloat32Slice(r, 3)
	if err != nil {
		return v, err
	}
	copy(v[:], vals)

	return v, nil
}

// WriteVec3 writes a 3-float record.
func WriteVec3(w io.Writer, v Vec3) error {
	return WriteFloat32Slice(w, v[:])
}

// ReadMat3x3 reads a row-major 3x3 single-precision matrix.
func ReadMat3x3(r io.Reader) (Mat3x3, error) {
	var m Mat3x3
	vals, err := ReadFloat32Slice(r, 9)
	if err != nil {
		return m, err
	}
	for i := 0; i < 3; i++ {
		copy(m[i][:], vals[3*i:3*i+3])
	}

	return m, nil
}

// WriteMat3x3 writes a row-major 3x3 single-precision matrix.
func WriteMat3x3(w io.Writer, m Mat3x3) error {
	vals := make([]float32, 0, 9)
	for i := 0; i < 3; i++ {
		vals = append(vals, m[i][:]...)
	}

	return WriteFloat32Slice(w, vals)
}

// ReadVec2i reads a 2-int32 record.
func ReadVec2i(r io.Reader) (Vec2i, error) {
	var v Vec2i
	b, err := readN(r, 8)
	if err != nil {
		return v, err
	}
	v[0] = int32(engine.Uint32(b[0:]))
	v[1] = int32(engine.Uint32(b[4:]))

	return v, nil
}

// WriteVec2i writes a 2-int32 record.
func WriteVec2i(w io.Writer, v Vec2i) error {
	if err := WriteInt32(w, v[0]); err != nil {
		return err
	}

	return WriteInt32(w, v[1])
}

// ReadVec2d reads a 2-double record.
func ReadVec2d(r io.Reader) (Vec2d, error) {
	var v Vec2d
	vals, err := ReadFloat64Slice(r, 2)
	if err != nil {
		return v, err
	}
	copy(v[:], vals)

	return v, nil
}

// WriteVec2d writes a 2-double record.
func WriteVec2d(w io.Writer, v Vec2d) error {
	return WriteFloat64Slice(w, v[:])
}

// ReadVec3d reads a 3-double record.
func ReadVec3d(r io.Reader) (Vec3d, error) {
	var v Vec3d
	vals, err := ReadFloat64Slice(r, 3)
	if err != nil {
		return v, err
	}
	copy(v[:], vals)

	return v, nil
}

// WriteVec3d writes a 3-double record.
func WriteVec3d(w io.Writer, v Vec3d) error {
	return WriteFloat64Slice(w, v[:])
}

// ReadMat3x3d reads a row-major 3x3 double-precision matrix.
func ReadMat3x3d(r io.Reader) (Mat3x3d, error) {
	var m Mat3x3d
	vals, err := ReadFloat64Slice(r, 9)
	if err != nil {
		return m, err
	}
	for i := 0; i < 3; i++ {
		copy(m[i][:], vals[3*i:3*i+3])
	}

	return m, nil
}

// WriteMat3x3d writes a row-major 3x3 double-precision matrix.
func WriteMat3x3d(w io.Writer, m Mat3x3d) error {
	vals := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		vals = append(vals, m[i][:]...)
	}

	return WriteFloat64Slice(w, vals)
}

// Skip discards exactly n bytes from the stream. Used for the reserved and
// padding regions of headers and entries.
func Skip(r io.Reader, n int) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		return fmt.Errorf("%w: skipping %d bytes: %v", errs.ErrUnexpectedEOF, n, err)
	}

	return nil
}

// Pad writes exactly n zero bytes.
func Pad(w io.Writer, n int) error {
	if n == 0 {
		return nil
	}
	_, err := w.Write(make([]byte, n))

	return err
}
