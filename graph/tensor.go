package graph

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Tensor is a constant initializer: an immutable typed array with raw
// little-endian contents.
type Tensor struct {
	dtype dtypes.DType
	dims  []int
	data  []byte
}

// byteSize returns the per-element byte width of dtype, or 0 if the dtype is
// not supported as an initializer element type.
func byteSize(dtype dtypes.DType) int {
	switch dtype {
	case dtypes.U8, dtypes.S8, dtypes.Bool:
		return 1
	case dtypes.U16, dtypes.S16, dtypes.F16, dtypes.BFloat16:
		return 2
	case dtypes.U32, dtypes.S32, dtypes.F32:
		return 4
	case dtypes.U64, dtypes.S64, dtypes.F64:
		return 8
	default:
		return 0
	}
}

// NewTensor creates a constant tensor from its element type, dimensions and
// raw little-endian contents. The data length must match the number of
// elements.
func NewTensor(dtype dtypes.DType, dims []int, data []byte) (*Tensor, error) {
	elemSize := byteSize(dtype)
	if elemSize == 0 {
		return nil, errors.Errorf("unsupported initializer dtype %s", dtype)
	}
	numElements := 1
	for _, dim := range dims {
		if dim < 0 {
			return nil, errors.Errorf("invalid dimension %d in tensor dimensions %v", dim, dims)
		}
		numElements *= dim
	}
	if len(data) != numElements*elemSize {
		return nil, errors.Errorf("tensor data has %d bytes, want %d (%d elements of %s)",
			len(data), numElements*elemSize, numElements, dtype)
	}
	return &Tensor{dtype: dtype, dims: slices.Clone(dims), data: data}, nil
}

// ScalarTensor creates a rank-0 tensor holding a single value of a basic Go
// type (or a float16.Float16).
func ScalarTensor(value any) (*Tensor, error) {
	dtype := dtypes.FromAny(value)
	if dtype == dtypes.INVALID {
		return nil, errors.Errorf("unsupported scalar value type %T", value)
	}
	var data []byte
	switch v := value.(type) {
	case bool:
		data = []byte{0}
		if v {
			data[0] = 1
		}
	case uint8:
		data = []byte{v}
	case int8:
		data = []byte{uint8(v)}
	case uint16:
		data = binary.LittleEndian.AppendUint16(nil, v)
	case int16:
		data = binary.LittleEndian.AppendUint16(nil, uint16(v))
	case uint32:
		data = binary.LittleEndian.AppendUint32(nil, v)
	case int32:
		data = binary.LittleEndian.AppendUint32(nil, uint32(v))
	case uint64:
		data = binary.LittleEndian.AppendUint64(nil, v)
	case int64:
		data = binary.LittleEndian.AppendUint64(nil, uint64(v))
	case float16.Float16:
		data = binary.LittleEndian.AppendUint16(nil, v.Bits())
	case float32:
		data = binary.LittleEndian.AppendUint32(nil, math.Float32bits(v))
	case float64:
		data = binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))
	default:
		return nil, errors.Errorf("unsupported scalar value type %T", value)
	}
	return &Tensor{dtype: dtype, data: data}, nil
}

// DType returns the tensor's element type.
func (t *Tensor) DType() dtypes.DType { return t.dtype }

// Dims returns the tensor's dimensions. The returned slice must not be
// modified.
func (t *Tensor) Dims() []int { return t.dims }

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	numElements := 1
	for _, dim := range t.dims {
		numElements *= dim
	}
	return numElements
}

// IsScalar reports whether the tensor holds exactly one element: rank zero,
// or a one-dimensional shape with a single element.
func (t *Tensor) IsScalar() bool {
	return len(t.dims) == 0 || (len(t.dims) == 1 && t.dims[0] == 1)
}

// ScalarInt returns the tensor's single element widened to an int64, for
// integer element types. It returns false if the tensor is not an integer
// scalar.
func (t *Tensor) ScalarInt() (int64, bool) {
	if !t.IsScalar() {
		return 0, false
	}
	switch t.dtype {
	case dtypes.U8:
		return int64(t.data[0]), true
	case dtypes.S8:
		return int64(int8(t.data[0])), true
	case dtypes.U16:
		return int64(binary.LittleEndian.Uint16(t.data)), true
	case dtypes.S16:
		return int64(int16(binary.LittleEndian.Uint16(t.data))), true
	case dtypes.U32:
		return int64(binary.LittleEndian.Uint32(t.data)), true
	case dtypes.S32:
		return int64(int32(binary.LittleEndian.Uint32(t.data))), true
	case dtypes.U64:
		return int64(binary.LittleEndian.Uint64(t.data)), true
	case dtypes.S64:
		return int64(binary.LittleEndian.Uint64(t.data)), true
	}
	return 0, false
}

// ScalarFloat returns the tensor's single element widened to a float64, for
// floating point element types. It returns false if the tensor is not a
// floating point scalar.
func (t *Tensor) ScalarFloat() (float64, bool) {
	if !t.IsScalar() {
		return 0, false
	}
	switch t.dtype {
	case dtypes.F16:
		return float64(float16.Frombits(binary.LittleEndian.Uint16(t.data)).Float32()), true
	case dtypes.BFloat16:
		return float64(math.Float32frombits(uint32(binary.LittleEndian.Uint16(t.data)) << 16)), true
	case dtypes.F32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(t.data))), true
	case dtypes.F64:
		return math.Float64frombits(binary.LittleEndian.Uint64(t.data)), true
	}
	return 0, false
}
