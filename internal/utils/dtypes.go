package utils

import (
	"fmt"

	"github.com/gomlx/gopjrt/dtypes"
)

// DTypeToONNX returns the ONNX textual name for a dtype, as it appears in
// tensor type annotations (e.g. "uint8[1,3,224,224]").
func DTypeToONNX(dtype dtypes.DType) string {
	switch dtype {
	case dtypes.F64:
		return "double"
	case dtypes.F32:
		return "float"
	case dtypes.F16:
		return "float16"
	case dtypes.BFloat16:
		return "bfloat16"
	case dtypes.S64:
		return "int64"
	case dtypes.S32:
		return "int32"
	case dtypes.S16:
		return "int16"
	case dtypes.S8:
		return "int8"
	case dtypes.U64:
		return "uint64"
	case dtypes.U32:
		return "uint32"
	case dtypes.U16:
		return "uint16"
	case dtypes.U8:
		return "uint8"
	case dtypes.Bool:
		return "bool"
	case dtypes.Complex64:
		return "complex64"
	case dtypes.Complex128:
		return "complex128"
	default:
		return fmt.Sprintf("unknown_dtype<%s>", dtype.String())
	}
}
