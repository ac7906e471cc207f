// Package pod reads plain-old-data structs out of image memory by copying their raw bytes.
package pod

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"regkeymap/fwimage"
)

var ErrNotPOD = errors.New("type contains pointers; not POD-safe")

func SizeOf[T any]() fwimage.ImageSize {
	var t T
	return fwimage.ImageSize(unsafe.Sizeof(t))
}

// ReadSliceT reads count consecutive T values starting at addr with a single image read.
func ReadSliceT[T any](img fwimage.ImageRead, addr fwimage.ImageAddress, count int) ([]T, error) {
	if count < 0 {
		return nil, errors.New("ReadSliceT: count must be positive")
	}

	size := SizeOf[T]()
	if size == 0 || count == 0 {
		return []T{}, nil
	}

	blob, err := img.ReadBlob(addr, size*fwimage.ImageSize(count))
	if err != nil {
		return nil, err
	}

	result := make([]T, count)
	for i := 0; i < count; i++ {
		element, err := blob.OffsetBlob(fwimage.ImageAddress(i)*fwimage.ImageAddress(size), size)
		if err != nil {
			return nil, fmt.Errorf("ReadSliceT: element %d: %w", i, err)
		}

		result[i], err = ReadBlob[T](element.Data())
		if err != nil {
			return nil, fmt.Errorf("ReadSliceT: failed to parse element %d: %w", i, err)
		}
	}

	return result, nil
}

// ReadBlob copies the first sizeof(T) bytes from data into a new T.
// T must be "POD": it and all of its fields/element types contain no pointers.
func ReadBlob[T any](data []byte) (T, error) {
	var tmp T

	if typeHasPointers(reflect.TypeOf(tmp)) {
		return tmp, ErrNotPOD
	}

	size := int(unsafe.Sizeof(tmp))
	if len(data) < size {
		return tmp, errors.New("ReadBlob: buffer too small")
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(&tmp)), size)
	copy(dst, data[:size])

	return tmp, nil
}

func typeHasPointers(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.String, reflect.Chan:
		return true
	case reflect.Array:
		return typeHasPointers(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if typeHasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
