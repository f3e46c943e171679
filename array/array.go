package array

import "fmt"

// Number is any numeric pixel type
type Number interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64
}

// Return true if all values in buffer equal value
func AllEquals[T Number](buffer []T, value T) bool {
	for i := 0; i < len(buffer); i++ {
		if buffer[i] != value {
			return false
		}
	}
	return true
}

// Return true if the two arrays have equal values
func Equals[T Number](left []T, right []T) bool {
	if len(left) != len(right) {
		return false
	}
	for i := 0; i < len(left); i++ {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

func Fill[T Number](buffer []T, value T) {
	for i := 0; i < len(buffer); i++ {
		buffer[i] = value
	}
}

// Paste values from source 2D array into target 2D array
// Source must be no greater than target
func Paste[T Number](target []T, targetHeight int, targetWidth int, source []T, sourceHeight int, sourceWidth int, rowOffset int, colOffset int) error {
	if rowOffset < 0 || colOffset < 0 {
		return fmt.Errorf("offsets must be >= 0")
	}

	if rowOffset+sourceHeight > targetHeight || colOffset+sourceWidth > targetWidth {
		return fmt.Errorf("size of array to paste is too big for target array, given offsets")
	}

	if len(target) < targetHeight*targetWidth || len(source) < sourceHeight*sourceWidth {
		return fmt.Errorf("buffer is smaller than its declared size")
	}

	for row := 0; row < sourceHeight; row++ {
		i := (row+rowOffset)*targetWidth + colOffset
		copy(target[i:i+sourceWidth], source[row*sourceWidth:(row+1)*sourceWidth])
	}

	return nil
}

// Convert casts every value in buffer to a new numeric type
func Convert[T Number, U Number](buffer []T) []U {
	out := make([]U, len(buffer))
	for i, v := range buffer {
		out[i] = U(v)
	}
	return out
}
