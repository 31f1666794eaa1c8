// Package algos hands out the bit addresses a pack or unpack pass walks through.
package algos

// Error types

// EmptyPoolError is returned when an addressor is called but its pool of available addresses is empty.
type EmptyPoolError struct {
	Size int64
}

func (e *EmptyPoolError) Error() string {
	return "The pool of bit addresses is empty."
}

// Algorithm closures

// SequentialAddressor returns a closure that yields the addresses 0, 1, ..., size-1 in order,
// and an *EmptyPoolError once they are exhausted.
func SequentialAddressor(size int64) func() (int64, error) {
	pos := int64(-1)
	return func() (int64, error) {
		pos++
		if pos >= size {
			return -1, &EmptyPoolError{Size: size}
		}
		return pos, nil
	}
}
