package utils

// Value dereferences v, or returns the zero value when v is nil.
func Value[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// PtrIf is Ptr(v) when set, else nil. Partial updates use it so only the
// fields a user supplied are sent.
func PtrIf[T any](v T, set bool) *T {
	if !set {
		return nil
	}
	return &v
}
