package core

// Waker resumes a suspended task. Wake may be called from interrupt
// context, so implementations must not block or allocate.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface
type WakerFunc func()

func (f WakerFunc) Wake() {
	f()
}
