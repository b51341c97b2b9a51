package ptr

// DisposedError is the panic value raised when a handle is used after
// it has been disposed or consumed by a successful TryUnwrap. It always
// indicates a bug in the calling code: handles must not outlive their
// Dispose call.
type DisposedError struct {
	// Type is the handle variant ("Irc", "Mrc" or "Lrc").
	Type string
	// Op is the operation attempted on the dead handle.
	Op string
}

func (e *DisposedError) Error() string {
	return "ptr: " + e.Op + " on disposed " + e.Type
}
