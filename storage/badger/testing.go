package badger

// NewMemoryRepository creates a repository backed by an in-memory BadgerDB.
// Intended for tests and demos; nothing touches disk.
func NewMemoryRepository(opts ...Option) (*Repository, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return NewRepository(backend, opts...)
}
