//go:build !windows

package startup

type noopCleaner struct{}

// NewCleaner returns a cleaner that has nothing to remove on this platform.
func NewCleaner() Cleaner {
	return noopCleaner{}
}

func (noopCleaner) Remove(string) error {
	return nil
}
