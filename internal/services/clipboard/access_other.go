//go:build !windows

package clipboard

// NewPlatformAccess returns the portable clipboard backend on hosts without a native one.
func NewPlatformAccess() Access {
	return NewSystemAccess()
}
