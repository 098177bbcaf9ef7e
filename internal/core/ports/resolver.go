package ports

// PathResolver maps a path to its canonical location on disk.
type PathResolver interface {
	// RealPath resolves every symbolic link in path.
	RealPath(path string) (string, error)
}
