package ports

// Hasher computes content fingerprints.
type Hasher interface {
	// ComputeFileHash hashes the content of the file at path.
	ComputeFileHash(path string) (uint64, error)
	// ComputeContentHash hashes data.
	ComputeContentHash(data []byte) uint64
}
