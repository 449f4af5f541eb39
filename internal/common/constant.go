package common

const (
	// MetaDigest is the object metadata key holding the hex BLAKE2b-256
	// digest of the uploaded content.
	MetaDigest = "digest"

	// StagingPrefix marks temporary files written during a download. Listings
	// skip them.
	StagingPrefix = ".passync-"

	// ExitFailure is the process exit code for every fatal condition.
	ExitFailure = 1
)
