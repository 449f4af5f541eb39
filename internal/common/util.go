package common

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been copied into the drive credentials.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
