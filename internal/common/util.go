package common

// WipeByteArray overwrites the contents of b with zeros. Used to drop
// plaintext passwords from memory after hashing. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
