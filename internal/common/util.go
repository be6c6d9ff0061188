package common

// WipeByteArray overwrites b with zeros. Use it on buffers that held a
// plaintext password once they are no longer needed. A nil slice is fine.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
