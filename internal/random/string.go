package random

import "math/rand/v2"

// CharsetAlphanumeric contains characters a-zA-Z0-9
var CharsetAlphanumeric = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// String generates a random string with a specific length, only using characters out of the given charset
func String(length int, charset []rune) string {
	buf := make([]rune, length)
	for i := range buf {
		buf[i] = charset[rand.IntN(len(charset))]
	}
	return string(buf)
}
