package bmsddriver

const (
	CRC8_POLYNOMIAL byte = 0x18
	CRC8_TOP_BIT    byte = 0x80
)

// Checksum folds one input byte into seed, LSB first.
// The controller validates frames with exactly this bit pattern.
func Checksum(in byte, seed byte) byte {
	for bit := 0; bit < 8; bit++ {
		if (seed^in)&0x01 != 0 {
			seed ^= CRC8_POLYNOMIAL
			seed >>= 1
			seed |= CRC8_TOP_BIT
		} else {
			seed >>= 1
		}
		in >>= 1
	}
	return seed
}

// ChecksumSequence folds Checksum over data starting from seed 0.
func ChecksumSequence(data []byte) byte {
	var seed byte
	for _, b := range data {
		seed = Checksum(b, seed)
	}
	return seed
}
