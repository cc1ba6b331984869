package permission

// rootBit is the highest bit. A mask holding it grants everything.
const rootBit = 63

// Mask64 is a set of up to 63 named permissions plus the root bit.
type Mask64 uint64

// Has reports whether bit is set, or whether the mask holds the root bit.
func (m Mask64) Has(bit int) bool {
	if bit < 0 || bit >= 64 {
		return false
	}
	if m&(1<<rootBit) != 0 {
		return true
	}
	return m&(1<<bit) != 0
}

// Set returns m with bit set.
func (m Mask64) Set(bit int) Mask64 {
	if bit < 0 || bit >= 64 {
		return m
	}
	return m | 1<<bit
}

// Clear returns m with bit cleared.
func (m Mask64) Clear(bit int) Mask64 {
	if bit < 0 || bit >= 64 {
		return m
	}
	return m &^ (1 << bit)
}

// Root reports whether m holds the root bit.
func (m Mask64) Root() bool {
	return m&(1<<rootBit) != 0
}

func (m Mask64) Raw() uint64 {
	return uint64(m)
}
