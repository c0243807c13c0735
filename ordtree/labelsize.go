package ordtree

// LabelSizeHint estimates the in-memory footprint of one label of type L,
// for ByteSize/MemDetailed reporting. It is a hint, not an exact sizeof:
// variable-length labels (strings, slices, structs with pointers) are
// charged a flat 8-byte estimate for their header.
func LabelSizeHint[L any]() int {
	var zero L
	switch any(zero).(type) {
	case bool, int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	default:
		return 8
	}
}
