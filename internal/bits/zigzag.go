package bits

// EncodeZigZag encodes a signed integer as an unsigned integer by folding the
// sign into the least significant bit.
//
// Examples of signed values on the left and ZigZag encoded values on the
// right:
//
//	 0 => 0
//	-1 => 1
//	 1 => 2
//	-2 => 3
//	 2 => 4
//	-3 => 5
//	 3 => 6
//
// ref: https://developers.google.com/protocol-buffers/docs/encoding
func EncodeZigZag(x int32) uint32 {
	return uint32(x<<1) ^ uint32(x>>31)
}

// DecodeZigZag decodes a ZigZag encoded integer and returns it.
//
// Examples of ZigZag encoded values on the left and decoded values on the
// right:
//
//	0 =>  0
//	1 => -1
//	2 =>  1
//	3 => -2
//	4 =>  2
//	5 => -3
//	6 =>  3
func DecodeZigZag(x uint32) int32 {
	return int32(x>>1) ^ -int32(x&1)
}
