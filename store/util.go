package store

import (
	"encoding/binary"

	"lukechampine.com/uint128"
)

func uint64ToBytes(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func uint128ToBytes(u uint128.Uint128) []byte {
	buf := make([]byte, 16)
	u.PutBytesBE(buf)
	return buf
}

func bytesToUint128(b []byte) uint128.Uint128 {
	if len(b) != 16 {
		panic(len(b))
	}
	return uint128.FromBytesBE(b)
}
