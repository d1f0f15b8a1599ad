//go:build !purego

package photon256

import (
	"encoding/binary"
	"math/bits"
)

func permute(state *[Width]byte) {
	var rows [8]uint32
	for r := range rows {
		rows[r] = binary.LittleEndian.Uint32(state[4*r:])
	}

	for round := range Rounds {
		for r := range rows {
			x := rows[r] ^ uint32(roundConstants[round][r])
			x = uint32(sbox8[byte(x)]) | uint32(sbox8[byte(x>>8)])<<8 |
				uint32(sbox8[byte(x>>16)])<<16 | uint32(sbox8[byte(x>>24)])<<24
			rows[r] = bits.RotateLeft32(x, -4*r)
		}
		mixRows(&rows)
	}

	for r, x := range rows {
		binary.LittleEndian.PutUint32(state[4*r:], x)
	}
}

// mixRows applies Serial^8 to every column at once, treating each packed row as eight cells.
func mixRows(rows *[8]uint32) {
	var out [8]uint32
	for i := range out {
		for k, x := range rows {
			t := &mulTable[mixMatrix[i][k]]
			var y uint32
			for j := 0; j < 32; j += 4 {
				y |= uint32(t[x>>j&0x0f]) << j
			}
			out[i] ^= y
		}
	}
	*rows = out
}
