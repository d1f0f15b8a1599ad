package photon256

// sbox is PHOTON's 4-bit S-box.
var sbox = [16]byte{ //nolint:gochecknoglobals // constant table
	0xc, 0x5, 0x6, 0xb, 0x9, 0x0, 0xa, 0xd, 0x3, 0xe, 0xf, 0x8, 0x4, 0x7, 0x1, 0x2,
}

// roundConstants holds, for each round, the constants added to the first cell of each row.
var roundConstants = [Rounds][8]byte{ //nolint:gochecknoglobals // constant table
	{1, 0, 2, 6, 14, 15, 13, 9},
	{3, 2, 0, 4, 12, 13, 15, 11},
	{7, 6, 4, 0, 8, 9, 11, 15},
	{14, 15, 13, 9, 1, 0, 2, 6},
	{13, 12, 14, 10, 2, 3, 1, 5},
	{11, 10, 8, 12, 4, 5, 7, 3},
	{6, 7, 5, 1, 9, 8, 10, 14},
	{12, 13, 15, 11, 3, 2, 0, 4},
	{9, 8, 10, 14, 6, 7, 5, 1},
	{2, 3, 1, 5, 13, 12, 14, 10},
	{5, 4, 6, 2, 10, 11, 9, 13},
	{10, 11, 9, 13, 5, 4, 6, 2},
}

// serial is the last row of the companion matrix Serial[2, 4, 2, 11, 2, 8, 5, 6].
var serial = [8]byte{2, 4, 2, 11, 2, 8, 5, 6} //nolint:gochecknoglobals // constant table

var (
	// sbox8 applies sbox to both nibbles of a byte.
	sbox8 = func() (t [256]byte) { //nolint:gochecknoglobals // computed once
		for i := range t {
			t[i] = sbox[i>>4]<<4 | sbox[i&0x0f]
		}
		return t
	}()

	// mulTable[a][b] is a*b in GF(2^4).
	mulTable = func() (t [16][16]byte) { //nolint:gochecknoglobals // computed once
		for a := range t {
			for b := range t[a] {
				t[a][b] = gfMul(byte(a), byte(b))
			}
		}
		return t
	}()

	// mixMatrix is Serial^8, which MixColumnsSerial applies to each column.
	mixMatrix = serialPower8() //nolint:gochecknoglobals // computed once
)

// gfMul multiplies a and b in GF(2^4) modulo x^4+x+1 without branching on either operand.
func gfMul(a, b byte) byte {
	var r byte
	for i := range 4 {
		r ^= a & -(b >> i & 1)
		a = a<<1 ^ 0x13&-(a>>3&1)
	}
	return r & 0x0f
}

func serialPower8() [8][8]byte {
	var m [8][8]byte
	for i := range 7 {
		m[i][i+1] = 1
	}
	m[7] = serial

	// M^8 = ((M^2)^2)^2
	for range 3 {
		var sq [8][8]byte
		for i := range 8 {
			for j := range 8 {
				for k := range 8 {
					sq[i][j] ^= gfMul(m[i][k], m[k][j])
				}
			}
		}
		m = sq
	}
	return m
}
