package photon256

// A grid is the permutation state unpacked into one cell per byte, in row-major order.
type grid [64]byte

func (g *grid) load(state *[Width]byte) {
	for i, b := range state {
		g[2*i] = b & 0x0f
		g[2*i+1] = b >> 4
	}
}

func (g *grid) store(state *[Width]byte) {
	for i := range state {
		state[i] = g[2*i] | g[2*i+1]<<4
	}
}

// addConstant XORs the round's constants into the first column.
func (g *grid) addConstant(round int) {
	for r, c := range roundConstants[round] {
		g[8*r] ^= c
	}
}

func (g *grid) subCells() {
	for i, x := range g {
		g[i] = sbox[x]
	}
}

// shiftRows rotates row r to the left by r cells.
func (g *grid) shiftRows() {
	for r := 1; r < 8; r++ {
		row := g[8*r : 8*r+8]
		var tmp [8]byte
		for c := range tmp {
			tmp[c] = row[(c+r)%8]
		}
		copy(row, tmp[:])
	}
}

// mixColumnsSerial multiplies each column by the serial matrix eight times. Each multiplication shifts the column up
// by one cell and fills the last cell with the dot product of the column and the serial coefficients.
func (g *grid) mixColumnsSerial() {
	for c := range 8 {
		var col [8]byte
		for r := range col {
			col[r] = g[8*r+c]
		}

		for range 8 {
			var last byte
			for k, coef := range serial {
				last ^= gfMul(coef, col[k])
			}
			copy(col[:7], col[1:])
			col[7] = last
		}

		for r, x := range col {
			g[8*r+c] = x
		}
	}
}

func permuteGeneric(state *[Width]byte) {
	var g grid
	g.load(state)
	for round := range Rounds {
		g.addConstant(round)
		g.subCells()
		g.shiftRows()
		g.mixColumnsSerial()
	}
	g.store(state)
	clear(g[:])
}
