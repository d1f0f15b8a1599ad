//go:build purego

package photon256

func permute(state *[Width]byte) {
	permuteGeneric(state)
}
