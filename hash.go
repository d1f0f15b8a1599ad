package photonbeetle

import "github.com/codahale/photonbeetle/internal/duplex"

// Sum256 returns the Photon-Beetle-Hash digest of message.
func Sum256(message []byte) [DigestSize]byte {
	var digest [DigestSize]byte
	duplex.Hash(&digest, message)
	return digest
}
