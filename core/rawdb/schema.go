// Package rawdb contains a collection of low level database accessors.
package rawdb

import "github.com/ethereum/go-ethereum/common"

var (
	CodePrefix = []byte("c") // CodePrefix + code hash -> pristine contract code
)

// codeKey = CodePrefix + hash
func codeKey(hash common.Hash) []byte {
	return append(append([]byte{}, CodePrefix...), hash.Bytes()...)
}
