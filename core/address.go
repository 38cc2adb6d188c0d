package core

import (
	"bytes"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/crypto/hashing"
	"github.com/tos-network/xharness/params"
)

// ContractAddress derives the address of a contract instantiated by deployer.
//
//	address = H("contract_addr_v1" || deployer || codeHash || Vec(input) || Vec(salt))
//
// input and salt are SCALE byte vectors, so their boundary is part of the
// preimage. The same inputs always yield the same address, so two
// instantiations that differ in nothing but an empty or input-derived salt
// collide.
func ContractAddress(hasher hashing.Hasher, deployer types.AccountID, codeHash common.Hash, input, salt []byte) types.AccountID {
	return types.HashToAccountID(hasher.Hash(
		[]byte(params.ContractAddressPrefix),
		deployer.Bytes(),
		codeHash.Bytes(),
		encodeVec(input),
		encodeVec(salt),
	))
}

// encodeVec returns b as a SCALE Vec<u8>: compact length, then the bytes.
func encodeVec(b []byte) []byte {
	if b == nil {
		b = []byte{}
	}
	var buf bytes.Buffer
	if err := scale.NewEncoder(&buf).Encode(b); err != nil {
		panic(fmt.Sprintf("scale encoding of %d bytes failed: %v", len(b), err))
	}
	return buf.Bytes()
}
