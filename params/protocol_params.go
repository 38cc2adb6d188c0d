// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package params

const (
	MaxBlockGas     uint64 = 2_000_000_000_000 // Upper bound accepted for the gas limit of a single extrinsic.
	HarnessGasLimit uint64 = 200_000_000_000   // Gas limit attached to every harness instantiate/call.

	InstantiateBaseGas uint64 = 1_500_000_000 // Flat cost of instantiating a contract (per frame).
	CallBaseGas        uint64 = 500_000_000   // Flat cost of entering a contract (per frame).
	CodeByteGas        uint64 = 50_000        // Per byte of code uploaded with an instantiation.
	StorageWriteGas    uint64 = 20_000_000    // Per contract storage write.
	EmitGas            uint64 = 5_000_000     // Per event emitted by a contract.

	MaxCallDepth = 32         // Maximum depth of nested contract calls.
	MaxCodeLen   = 128 * 1024 // Maximum size of uploaded contract code.

	DepositPerByte uint64 = 1_000_000 // Storage deposit charged per byte of uploaded code.

	DefaultBlockNumber uint64 = 1 // Block number a fresh sandbox starts at.
)

// ContractAddressPrefix domain-separates contract address derivation from any
// other hash taken over account identifiers.
const ContractAddressPrefix = "contract_addr_v1"
