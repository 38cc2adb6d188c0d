// Copyright 2017 The go-ethereum Authors
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

// These are the multipliers for sandbox balance denominations.
// Example: To get the plank value of an amount in 'unit', use
//
//	new(uint256.Int).Mul(value, uint256.NewInt(params.Unit))
const (
	Plank     = 1
	MilliUnit = 1e9
	Unit      = 1e12

	// ExistentialDeposit is the smallest balance an origin must hold to be
	// allowed to dispatch.
	ExistentialDeposit = 1 * MilliUnit

	// GenesisEndowment is the balance the harness gives its funded principal.
	GenesisEndowment = 100_000 * Unit
)
