package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/xharness/core/types"
)

func TestLatestInstantiatedAddressEmptyLog(t *testing.T) {
	_, err := LatestInstantiatedAddress(nil)
	require.ErrorIs(t, err, ErrResolutionNotFound)

	_, err = LatestInstantiatedAddress([]types.EventRecord{
		{Event: types.CodeStoredEvent{}},
		{Event: types.ExtrinsicSuccessEvent{}},
	})
	require.ErrorIs(t, err, ErrResolutionNotFound)
}

func TestLatestInstantiatedAddressPicksNewest(t *testing.T) {
	first, second := fixedAccount(0xaa), fixedAccount(0xbb)
	events := []types.EventRecord{
		{Index: 0, Event: types.InstantiatedEvent{Deployer: Alice, Contract: first}},
		{Index: 1, Event: types.ExtrinsicSuccessEvent{}},
		{Index: 2, Event: &types.InstantiatedEvent{Deployer: Alice, Contract: second}},
		{Index: 3, Event: types.CalledEvent{Caller: Alice, Contract: first}},
		{Index: 4, Event: types.ExtrinsicSuccessEvent{}},
	}
	addr, err := LatestInstantiatedAddress(events)
	require.NoError(t, err)
	assert.Equal(t, second, addr)

	addr, err = LatestInstantiatedAddress(events[:2])
	require.NoError(t, err)
	assert.Equal(t, first, addr)
}

func TestLatestEmitted(t *testing.T) {
	flip, other := fixedAccount(0xaa), fixedAccount(0xbb)
	events := []types.EventRecord{
		{Event: types.ContractEmittedEvent{Contract: flip, Data: []byte{0x00}}},
		{Event: types.ContractEmittedEvent{Contract: flip, Data: []byte{0x01}}},
		{Event: types.ContractEmittedEvent{Contract: other, Data: []byte{0x07}}},
	}
	data, err := LatestEmitted(events, flip)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, data)

	_, err = LatestEmitted(events, Bob)
	assert.ErrorIs(t, err, ErrResolutionNotFound)
}
