package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/xharness/core/types"
)

var (
	alice = types.HexToAccountID("0x01")
	flip  = types.HexToAccountID("0xf1")
)

func TestBalanceAndNonce(t *testing.T) {
	s := New(1)
	require.True(t, s.GetBalance(alice).IsZero())
	require.Zero(t, s.GetNonce(alice))

	s.AddBalance(alice, uint256.NewInt(100))
	require.NoError(t, s.SubBalance(alice, uint256.NewInt(40)))
	require.Equal(t, uint64(60), s.GetBalance(alice).Uint64())
	require.Error(t, s.SubBalance(alice, uint256.NewInt(61)))
	require.Equal(t, uint64(60), s.GetBalance(alice).Uint64())

	s.SetNonce(alice, 7)
	require.Equal(t, uint64(7), s.GetNonce(alice))

	// Mutating the returned balance must not leak into the state.
	s.GetBalance(alice).SetUint64(0)
	require.Equal(t, uint64(60), s.GetBalance(alice).Uint64())
}

func TestSnapshotRevert(t *testing.T) {
	s := New(1)
	s.SetBalance(alice, uint256.NewInt(10))
	s.AddEvent(types.ExtrinsicSuccessEvent{})

	snap := s.Snapshot()
	s.SetNonce(alice, 1)
	s.SetBalance(alice, uint256.NewInt(5))
	s.CreateContract(flip, common.HexToHash("0xc0de"), alice, nil)
	s.SetStorage(flip, "flag", []byte("true"))
	s.AddEvent(types.InstantiatedEvent{Deployer: alice, Contract: flip})

	inner := s.Snapshot()
	s.SetStorage(flip, "flag", []byte("false"))
	s.RevertToSnapshot(inner)
	require.Equal(t, []byte("true"), s.GetStorage(flip, "flag"))

	s.RevertToSnapshot(snap)
	require.Zero(t, s.GetNonce(alice))
	require.Equal(t, uint64(10), s.GetBalance(alice).Uint64())
	require.Nil(t, s.GetContract(flip))
	require.Nil(t, s.GetStorage(flip, "flag"))
	require.False(t, s.Exist(flip))

	events := s.Events()
	require.Len(t, events, 1)
	require.Equal(t, types.ExtrinsicSuccessEvent{}, events[0].Event)
}

func TestRevertInvalidSnapshot(t *testing.T) {
	s := New(1)
	snap := s.Snapshot()
	s.RevertToSnapshot(snap)
	require.Panics(t, func() { s.RevertToSnapshot(snap) })
}

func TestEventIndexing(t *testing.T) {
	s := New(42)
	s.AddEvent(types.CodeStoredEvent{})
	s.AddEvent(types.InstantiatedEvent{Deployer: alice, Contract: flip})

	events := s.Events()
	require.Len(t, events, 2)
	for i, rec := range events {
		require.Equal(t, uint64(i), rec.Index)
		require.Equal(t, uint64(42), rec.BlockNumber)
	}
	s.ClearEvents()
	require.Empty(t, s.Events())

	s.AddEvent(types.ExtrinsicSuccessEvent{})
	require.Equal(t, uint64(0), s.Events()[0].Index)
}

func TestStorageOverwriteRevert(t *testing.T) {
	s := New(1)
	s.CreateContract(flip, common.Hash{}, alice, []byte{0x01})
	s.SetStorage(flip, "k", []byte("a"))

	snap := s.Snapshot()
	s.SetStorage(flip, "k", []byte("b"))
	s.SetStorage(flip, "n", []byte("c"))
	s.RevertToSnapshot(snap)

	require.Equal(t, []byte("a"), s.GetStorage(flip, "k"))
	require.Nil(t, s.GetStorage(flip, "n"))
	require.Equal(t, []byte{0x01}, s.GetContract(flip).Salt)
}

func TestFinaliseResetsJournal(t *testing.T) {
	s := New(1)
	snap := s.Snapshot()
	s.SetBalance(alice, uint256.NewInt(10))
	s.SetNonce(alice, 1)
	s.AddEvent(types.ExtrinsicSuccessEvent{})
	require.NotZero(t, s.journal.length())

	s.Finalise()
	require.Zero(t, s.journal.length())
	require.Empty(t, s.validRevisions)
	require.Panics(t, func() { s.RevertToSnapshot(snap) })

	// Finalised changes and events stay in place.
	require.Equal(t, uint64(10), s.GetBalance(alice).Uint64())
	require.Equal(t, uint64(1), s.GetNonce(alice))
	require.Len(t, s.Events(), 1)
}
