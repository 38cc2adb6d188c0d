package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountIDConversions(t *testing.T) {
	var want AccountID
	for i := range want {
		want[i] = 0x01
	}
	hex := "0x0101010101010101010101010101010101010101010101010101010101010101"
	require.Equal(t, want, HexToAccountID(hex))
	require.Equal(t, hex, want.Hex())
	require.Equal(t, want.Bytes(), BytesToAccountID(want.Bytes()).Bytes())

	short := BytesToAccountID([]byte{0xaa, 0xbb})
	require.Equal(t, byte(0xaa), short[30])
	require.Equal(t, byte(0xbb), short[31])

	long := make([]byte, 40)
	long[39] = 0x7f
	require.Equal(t, byte(0x7f), BytesToAccountID(long)[31])
}

func TestAccountIDJSON(t *testing.T) {
	id := HexToAccountID("0x02")
	enc, err := json.Marshal(id)
	require.NoError(t, err)

	var dec AccountID
	require.NoError(t, json.Unmarshal(enc, &dec))
	require.Equal(t, id, dec)

	require.Error(t, json.Unmarshal([]byte(`"0x0102"`), &dec), "short identity accepted")
}

func TestAccountIDIsZero(t *testing.T) {
	if !(AccountID{}).IsZero() {
		t.Fatal("zero identity not reported as zero")
	}
	if HexToAccountID("0x01").IsZero() {
		t.Fatal("non-zero identity reported as zero")
	}
}
