// Copyright 2018 The go-ethereum Authors
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

// Package dbtest holds a conformance suite every tosdb.KeyValueStore backend
// is expected to pass.
package dbtest

import (
	"bytes"
	"testing"

	"github.com/tos-network/xharness/tosdb"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() tosdb.KeyValueStore) {
	t.Run("PutGet", func(t *testing.T) {
		db := New()
		defer db.Close()

		tests := map[string][]byte{
			"":         []byte("empty key"),
			"code":     {0x00, 0x61, 0x73, 0x6d},
			"\x00\x01": {},
		}
		for k, v := range tests {
			if err := db.Put([]byte(k), v); err != nil {
				t.Fatalf("put %q failed: %v", k, err)
			}
		}
		for k, v := range tests {
			ok, err := db.Has([]byte(k))
			if err != nil || !ok {
				t.Fatalf("has %q: have %v, %v", k, ok, err)
			}
			got, err := db.Get([]byte(k))
			if err != nil {
				t.Fatalf("get %q failed: %v", k, err)
			}
			if !bytes.Equal(got, v) {
				t.Fatalf("get %q: have %x want %x", k, got, v)
			}
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("k")
		if err := db.Put(key, []byte("first")); err != nil {
			t.Fatal(err)
		}
		if err := db.Put(key, []byte("second")); err != nil {
			t.Fatal(err)
		}
		got, err := db.Get(key)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "second" {
			t.Fatalf("have %q want %q", got, "second")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("gone")
		if err := db.Put(key, []byte{1}); err != nil {
			t.Fatal(err)
		}
		if err := db.Delete(key); err != nil {
			t.Fatal(err)
		}
		if ok, _ := db.Has(key); ok {
			t.Fatal("key still present after delete")
		}
		if _, err := db.Get(key); err == nil {
			t.Fatal("expected error reading deleted key")
		}
		// Deleting a missing key is not an error.
		if err := db.Delete([]byte("never")); err != nil {
			t.Fatalf("delete of missing key: %v", err)
		}
	})

	t.Run("ValueIsCopied", func(t *testing.T) {
		db := New()
		defer db.Close()

		value := []byte{1, 2, 3}
		if err := db.Put([]byte("k"), value); err != nil {
			t.Fatal(err)
		}
		value[0] = 0xff
		got, err := db.Get([]byte("k"))
		if err != nil {
			t.Fatal(err)
		}
		if got[0] != 1 {
			t.Fatalf("stored value aliased caller slice: %x", got)
		}
	})
}
