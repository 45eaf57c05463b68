// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"path/filepath"

	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/ChainSafe/chaindb"
)

// storageKey builds a substrate-style storage key:
// twox128(module) ++ twox128(field)
func storageKey(module, field string) []byte {
	mh, err := common.Twox128Hash([]byte(module))
	if err != nil {
		panic(err)
	}

	fh, err := common.Twox128Hash([]byte(field))
	if err != nil {
		panic(err)
	}

	return append(mh, fh...)
}

// SetupDatabase opens a badger database under basepath/db, or an in-memory
// database when inMemory is set
func SetupDatabase(basepath string, inMemory bool) (chaindb.Database, error) {
	return chaindb.NewBadgerDB(&chaindb.Config{
		DataDir:  filepath.Join(basepath, "db"),
		InMemory: inMemory,
	})
}

// has reports whether the key is present, treating ErrKeyNotFound as false
func has(db chaindb.Database, key []byte) (bool, error) {
	ok, err := db.Has(key)
	if err == chaindb.ErrKeyNotFound {
		return false, nil
	}
	return ok, err
}
