package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgwire/bgwire/internal/transaction"
)

func request(id, name, amount string) transaction.Request {
	return transaction.Request{
		ID: id,
		Recipient: transaction.Recipient{
			Alias: name,
			Name:  name,
			IBAN:  "BG80BNBG96611020345678",
		},
		Amount:      amount,
		Currency:    "BGN",
		Description: "rent " + name,
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := Open(t.TempDir())
	batch, err := store.Load(Key{Command: "transfer:leva", AccountClass: transaction.Individual})
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := Open(t.TempDir())
	key := Key{Command: "transfer:leva", AccountClass: transaction.Individual}
	batch := []transaction.Request{
		request("a", "alpha", "100.00"),
		request("b", "beta", "30000.01"),
	}
	require.NoError(t, store.Save(key, batch))

	loaded, err := store.Load(key)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for i := range batch {
		assert.True(t, batch[i].Equal(loaded[i]), "request %d must round-trip unchanged", i)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	store := Open(t.TempDir())
	leva := Key{Command: "transfer:leva", AccountClass: transaction.Individual}
	corp := Key{Command: "transfer:leva", AccountClass: transaction.Corporate}
	foreign := Key{Command: "transfer:foreign", AccountClass: transaction.Individual}

	require.NoError(t, store.Save(leva, []transaction.Request{request("a", "alpha", "10.00")}))
	require.NoError(t, store.Save(corp, []transaction.Request{request("b", "beta", "20.00")}))

	got, err := store.Load(leva)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got, err = store.Load(corp)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got, err = store.Load(foreign)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRemoveDeletesFirstMatchOnly(t *testing.T) {
	store := Open(t.TempDir())
	key := Key{Command: "transfer:leva", AccountClass: transaction.Individual}
	// Two identical requests: paying the same bill twice on purpose.
	twin := request("", "alpha", "100.00")
	require.NoError(t, store.Save(key, []transaction.Request{twin, twin, request("c", "gamma", "5.00")}))

	require.NoError(t, store.Remove(key, twin))
	left, err := store.Load(key)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.True(t, twin.Equal(left[0]), "only one of the twins may be removed")
	assert.Equal(t, "c", left[1].ID)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	store := Open(t.TempDir())
	key := Key{Command: "transfer:leva", AccountClass: transaction.Individual}
	kept := request("a", "alpha", "100.00")
	require.NoError(t, store.Save(key, []transaction.Request{kept}))

	require.NoError(t, store.Remove(key, request("z", "zeta", "1.00")))
	// Repeated removal of the same request stays safe as well.
	require.NoError(t, store.Remove(key, kept))
	require.NoError(t, store.Remove(key, kept))

	left, err := store.Load(key)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestSaveEmptyBatchClearsKey(t *testing.T) {
	dir := t.TempDir()
	store := Open(dir)
	key := Key{Command: "transfer:leva", AccountClass: transaction.Individual}
	require.NoError(t, store.Save(key, []transaction.Request{request("a", "alpha", "100.00")}))
	require.NoError(t, store.Save(key, nil))

	left, err := store.Load(key)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCorruptFileIsNeverEmpty(t *testing.T) {
	dir := t.TempDir()
	store := Open(dir)
	require.NoError(t, os.WriteFile(store.Path(), []byte("\t{{not yaml"), 0600))

	_, err := store.Load(Key{Command: "transfer:leva", AccountClass: transaction.Individual})
	require.ErrorIs(t, err, ErrCorrupt)

	// Mutations must refuse to clobber a file they cannot parse.
	err = store.Save(Key{Command: "transfer:leva", AccountClass: transaction.Individual},
		[]transaction.Request{request("a", "alpha", "1.00")})
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestPathJoinsDirAndFileName(t *testing.T) {
	dir := t.TempDir()
	store := Open(dir)
	assert.Equal(t, filepath.Join(dir, FileName), store.Path())
}
