package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "accounts/1", []byte(`{"id":"1"}`)))

	got, err := m.Get(ctx, "accounts/1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"1"}`), got)
}

func TestMemory_Get_NotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), "accounts/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Update_MultiPath(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.Update(ctx, map[string][]byte{
		"accounts/1":     []byte(`a`),
		"transactions/x": []byte(`b`),
	})
	require.NoError(t, err)

	a, err := m.Get(ctx, "accounts/1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`a`), a)

	b, err := m.Get(ctx, "transactions/x")
	require.NoError(t, err)
	assert.Equal(t, []byte(`b`), b)
}

func TestMemory_List_PrefixOnly(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "watchRecords/1/adexora", []byte(`a`)))
	require.NoError(t, m.Set(ctx, "watchRecords/2/gigapub", []byte(`b`)))
	require.NoError(t, m.Set(ctx, "accounts/1", []byte(`c`)))

	got, err := m.List(ctx, WatchRecordsPrefix)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "watchRecords/1/adexora")
	assert.Contains(t, got, "watchRecords/2/gigapub")
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "accounts/1", []byte(`a`)))
	require.NoError(t, m.Delete(ctx, "accounts/1"))

	_, err := m.Get(ctx, "accounts/1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Subscribe_NotifiesMatchingPrefix(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var gotPath string
	var gotValue []byte
	unsubscribe := m.Subscribe(ProviderConfigPrefix, func(path string, value []byte) {
		gotPath = path
		gotValue = value
	})
	defer unsubscribe()

	require.NoError(t, m.Set(ctx, "providerConfig/adexora", []byte(`{"enabled":false}`)))
	assert.Equal(t, "providerConfig/adexora", gotPath)
	assert.Equal(t, []byte(`{"enabled":false}`), gotValue)

	// Writes outside the prefix are not dispatched.
	gotPath = ""
	require.NoError(t, m.Set(ctx, "accounts/1", []byte(`a`)))
	assert.Empty(t, gotPath)
}

func TestMemory_Subscribe_Unsubscribe(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	calls := 0
	unsubscribe := m.Subscribe(AccountsPrefix, func(string, []byte) { calls++ })

	require.NoError(t, m.Set(ctx, "accounts/1", []byte(`a`)))
	unsubscribe()
	require.NoError(t, m.Set(ctx, "accounts/1", []byte(`b`)))

	assert.Equal(t, 1, calls)
}

func TestMemory_Get_CopiesValue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "accounts/1", []byte(`abc`)))
	got, err := m.Get(ctx, "accounts/1")
	require.NoError(t, err)

	got[0] = 'z'
	again, err := m.Get(ctx, "accounts/1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`abc`), again)
}
