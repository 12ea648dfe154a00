package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/GTsubekti/madrasah-defi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []model.WithdrawRequest {
	return []model.WithdrawRequest{
		{
			Id:        "1700000000123_ab12cd34ef56ab12",
			Student:   "0x1111111111111111111111111111111111111111",
			Amount:    "1000",
			Symbol:    "IDRT",
			CreatedAt: 1700000000123,
			Status:    model.RequestStatusPending,
			Note:      "Locked until: 15 Des 2026 (WIB)",
		},
		{
			Id:        "1700000000456_ffeeddccbbaa0011",
			Student:   "0x2222222222222222222222222222222222222222",
			Amount:    "250.5",
			Symbol:    "IDRT",
			CreatedAt: 1700000000456,
			Status:    model.RequestStatusApproved,
		},
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))

	records := s.Load()

	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all {{{"), 0o644))

	s := NewFileStore(path)

	assert.Empty(t, s.Load())
}

func TestFileStoreLoadNonArrayValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	raw := `{"` + RequestKey + `": {"oops": 1}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	s := NewFileStore(path)

	assert.Empty(t, s.Load())
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	s := NewFileStore(path)

	s.Save(testRecords())
	loaded := s.Load()
	require.Equal(t, testRecords(), loaded)

	// save(load())后键下的原始字节不变
	before := rawValue(t, path)
	s.Save(loaded)
	after := rawValue(t, path)
	assert.Equal(t, string(before), string(after))
}

func TestFileStoreOmitsEmptyNote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	s := NewFileStore(path)

	s.Save(testRecords())

	raw := rawValue(t, path)
	var generic []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic[0], "note")
	assert.NotContains(t, generic[1], "note")
}

func TestFileStorePreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"other_key": "keep-me"}`), 0o644))

	s := NewFileStore(path)
	s.Save(testRecords())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var kv map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &kv))
	assert.Contains(t, kv, "other_key")
	assert.Contains(t, kv, RequestKey)
}

func TestFileStoreUnconfiguredPathIsNoop(t *testing.T) {
	s := NewFileStore("")

	s.Save(testRecords())

	assert.Empty(t, s.Load())
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.json")
	s := NewFileStore(path)

	s.Save(testRecords())

	assert.Equal(t, testRecords(), s.Load())
}

func rawValue(t *testing.T, path string) json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var kv map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &kv))
	raw, ok := kv[RequestKey]
	require.True(t, ok)
	return raw
}
