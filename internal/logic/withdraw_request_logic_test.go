package logic

import (
	"path/filepath"
	"testing"

	"github.com/GTsubekti/madrasah-defi/internal/model"
	"github.com/GTsubekti/madrasah-defi/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	studentA = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	studentB = "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))
}

func TestSubmitCreatesPendingRecord(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	record, err := ledger.Submit(studentA, "1000", "IDRT", "Locked until: 15 Des 2026 (WIB)")

	require.NoError(t, err)
	assert.NotEmpty(t, record.Id)
	assert.Equal(t, studentA, record.Student)
	assert.Equal(t, "1000", record.Amount)
	assert.Equal(t, "IDRT", record.Symbol)
	assert.Equal(t, model.RequestStatusPending, record.Status)
	assert.Equal(t, "Locked until: 15 Des 2026 (WIB)", record.Note)
	assert.Positive(t, record.CreatedAt)

	all := ledger.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, *record, all[0])
}

func TestSubmitRejectsInvalidAmounts(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	for _, amount := range []string{"", "   ", "abc", "0", "-5", "NaN", "Inf"} {
		record, err := ledger.Submit(studentA, amount, "IDRT", "")
		assert.ErrorIs(t, err, model.ErrInvalidAmount, "amount %q", amount)
		assert.Nil(t, record)
	}

	assert.Empty(t, ledger.ListAll())
}

func TestSubmitRejectsEmptyStudent(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	_, err := ledger.Submit("  ", "1000", "IDRT", "")

	assert.ErrorIs(t, err, model.ErrInvalidAddress)
	assert.Empty(t, ledger.ListAll())
}

func TestSubmitGeneratesUniqueIds(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		record, err := ledger.Submit(studentA, "10", "IDRT", "")
		require.NoError(t, err)
		assert.False(t, seen[record.Id], "duplicate id %s", record.Id)
		seen[record.Id] = true
	}
}

func TestListAllNewestFirst(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	first, err := ledger.Submit(studentA, "1", "IDRT", "")
	require.NoError(t, err)
	second, err := ledger.Submit(studentB, "2", "IDRT", "")
	require.NoError(t, err)
	third, err := ledger.Submit(studentA, "3", "IDRT", "")
	require.NoError(t, err)

	all := ledger.ListAll()
	require.Len(t, all, 3)
	assert.Equal(t, third.Id, all[0].Id)
	assert.Equal(t, second.Id, all[1].Id)
	assert.Equal(t, first.Id, all[2].Id)
}

func TestListAllIsIdempotent(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	_, err := ledger.Submit(studentA, "100", "IDRT", "")
	require.NoError(t, err)
	_, err = ledger.Submit(studentB, "200", "IDRT", "")
	require.NoError(t, err)

	assert.Equal(t, ledger.ListAll(), ledger.ListAll())
}

func TestListForFiltersCaseInsensitively(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	_, err := ledger.Submit(studentA, "1", "IDRT", "")
	require.NoError(t, err)
	_, err = ledger.Submit(studentB, "2", "IDRT", "")
	require.NoError(t, err)
	_, err = ledger.Submit(studentA, "3", "IDRT", "")
	require.NoError(t, err)

	mine := ledger.ListFor(studentA)
	require.Len(t, mine, 2)
	lower := ledger.ListFor("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	assert.Equal(t, mine, lower)

	// 与ListAll经同样过滤后的相对顺序一致
	var filtered []model.WithdrawRequest
	for _, r := range ledger.ListAll() {
		if r.Student == studentA {
			filtered = append(filtered, r)
		}
	}
	assert.Equal(t, filtered, mine)
}

func TestSetStatusOnlyChangesStatusField(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	_, err := ledger.Submit(studentA, "1", "IDRT", "note-1")
	require.NoError(t, err)
	target, err := ledger.Submit(studentB, "2", "IDRT", "note-2")
	require.NoError(t, err)
	_, err = ledger.Submit(studentA, "3", "IDRT", "note-3")
	require.NoError(t, err)

	before := ledger.ListAll()

	updated, err := ledger.SetStatus(target.Id, model.RequestStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, updated.Status)

	after := ledger.ListAll()
	require.Len(t, after, 3)
	for i := range after {
		if after[i].Id == target.Id {
			expected := *target
			expected.Status = model.RequestStatusApproved
			assert.Equal(t, expected, after[i])
			continue
		}
		assert.Equal(t, before[i], after[i])
	}
}

func TestSetStatusUnknownId(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	_, err := ledger.SetStatus("does-not-exist", model.RequestStatusApproved)

	assert.ErrorIs(t, err, model.ErrRequestNotFound)
}

func TestSetStatusRejectsPendingTarget(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	record, err := ledger.Submit(studentA, "1", "IDRT", "")
	require.NoError(t, err)

	_, err = ledger.SetStatus(record.Id, model.RequestStatusPending)

	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestSetStatusRedecideBlockedByDefault(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	record, err := ledger.Submit(studentA, "1", "IDRT", "")
	require.NoError(t, err)

	_, err = ledger.SetStatus(record.Id, model.RequestStatusApproved)
	require.NoError(t, err)

	_, err = ledger.SetStatus(record.Id, model.RequestStatusRejected)
	assert.ErrorIs(t, err, model.ErrAlreadyDecided)
}

func TestSetStatusRedecideAllowedWhenConfigured(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), true)

	record, err := ledger.Submit(studentA, "1", "IDRT", "")
	require.NoError(t, err)

	_, err = ledger.SetStatus(record.Id, model.RequestStatusApproved)
	require.NoError(t, err)

	updated, err := ledger.SetStatus(record.Id, model.RequestStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, updated.Status)
}

func TestAdminApprovalVisibleToStudent(t *testing.T) {
	// 学生端和管理端各自的逻辑实例共享同一存储
	s := newTestStore(t)
	studentLedger := NewWithdrawRequestLogic(s, false)
	adminLedger := NewWithdrawRequestLogic(s, false)

	record, err := studentLedger.Submit(studentA, "1000", "IDRT", "")
	require.NoError(t, err)

	all := adminLedger.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, model.RequestStatusPending, all[0].Status)
	assert.Equal(t, studentA, all[0].Student)

	_, err = adminLedger.SetStatus(record.Id, model.RequestStatusApproved)
	require.NoError(t, err)

	mine := studentLedger.ListFor(studentA)
	require.Len(t, mine, 1)
	assert.Equal(t, record.Id, mine[0].Id)
	assert.Equal(t, model.RequestStatusApproved, mine[0].Status)
}

func TestInterleavedStudentsStayPartitioned(t *testing.T) {
	ledger := NewWithdrawRequestLogic(newTestStore(t), false)

	reqA, err := ledger.Submit(studentA, "100", "IDRT", "")
	require.NoError(t, err)
	reqB, err := ledger.Submit(studentB, "200", "IDRT", "")
	require.NoError(t, err)

	mineA := ledger.ListFor(studentA)
	require.Len(t, mineA, 1)
	assert.Equal(t, reqA.Id, mineA[0].Id)

	all := ledger.ListAll()
	require.Len(t, all, 2)
	assert.Equal(t, reqB.Id, all[0].Id)
	assert.Equal(t, reqA.Id, all[1].Id)
}

func TestRefreshSeesExternalWrites(t *testing.T) {
	s := newTestStore(t)
	ledger := NewWithdrawRequestLogic(s, false)
	other := NewWithdrawRequestLogic(s, false)

	assert.Empty(t, ledger.Refresh())

	_, err := other.Submit(studentB, "50", "IDRT", "")
	require.NoError(t, err)

	refreshed := ledger.Refresh()
	require.Len(t, refreshed, 1)
	assert.Equal(t, studentB, refreshed[0].Student)
}
