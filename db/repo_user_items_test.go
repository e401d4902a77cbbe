package db

import (
	"context"
	"testing"

	"labstock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	owner *models.User
	team  *models.Team
	lab   *models.Lab
	item  *models.Item
}

func newLedgerFixture(t *testing.T, r *Repo) ledgerFixture {
	t.Helper()
	owner := mustUser(t, r, "owner@example.com")
	team, err := r.CreateTeam(context.Background(), "optics", owner.ID)
	require.NoError(t, err)
	lab := &models.Lab{OwnerID: owner.ID, TeamID: team.ID}
	require.NoError(t, r.CreateLab(context.Background(), lab))
	item := &models.Item{TeamID: team.ID, Name: "multimeter"}
	require.NoError(t, r.CreateItem(context.Background(), item))
	return ledgerFixture{owner: owner, team: team, lab: lab, item: item}
}

func (f ledgerFixture) borrow(t *testing.T, r *Repo) *models.UserItem {
	t.Helper()
	rec := &models.UserItem{UserID: f.owner.ID, ItemID: f.item.ID, LabID: f.lab.ID}
	require.NoError(t, r.CreateBorrowRecord(context.Background(), rec))
	return rec
}

func TestReturnIsTerminal(t *testing.T) {
	r := newTestRepo(t)
	f := newLedgerFixture(t, r)
	rec := f.borrow(t, r)
	assert.False(t, rec.BorrowedAt.IsZero())

	returned, err := r.ReturnBorrowRecord(context.Background(), rec.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnedAt)

	// the second return must not move the timestamp
	_, err = r.ReturnBorrowRecord(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)

	again, err := r.FindBorrowRecordByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, returned.ReturnedAt.Unix(), again.ReturnedAt.Unix())
}

func TestReturnUnknownRecord(t *testing.T) {
	r := newTestRepo(t)
	_, err := r.ReturnBorrowRecord(context.Background(), "ffffffff-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItemSweepsRecords(t *testing.T) {
	r := newTestRepo(t)
	f := newLedgerFixture(t, r)
	f.borrow(t, r)

	require.NoError(t, r.DeleteItem(context.Background(), f.item.ID))
	assert.EqualValues(t, 0, countRows(t, r, &models.UserItem{}, ""))
	// the lab is untouched
	_, err := r.FindLabByID(context.Background(), f.lab.ID)
	require.NoError(t, err)
}

func TestDeleteLabSweepsRecords(t *testing.T) {
	r := newTestRepo(t)
	f := newLedgerFixture(t, r)
	f.borrow(t, r)

	require.NoError(t, r.DeleteLab(context.Background(), f.lab.ID))
	assert.EqualValues(t, 0, countRows(t, r, &models.UserItem{}, ""))
	// the item is untouched
	_, err := r.FindItemByID(context.Background(), f.item.ID)
	require.NoError(t, err)
}

func TestListBorrowRecords(t *testing.T) {
	r := newTestRepo(t)
	f := newLedgerFixture(t, r)
	open := f.borrow(t, r)
	closed := f.borrow(t, r)
	_, err := r.ReturnBorrowRecord(context.Background(), closed.ID)
	require.NoError(t, err)

	// a second team whose ledger must stay out of the first team's view
	other := mustUser(t, r, "other@example.com")
	otherTeam, err := r.CreateTeam(context.Background(), "chem", other.ID)
	require.NoError(t, err)
	otherLab := &models.Lab{OwnerID: other.ID, TeamID: otherTeam.ID}
	require.NoError(t, r.CreateLab(context.Background(), otherLab))
	otherItem := &models.Item{TeamID: otherTeam.ID, Name: "flask"}
	require.NoError(t, r.CreateItem(context.Background(), otherItem))
	require.NoError(t, r.CreateBorrowRecord(context.Background(), &models.UserItem{
		UserID: other.ID, ItemID: otherItem.ID, LabID: otherLab.ID,
	}))

	res, err := r.ListBorrowRecords(context.Background(), BorrowQuery{TeamID: f.team.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	res, err = r.ListBorrowRecords(context.Background(), BorrowQuery{TeamID: f.team.ID, Status: "open"})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, open.ID, res.Records[0].ID)

	res, err = r.ListBorrowRecords(context.Background(), BorrowQuery{TeamID: f.team.ID, Status: "returned"})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, closed.ID, res.Records[0].ID)

	res, err = r.ListBorrowRecords(context.Background(), BorrowQuery{UserID: f.owner.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
}
