package repository

import (
	"regexp"
	"testing"
	"time"

	"smarticket-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventRows(events ...model.Event) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"event_id", "name", "description", "type", "date", "contract_address", "ticket_price", "promoter_id"})
	for _, e := range events {
		rows.AddRow(e.EventID, e.Name, e.Description, e.Type, e.Date, e.ContractAddress, e.TicketPrice, e.PromoterID)
	}
	return rows
}

func TestEventCreateAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO Events`)).
		ExpectExec().
		WithArgs(sqlmock.AnyArg(), "Concert", "desc", "music", sqlmock.AnyArg(), "0xabc", 1.5, "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	date := time.Now().Add(24 * time.Hour)
	event := &model.Event{
		Name:            "Concert",
		Description:     "desc",
		Type:            "music",
		Date:            &date,
		ContractAddress: "0xabc",
		TicketPrice:     1.5,
		PromoterID:      "u-1",
	}

	repo := NewEventRepository(db)
	err = repo.Create(event)
	require.Nil(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestEventNameExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT 1 FROM Events WHERE name = ? LIMIT 1`)).
		ExpectQuery().
		WithArgs("Concert").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	repo := NewEventRepository(db)
	exists, err := repo.NameExists("Concert")
	require.Nil(t, err)

	assert.True(t, exists)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestEventNameExistsFalse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT 1 FROM Events WHERE name = ? LIMIT 1`)).
		ExpectQuery().
		WithArgs("Nope").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := NewEventRepository(db)
	exists, err := repo.NameExists("Nope")
	require.Nil(t, err)

	assert.False(t, exists)
}

func TestEventGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT`)).
		ExpectQuery().
		WithArgs("missing").
		WillReturnRows(eventRows())

	repo := NewEventRepository(db)
	event, found, err := repo.GetByID("missing")
	require.Nil(t, err)

	assert.False(t, found)
	assert.Nil(t, event)
}

func TestEventGetFutureEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	defer db.Close()

	date := time.Now().Add(48 * time.Hour)
	mock.ExpectPrepare(regexp.QuoteMeta(`FROM Events WHERE date >= ?`)).
		ExpectQuery().
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(eventRows(model.Event{EventID: "e-1", Name: "Future", Type: "music", Date: &date, ContractAddress: "0xabc", TicketPrice: 2, PromoterID: "u-1"}))

	repo := NewEventRepository(db)
	events, err := repo.GetFutureEvents()
	require.Nil(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "Future", events[0].Name)
}

func TestEventDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(`DELETE FROM Events WHERE event_id = ?`)).
		ExpectExec().
		WithArgs("e-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEventRepository(db)
	err = repo.Delete("e-1")
	require.Nil(t, err)

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestEventUpdateMissingRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(`UPDATE Events SET`)).
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))

	date := time.Now()
	repo := NewEventRepository(db)
	err = repo.Update(&model.Event{EventID: "missing", Name: "x", Type: "y", Date: &date})

	assert.ErrorIs(t, err, NoRecordFound)
}
