package gateway

import (
	models "Dilemma/models/postgres"
	"Dilemma/services/feed"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var participantColumns = []string{"id", "room_id", "name", "session_id", "choice", "choice_timestamp", "joined_at"}

func newSQLMockGateway(t *testing.T) (*GormGateway, sqlmock.Sqlmock, *feed.MemoryFeed) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	f := feed.NewMemoryFeed()
	return NewGormGateway(db, f), mock, f
}

func TestGormGetRoomByCodeActiveOnlyNotFound(t *testing.T) {
	g, mock, _ := newSQLMockGateway(t)

	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE room_code = \$1 AND is_active = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_code", "created_at", "is_active"}))

	_, err := g.GetRoomByCode(context.Background(), "AB12CD", true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetRoomByCode(t *testing.T) {
	g, mock, _ := newSQLMockGateway(t)
	created := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE room_code = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_code", "created_at", "is_active"}).
			AddRow("room-1", "AB12CD", created, false))

	room, err := g.GetRoomByCode(context.Background(), "AB12CD", false)
	require.NoError(t, err)
	assert.Equal(t, "room-1", room.ID)
	assert.False(t, room.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoomCodeExists(t *testing.T) {
	g, mock, _ := newSQLMockGateway(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "rooms" WHERE room_code = \$1`).
		WithArgs("AB12CD").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := g.RoomCodeExists(context.Background(), "AB12CD")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreateRoomMapsUniqueViolation(t *testing.T) {
	g, mock, _ := newSQLMockGateway(t)

	mock.ExpectExec(`INSERT INTO "rooms"`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := g.CreateRoom(context.Background(), "AB12CD")
	assert.ErrorIs(t, err, ErrDuplicateCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListParticipantsOrdered(t *testing.T) {
	g, mock, _ := newSQLMockGateway(t)
	joined := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	chosen := joined.Add(time.Minute)

	mock.ExpectQuery(`SELECT \* FROM "participants" WHERE room_id = \$1 ORDER BY joined_at asc`).
		WithArgs("room-1").
		WillReturnRows(sqlmock.NewRows(participantColumns).
			AddRow("p-1", "room-1", "Alice", "s1", "cooperate", chosen, joined).
			AddRow("p-2", "room-1", "Bob", "s2", nil, nil, joined.Add(time.Second)))

	participants, err := g.ListParticipants(context.Background(), "room-1")
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, models.ChoiceCooperate, participants[0].CurrentChoice())
	assert.False(t, participants[1].HasChoice())
	assert.Nil(t, participants[1].ChoiceTimestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSetChoicePublishes(t *testing.T) {
	g, mock, f := newSQLMockGateway(t)
	joined := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	var notified atomic.Int32
	_, err := f.Subscribe("room-1", func() { notified.Add(1) })
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "participants" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(participantColumns).
			AddRow("p-1", "room-1", "Alice", "s1", nil, nil, joined))
	mock.ExpectExec(`UPDATE "participants" SET`).
		WithArgs("cooperate", sqlmock.AnyArg(), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = g.SetChoice(context.Background(), "p-1", models.ChoiceCooperate, joined.Add(time.Minute))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	require.Eventually(t, func() bool { return notified.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestGormSetChoiceIfUnsetKeepsRecordedChoice(t *testing.T) {
	g, mock, f := newSQLMockGateway(t)
	joined := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	var notified atomic.Int32
	_, err := f.Subscribe("room-1", func() { notified.Add(1) })
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "participants" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(participantColumns).
			AddRow("p-1", "room-1", "Alice", "s1", nil, nil, joined))
	mock.ExpectExec(`UPDATE "participants" SET .* WHERE id = \$3 AND choice IS NULL`).
		WithArgs("defect", sqlmock.AnyArg(), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = g.SetChoiceIfUnset(context.Background(), "p-1", models.ChoiceDefect, joined.Add(time.Minute))
	assert.ErrorIs(t, err, ErrChoiceRecorded)
	assert.NoError(t, mock.ExpectationsWereMet())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), notified.Load())
}

func TestGormSetChoiceIfUnsetWrites(t *testing.T) {
	g, mock, _ := newSQLMockGateway(t)
	joined := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "participants" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(participantColumns).
			AddRow("p-1", "room-1", "Alice", "s1", nil, nil, joined))
	mock.ExpectExec(`UPDATE "participants" SET .* WHERE id = \$3 AND choice IS NULL`).
		WithArgs("cooperate", sqlmock.AnyArg(), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := g.SetChoiceIfUnset(context.Background(), "p-1", models.ChoiceCooperate, joined.Add(time.Minute))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDeactivateMissingRoom(t *testing.T) {
	g, mock, _ := newSQLMockGateway(t)

	mock.ExpectExec(`UPDATE "rooms" SET "is_active"=\$1 WHERE id = \$2`).
		WithArgs(false, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := g.DeactivateRoom(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFailureIsWrapped(t *testing.T) {
	g, mock, _ := newSQLMockGateway(t)
	cause := errors.New("connection reset by peer")

	mock.ExpectQuery(`SELECT \* FROM "participants" WHERE room_id = \$1`).
		WillReturnError(cause)

	_, err := g.ListParticipants(context.Background(), "room-1")
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, mock.ExpectationsWereMet())
}
