package helper

import (
	"testing"
	"time"

	"queue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPosition(t *testing.T) {
	db := setupTestDB(t)

	event := model.Event{Name: "Test", Code: "POS11111", Slug: "pos-1", Active: true}
	require.NoError(t, db.Create(&event).Error)
	queue := model.Queue{EventId: event.ID, Name: "A", Active: true}
	require.NoError(t, db.Create(&queue).Error)

	pos, err := NextPosition(db, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	for i := 1; i <= 3; i++ {
		ticket := model.Ticket{QueueId: queue.ID, SessionId: "s", Position: i, Status: model.TicketWaiting}
		require.NoError(t, db.Create(&ticket).Error)
	}

	pos, err = NextPosition(db, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, pos)

	// vé soft-delete không tính vào max
	require.NoError(t, db.Model(&model.Ticket{}).
		Where("queue_id = ? AND position = ?", queue.ID, 3).
		Update("is_deleted", true).Error)

	pos, err = NextPosition(db, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, pos)
}

func TestLockQueueNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := LockQueue(db, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	event := model.Event{Name: "Test", Code: "POS22222", Slug: "pos-2", Active: true}
	require.NoError(t, db.Create(&event).Error)
	queue := model.Queue{EventId: event.ID, Name: "A", Active: true, IsDeleted: true}
	require.NoError(t, db.Create(&queue).Error)

	_, err = LockQueue(db, queue.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenumberIntoMerge(t *testing.T) {
	db := setupTestDB(t)

	event := model.Event{Name: "Test", Code: "POS33333", Slug: "pos-3", Active: true}
	require.NoError(t, db.Create(&event).Error)
	q1 := model.Queue{EventId: event.ID, Name: "A", Active: true}
	q2 := model.Queue{EventId: event.ID, Name: "B", Active: true}
	require.NoError(t, db.Create(&q1).Error)
	require.NoError(t, db.Create(&q2).Error)

	base := time.Now().Add(-time.Hour)

	// hai vé có sẵn ở Q2, tạo trước
	for i := 1; i <= 2; i++ {
		ticket := model.Ticket{QueueId: q2.ID, SessionId: "old", Position: i, Status: model.TicketWaiting}
		ticket.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&ticket).Error)
	}

	// năm vé ở Q1, tạo sau
	var q1Tickets []model.Ticket
	for i := 1; i <= 5; i++ {
		ticket := model.Ticket{QueueId: q1.ID, SessionId: "new", Position: i, Status: model.TicketCalled}
		ticket.CreatedAt = base.Add(time.Duration(10+i) * time.Minute)
		require.NoError(t, db.Create(&ticket).Error)
		q1Tickets = append(q1Tickets, ticket)
	}

	// chuyển vé position 3 của Q1 sang Q2
	moved := q1Tickets[2]
	require.NoError(t, RenumberInto(db, q2.ID, []model.Ticket{moved}))

	var result []model.Ticket
	require.NoError(t, db.Where("queue_id = ? AND is_deleted = ?", q2.ID, false).
		Order("position ASC").Find(&result).Error)
	require.Len(t, result, 3)

	// dãy 1..3 không lỗ hổng, vé chuyển sang đứng cuối vì tạo muộn nhất
	for i, ticket := range result {
		assert.Equal(t, i+1, ticket.Position)
	}
	assert.Equal(t, moved.ID, result[2].ID)
	assert.Equal(t, model.TicketWaiting, result[2].Status)
	assert.Equal(t, q2.ID, result[2].QueueId)
}

func TestPeopleAhead(t *testing.T) {
	db := setupTestDB(t)

	event := model.Event{Name: "Test", Code: "POS44444", Slug: "pos-4", Active: true}
	require.NoError(t, db.Create(&event).Error)
	queue := model.Queue{EventId: event.ID, Name: "A", Active: true}
	require.NoError(t, db.Create(&queue).Error)

	statuses := []string{model.TicketWaiting, model.TicketCalled, model.TicketWaiting, model.TicketCalled, model.TicketWaiting}
	var tickets []model.Ticket
	for i, status := range statuses {
		ticket := model.Ticket{QueueId: queue.ID, SessionId: "s", Position: i + 1, Status: status}
		require.NoError(t, db.Create(&ticket).Error)
		tickets = append(tickets, ticket)
	}

	ahead, err := PeopleAhead(db, &tickets[4])
	require.NoError(t, err)
	assert.Equal(t, int64(4), ahead)

	// hoàn tất / huỷ hết vé phía trước thì về 0
	require.NoError(t, db.Model(&model.Ticket{}).
		Where("queue_id = ? AND position < ?", queue.ID, 5).
		Update("status", model.TicketCompleted).Error)

	ahead, err = PeopleAhead(db, &tickets[4])
	require.NoError(t, err)
	assert.Equal(t, int64(0), ahead)
}
