package handler_test

import (
	"net/http"
	"testing"

	"queue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventGeneratesCodeAndSlug(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)

	resp, parsed := doRequest(t, app, "POST", "/api/v1/event", token, map[string]interface{}{
		"name": "Bank Branch Downtown",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := dataOf(t, parsed)
	assert.Equal(t, "Bank Branch Downtown", data["name"])
	assert.Len(t, data["code"], 8)
	assert.Equal(t, "bank-branch-downtown", data["slug"])
	assert.Equal(t, true, data["active"])

	// cùng tên thì slug phải khác nhau
	resp, parsed = doRequest(t, app, "POST", "/api/v1/event", token, map[string]interface{}{
		"name": "Bank Branch Downtown",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEqual(t, "bank-branch-downtown", dataOf(t, parsed)["slug"])
}

func TestEventRoutesRequireToken(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doRequest(t, app, "GET", "/api/v1/event/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/api/v1/event", "", map[string]interface{}{"name": "X"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeleteEventSoft(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	event, _ := seedEventWithQueues(t, db, "EVT11111")

	resp, _ := doRequest(t, app, "DELETE", "/api/v1/event/"+itoa(event.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved model.Event
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.True(t, saved.IsDeleted)
	assert.False(t, saved.Active)

	// event đã soft-delete không còn thấy qua API
	resp, _ = doRequest(t, app, "GET", "/api/v1/event/"+itoa(event.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateQueueAssignsNextLetter(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	event, _ := seedEventWithQueues(t, db, "EVT22222")

	resp, parsed := doRequest(t, app, "POST", "/api/v1/queue", token, map[string]interface{}{
		"eventId": event.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "A", dataOf(t, parsed)["name"])

	resp, parsed = doRequest(t, app, "POST", "/api/v1/queue", token, map[string]interface{}{
		"eventId": event.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "B", dataOf(t, parsed)["name"])
}

func TestUpdateQueueRejectsDuplicateName(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	_, queues := seedEventWithQueues(t, db, "EVT33333", "A", "B")

	resp, _ := doRequest(t, app, "PUT", "/api/v1/queue/"+itoa(queues[1].ID), token, map[string]interface{}{
		"name": "A",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestQueueStatusCounts(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	_, queues := seedEventWithQueues(t, db, "EVT44444", "A")

	statuses := []string{model.TicketWaiting, model.TicketWaiting, model.TicketCalled, model.TicketCompleted}
	for i, status := range statuses {
		require.NoError(t, db.Create(&model.Ticket{
			QueueId: queues[0].ID, SessionId: "s", Position: i + 1, Status: status,
		}).Error)
	}

	resp, parsed := doRequest(t, app, "GET", "/api/v1/queue/"+itoa(queues[0].ID)+"/status", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := dataOf(t, parsed)
	assert.Equal(t, float64(2), data["waitingCount"])
	assert.Equal(t, float64(1), data["processingCount"])
	assert.Equal(t, float64(1), data["completedCount"])
	assert.Equal(t, float64(4), data["totalTickets"])
}

func TestCallNextAndReset(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	_, queues := seedEventWithQueues(t, db, "EVT55555", "A")
	path := "/api/v1/queue/" + itoa(queues[0].ID)

	resp, parsed := doRequest(t, app, "POST", path+"/call-next", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), dataOf(t, parsed)["currentPosition"])

	resp, parsed = doRequest(t, app, "POST", path+"/call-next", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), dataOf(t, parsed)["currentPosition"])

	resp, parsed = doRequest(t, app, "POST", path+"/reset", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), dataOf(t, parsed)["currentPosition"])
}

func TestDeleteQueueMovesTickets(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	_, queues := seedEventWithQueues(t, db, "EVT66666", "A", "B")

	for i := 1; i <= 3; i++ {
		require.NoError(t, db.Create(&model.Ticket{
			QueueId: queues[0].ID, SessionId: "s", Position: i, Status: model.TicketWaiting,
		}).Error)
	}

	resp, _ := doRequest(t, app, "DELETE", "/api/v1/queue/"+itoa(queues[0].ID), token, map[string]interface{}{
		"moveTicketsTo": queues[1].ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var moved []model.Ticket
	require.NoError(t, db.Where("queue_id = ? AND is_deleted = ?", queues[1].ID, false).
		Order("position ASC").Find(&moved).Error)
	require.Len(t, moved, 3)
	for i, ticket := range moved {
		assert.Equal(t, i+1, ticket.Position)
	}

	var deleted model.Queue
	require.NoError(t, db.First(&deleted, queues[0].ID).Error)
	assert.True(t, deleted.IsDeleted)
}

func TestDeleteQueueSameTargetRejected(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	_, queues := seedEventWithQueues(t, db, "EVT77777", "A")

	resp, _ := doRequest(t, app, "DELETE", "/api/v1/queue/"+itoa(queues[0].ID), token, map[string]interface{}{
		"moveTicketsTo": queues[0].ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
