package handler_test

import (
	"net/http"
	"testing"
	"time"

	"queue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEventAnalytics(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	event, queues := seedEventWithQueues(t, db, "ANA11111", "A", "B")

	statuses := []string{model.TicketWaiting, model.TicketCalled, model.TicketCompleted, model.TicketCancelled, model.TicketWaiting}
	for i, status := range statuses {
		require.NoError(t, db.Create(&model.Ticket{
			QueueId: queues[i%2].ID, SessionId: "s", Position: i + 1, Status: status,
		}).Error)
	}

	resp, parsed := doRequest(t, app, "GET", "/api/v1/analytics/event/"+itoa(event.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := dataOf(t, parsed)
	assert.Equal(t, float64(2), data["queueCount"])
	assert.Equal(t, float64(5), data["totalTickets"])

	byStatus := data["ticketsByStatus"].(map[string]interface{})
	assert.Equal(t, float64(2), byStatus[model.TicketWaiting])
	assert.Equal(t, float64(1), byStatus[model.TicketCalled])
	assert.Equal(t, float64(1), byStatus[model.TicketCompleted])
	assert.Equal(t, float64(1), byStatus[model.TicketCancelled])
}

func TestGetQueueAnalyticsAverages(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	_, queues := seedEventWithQueues(t, db, "ANA22222", "A")

	created := time.Now().Add(-30 * time.Minute)
	called := created.Add(10 * time.Minute)
	completed := called.Add(5 * time.Minute)

	ticket := model.Ticket{
		QueueId: queues[0].ID, SessionId: "s", Position: 1,
		Status: model.TicketCompleted, CalledAt: &called, CompletedAt: &completed,
	}
	ticket.CreatedAt = created
	require.NoError(t, db.Create(&ticket).Error)

	resp, parsed := doRequest(t, app, "GET", "/api/v1/analytics/queue/"+itoa(queues[0].ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := dataOf(t, parsed)
	assert.InDelta(t, 600, data["avgWaitSeconds"].(float64), 1)
	assert.InDelta(t, 300, data["avgServiceSeconds"].(float64), 1)
}

func TestGetTicketVolume(t *testing.T) {
	app, db := setupApp(t)
	token := seedAdmin(t, db)
	event, queues := seedEventWithQueues(t, db, "ANA33333", "A")

	for i := 1; i <= 3; i++ {
		require.NoError(t, db.Create(&model.Ticket{
			QueueId: queues[0].ID, SessionId: "s", Position: i, Status: model.TicketWaiting,
		}).Error)
	}

	resp, parsed := doRequest(t, app, "GET", "/api/v1/analytics/event/"+itoa(event.ID)+"/volume", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows, ok := parsed["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(3), rows[0].(map[string]interface{})["total"])
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t)

	resp, parsed := doRequest(t, app, "GET", "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", parsed["database"])
}
