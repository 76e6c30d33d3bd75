package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/sse"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyStoresAndPushes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	hub := sse.NewHub(nil)
	svc := NewNotificationService(repos.Notification, hub, nil)
	ctx := context.Background()

	client := &sse.Client{ID: "c1", UserID: "u1", Events: make(chan sse.Event, 4)}
	hub.Register(client)
	defer hub.Unregister("c1")

	svc.Notify(ctx, "u1", "Bill ready")
	svc.Notify(ctx, "", "dropped")

	select {
	case ev := <-client.Events:
		assert.Equal(t, "notification", ev.EventType)
		var payload sse.NotificationPayload
		require.NoError(t, json.Unmarshal([]byte(ev.Data), &payload))
		assert.Equal(t, "Bill ready", payload.Message)
		assert.NotZero(t, payload.ID)
	default:
		t.Fatal("expected a live notification event")
	}

	items, err := svc.ListMine(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, items, 1)

	n, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMarkReadOwnership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewNotificationService(repos.Notification, nil, nil)
	ctx := context.Background()

	svc.Notify(ctx, "u1", "first")
	svc.Notify(ctx, "u1", "second")
	items, err := svc.ListMine(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, items, 2)

	requireKind(t, svc.MarkRead(ctx, "u2", items[0].ID), ErrForbidden, "You cannot modify this notification")
	requireKind(t, svc.MarkRead(ctx, "u1", 9999), ErrNotFound, "Notification not found")

	require.NoError(t, svc.MarkRead(ctx, "u1", items[0].ID))
	require.NoError(t, svc.MarkRead(ctx, "u1", items[0].ID))
	n, _ := svc.UnreadCount(ctx, "u1")
	assert.Equal(t, int64(1), n)

	require.NoError(t, svc.MarkAllRead(ctx, "u1"))
	n, _ = svc.UnreadCount(ctx, "u1")
	assert.Zero(t, n)
}
