package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCapacity(t *testing.T) {
	tests := []struct {
		name    string
		snap    WorkloadSnapshot
		target  string
		wantMsg string
	}{
		{
			name:   "below cap",
			snap:   WorkloadSnapshot{Technicians: []string{"a", "b"}, Counts: map[string]int{"a": 2, "b": 3}},
			target: "a",
		},
		{
			name:   "no jobs yet",
			snap:   WorkloadSnapshot{Technicians: []string{"a"}, Counts: map[string]int{}},
			target: "a",
		},
		{
			name:    "target full, another free",
			snap:    WorkloadSnapshot{Technicians: []string{"a", "b"}, Counts: map[string]int{"a": 3, "b": 1}},
			target:  "a",
			wantMsg: "Technician overloaded. Cannot assign more than 3 active jobs.",
		},
		{
			name:    "everyone full",
			snap:    WorkloadSnapshot{Technicians: []string{"a", "b"}, Counts: map[string]int{"a": 3, "b": 4}},
			target:  "a",
			wantMsg: "No technician currently available",
		},
		{
			name:    "only technician full",
			snap:    WorkloadSnapshot{Technicians: []string{"a"}, Counts: map[string]int{"a": 3}},
			target:  "a",
			wantMsg: "No technician currently available",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCapacity(tt.snap, tt.target)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			requireKind(t, err, ErrCapacityExhausted, tt.wantMsg)
		})
	}
}

func TestAssignTechnician_Success(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	ctx := context.Background()
	manager := testutil.SeedUser(t, env.db, "Mona Manager", entity.RoleManager, true)
	tech := testutil.SeedUser(t, env.db, "Tariq Tech", entity.RoleTechnician, true)
	_, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	req := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusRequested, nil)

	got, err := env.assignment.AssignTechnician(ctx, req.ID, tech.ID, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAssigned, got.Status)
	assert.Equal(t, "Tariq Tech", got.TechnicianName)

	stored := env.reload(t, req.ID)
	assert.Equal(t, entity.StatusAssigned, stored.Status)
	assert.True(t, stored.IsAssignedTo(tech.ID))
	assert.Equal(t, 1, stored.Version)

	rows := env.history(t, req.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.StatusRequested, rows[0].OldStatus)
	assert.Equal(t, entity.StatusAssigned, rows[0].NewStatus)
	assert.Equal(t, manager.ID, rows[0].ChangedBy)

	msgs := env.notifier.messagesFor(tech.ID)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "A new service task has been assigned to you. Request ID:")
}

func TestAssignTechnician_UnknownActor(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	tech := testutil.SeedUser(t, env.db, "Tariq Tech", entity.RoleTechnician, true)
	_, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	req := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusRequested, nil)

	_, err := env.assignment.AssignTechnician(context.Background(), req.ID, tech.ID, "")
	require.NoError(t, err)

	rows := env.history(t, req.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0].ChangedBy)
}

func TestAssignTechnician_Overloaded(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	busy := testutil.SeedUser(t, env.db, "Busy Tech", entity.RoleTechnician, true)
	testutil.SeedUser(t, env.db, "Free Tech", entity.RoleTechnician, true)
	_, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusAssigned, busy)
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusInProgress, busy)
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusAssigned, busy)
	// finished work does not count
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusCompleted, busy)
	req := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusRequested, nil)

	_, err := env.assignment.AssignTechnician(context.Background(), req.ID, busy.ID, "mgr")
	requireKind(t, err, ErrCapacityExhausted, "Technician overloaded. Cannot assign more than 3 active jobs.")

	stored := env.reload(t, req.ID)
	assert.Equal(t, entity.StatusRequested, stored.Status)
	assert.Nil(t, stored.TechnicianID)
	assert.Empty(t, env.history(t, req.ID), "rejection must not leave an audit row")
	assert.Empty(t, env.notifier.messagesFor(busy.ID))
}

func TestAssignTechnician_NoTechnicianAvailable(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	busy := testutil.SeedUser(t, env.db, "Busy Tech", entity.RoleTechnician, true)
	// inactive technicians are not candidates
	testutil.SeedUser(t, env.db, "Idle Tech", entity.RoleTechnician, false)
	_, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	for i := 0; i < 3; i++ {
		testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusAssigned, busy)
	}
	req := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusRequested, nil)

	_, err := env.assignment.AssignTechnician(context.Background(), req.ID, busy.ID, "mgr")
	requireKind(t, err, ErrCapacityExhausted, "No technician currently available")
}

func TestAssignTechnician_Rejections(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	ctx := context.Background()
	tech := testutil.SeedUser(t, env.db, "Tariq Tech", entity.RoleTechnician, true)
	inactive := testutil.SeedUser(t, env.db, "Gone Tech", entity.RoleTechnician, false)
	customer, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	requested := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusRequested, nil)
	inProgress := testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusInProgress, tech)

	_, err := env.assignment.AssignTechnician(ctx, 9999, tech.ID, "mgr")
	requireKind(t, err, ErrNotFound, "Service Request not found")

	_, err = env.assignment.AssignTechnician(ctx, inProgress.ID, tech.ID, "mgr")
	requireKind(t, err, ErrConflict, "Request is already In Progress. Must be 'Requested' to assign.")

	_, err = env.assignment.AssignTechnician(ctx, requested.ID, inactive.ID, "mgr")
	requireKind(t, err, ErrUnprocessable, "Invalid or Inactive Technician")

	_, err = env.assignment.AssignTechnician(ctx, requested.ID, "no-such-user", "mgr")
	requireKind(t, err, ErrUnprocessable, "Invalid or Inactive Technician")

	// a customer is not a technician
	_, err = env.assignment.AssignTechnician(ctx, requested.ID, customer.ID, "mgr")
	requireKind(t, err, ErrUnprocessable, "Invalid or Inactive Technician")

	assert.Empty(t, env.history(t, requested.ID))
}

func TestTechnicianAvailability(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	a := testutil.SeedUser(t, env.db, "Alpha", entity.RoleTechnician, true)
	b := testutil.SeedUser(t, env.db, "Bravo", entity.RoleTechnician, true)
	_, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	for i := 0; i < 3; i++ {
		testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusAssigned, a)
	}
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusInProgress, b)

	rows, err := env.assignment.TechnicianAvailability(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Name)
	assert.Equal(t, 3, rows[0].ActiveJobs)
	assert.False(t, rows[0].Available)
	assert.Equal(t, 1, rows[1].ActiveJobs)
	assert.True(t, rows[1].Available)
}

func TestPendingRequests(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	tech := testutil.SeedUser(t, env.db, "Tariq Tech", entity.RoleTechnician, true)
	_, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusRequested, nil)
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusAssigned, tech)
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusCompleted, tech)
	testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusCancelled, nil)

	items, err := env.assignment.PendingRequests(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, it := range items {
		require.NotNil(t, it.Vehicle)
	}
}

func TestAssignTechnician_ParallelNeverExceedsCapacity(t *testing.T) {
	env := newTestEnv(t, allowNegative)
	tech := testutil.SeedUser(t, env.db, "Solo Tech", entity.RoleTechnician, true)
	_, _, vehicle := testutil.SeedCustomer(t, env.db, "Carl Customer")
	var ids []uint
	for i := 0; i < 8; i++ {
		ids = append(ids, testutil.SeedRequest(t, env.db, vehicle.ID, entity.StatusRequested, nil).ID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		assigned int
		rejected int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := env.assignment.AssignTechnician(context.Background(), id, tech.ID, "mgr")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				assigned++
				return
			}
			if errors.Is(err, ErrCapacityExhausted) {
				rejected++
				return
			}
			t.Errorf("unexpected error: %v", err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, MaxActiveJobs, assigned)
	assert.Equal(t, len(ids)-MaxActiveJobs, rejected)

	counts, err := env.repos.Request.ActiveJobCounts(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, counts[tech.ID], MaxActiveJobs)
	assert.Equal(t, MaxActiveJobs, counts[tech.ID])
}
