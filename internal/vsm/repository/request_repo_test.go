package repository

import (
	"context"
	"testing"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateGuardedRejectsStaleVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()
	_, _, vehicle := testutil.SeedCustomer(t, db, "Kiran")
	seeded := testutil.SeedRequest(t, db, vehicle.ID, entity.StatusRequested, nil)

	first, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateGuarded(ctx, first, map[string]interface{}{"status": entity.StatusCancelled}))
	assert.Equal(t, 1, first.Version)

	err = repo.UpdateGuarded(ctx, second, map[string]interface{}{"status": entity.StatusAssigned})
	assert.ErrorIs(t, err, ErrStaleVersion)

	got, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
	require.NotNil(t, got.Vehicle)
	require.NotNil(t, got.Vehicle.Customer)
}

func TestActiveJobCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRequestRepository(db)
	tech := testutil.SeedUser(t, db, "Tariq", entity.RoleTechnician, true)
	other := testutil.SeedUser(t, db, "Uma", entity.RoleTechnician, true)
	_, _, vehicle := testutil.SeedCustomer(t, db, "Kiran")

	testutil.SeedRequest(t, db, vehicle.ID, entity.StatusAssigned, tech)
	testutil.SeedRequest(t, db, vehicle.ID, entity.StatusInProgress, tech)
	testutil.SeedRequest(t, db, vehicle.ID, entity.StatusCompleted, tech)
	testutil.SeedRequest(t, db, vehicle.ID, entity.StatusClosed, other)
	testutil.SeedRequest(t, db, vehicle.ID, entity.StatusRequested, nil)

	counts, err := repo.ActiveJobCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{tech.ID: 2}, counts)
}
