package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
)

func reservationFixture() CreateReservationInput {
	return CreateReservationInput{
		TableID:      "t1",
		CustomerName: "Dina",
		PartySize:    4,
		ReservedAt:   time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC),
	}
}

func TestReservationCreateAndList(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewReservationService(env.reservations, env.restaurants)
	scope, err := env.scopes.ScopeFor(bg, "u1")
	require.NoError(t, err)

	res, err := svc.Create(bg, scope, reservationFixture())
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, res.Status)

	list, err := svc.List(bg, "r1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.ID, list[0].ID)
}

func TestReservationCreateOnForeignTableIsForbidden(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewReservationService(env.reservations, env.restaurants)
	scope, err := env.scopes.ScopeFor(bg, "u1")
	require.NoError(t, err)

	in := reservationFixture()
	in.TableID = "t3"
	_, err = svc.Create(bg, scope, in)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	in.PartySize = 0
	_, err = svc.Create(bg, scope, in)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestReservationOwnershipFollowsTableRestaurant(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewReservationService(env.reservations, env.restaurants)
	owner, err := env.scopes.ScopeFor(bg, "u1")
	require.NoError(t, err)
	stranger, err := env.scopes.ScopeFor(bg, "u2")
	require.NoError(t, err)

	res, err := svc.Create(bg, owner, reservationFixture())
	require.NoError(t, err)

	status := models.ReservationConfirmed
	_, err = svc.Update(bg, stranger, res.ID, UpdateReservationInput{Status: &status})
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(bg, stranger, res.ID), utils.ErrForbidden)

	moveTo := "t3"
	_, err = svc.Update(bg, owner, res.ID, UpdateReservationInput{TableID: &moveTo})
	assert.ErrorIs(t, err, utils.ErrForbidden, "cannot move onto another owner's table")

	updated, err := svc.Update(bg, owner, res.ID, UpdateReservationInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, updated.Status)

	bogus := "teleported"
	_, err = svc.Update(bg, owner, res.ID, UpdateReservationInput{Status: &bogus})
	assert.ErrorIs(t, err, utils.ErrValidation)

	require.NoError(t, svc.Delete(bg, owner, res.ID))
	_, err = svc.Get(bg, owner, res.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
