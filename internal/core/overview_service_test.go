package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.shops.Register(ctx, owner, registerRequest("30-71234567-8"))
	require.NoError(t, err)
	_, err = f.oilChanges.Create(ctx, owner.UserID, owner, validOilChange("L-00005"))
	require.NoError(t, err)

	ov, err := NewOverviewService(f.shops, f.entitlements, f.oilChanges).Get(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Lubricentro Norte", ov.Shop.FantasyName)
	assert.Equal(t, StatusActiveTrial, ov.Status.Code)
	assert.Equal(t, 9, ov.Status.RemainingChanges)
	assert.Equal(t, "L-00006", ov.NextTicket)
}

func TestOverviewUnknownShop(t *testing.T) {
	f := newFixture(t)
	_, err := NewOverviewService(f.shops, f.entitlements, f.oilChanges).Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrShopNotFound)
}
