package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBootstrap_SeedsCatalogs(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()

	b := &Bootstrap{Repo: repo}
	require.NoError(t, b.Run(ctx))

	require.Len(t, repo.instrumentsBySymbol, 5)
	es := repo.instrumentsBySymbol["ES"]
	require.NotNil(t, es)
	require.Equal(t, "E-mini S&P 500", es.Name)
	require.True(t, es.TickValue.Equal(decimal.RequireFromString("12.50")))
	require.Equal(t, 50, es.Multiplier)

	require.Len(t, repo.emotions, 10)
	for _, e := range repo.emotions {
		require.True(t, e.IsDefault)
		require.NotEmpty(t, e.Icon)
	}

	require.Len(t, repo.notifications, 3)
	require.Equal(t, "Welcome to Admin Dashboard", repo.notifications[0].Title)
}

func TestBootstrap_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	b := &Bootstrap{Repo: repo}

	require.NoError(t, b.Run(ctx))
	require.NoError(t, b.Run(ctx))

	require.Len(t, repo.instrumentsBySymbol, 5)
	require.Len(t, repo.emotions, 10)
	// Notifications only seed into an empty table.
	require.Len(t, repo.notifications, 3)
}
