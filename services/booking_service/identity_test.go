package booking_service

import (
	"context"
	"errors"
	"testing"

	"github.com/joy095/bayelite/models/booking_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       []booking_models.Lookup
	}{
		{
			name:       "external id only",
			identifier: "B-1",
			want:       []booking_models.Lookup{{Key: booking_models.ByBookingID, Value: "B-1"}},
		},
		{
			name:       "numeric falls back to internal id",
			identifier: "7",
			want: []booking_models.Lookup{
				{Key: booking_models.ByBookingID, Value: "7"},
				{Key: booking_models.ByID, Value: int64(7)},
			},
		},
		{
			name:       "decimal is not an internal id",
			identifier: "7.5",
			want:       []booking_models.Lookup{{Key: booking_models.ByBookingID, Value: "7.5"}},
		},
		{
			name:       "beyond int4 is not an internal id",
			identifier: "9999999999",
			want:       []booking_models.Lookup{{Key: booking_models.ByBookingID, Value: "9999999999"}},
		},
		{
			name:       "largest int4",
			identifier: "2147483647",
			want: []booking_models.Lookup{
				{Key: booking_models.ByBookingID, Value: "2147483647"},
				{Key: booking_models.ByID, Value: int64(2147483647)},
			},
		},
		{
			name:       "blank",
			identifier: "  ",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Candidates(tt.identifier))
		})
	}
}

func TestIdentityResolver_Resolve(t *testing.T) {
	store := newMemoryStore(sampleBooking())
	resolver := NewIdentityResolver(store)
	ctx := context.Background()

	byExternal, err := resolver.Resolve(ctx, "B-1")
	require.NoError(t, err)
	byInternal, err := resolver.Resolve(ctx, "7")
	require.NoError(t, err)

	assert.Equal(t, int64(7), byExternal.ID)
	assert.Equal(t, byExternal.ID, byInternal.ID)

	_, err = resolver.Resolve(ctx, "B-404")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = resolver.Resolve(ctx, "404")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestIdentityResolver_PrefersExternalID(t *testing.T) {
	numericExternal := sampleBooking()
	numericExternal.ID = 1
	numericExternal.BookingID = "7"
	other := sampleBooking()

	resolver := NewIdentityResolver(newMemoryStore(numericExternal, other))

	b, err := resolver.Resolve(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
}

func TestIdentityResolver_StoreFailure(t *testing.T) {
	store := newMemoryStore(sampleBooking())
	store.err = errors.New("connection reset")

	_, err := NewIdentityResolver(store).Resolve(context.Background(), "B-1")
	assert.ErrorIs(t, err, ErrPersistence)
}
