package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

type listFixture struct {
	rentals  *MockRentalRepo
	vehicles *MockVehicleRepo
	clients  *MockClientRepo
	list     *RentalList
}

func newListFixture(t *testing.T, session *domain.Session) *listFixture {
	t.Helper()
	f := &listFixture{
		rentals:  new(MockRentalRepo),
		vehicles: new(MockVehicleRepo),
		clients:  new(MockClientRepo),
	}
	list, err := NewRentalList(session, f.rentals, f.vehicles, f.clients, testClock())
	require.NoError(t, err)
	f.list = list
	return f
}

func sampleRentals() []domain.Rental {
	return []domain.Rental{
		rental(3, "ZZ999ZZ", 5, utils.MustDate(2025, 3, 1), utils.MustDate(2025, 3, 5), domain.RentalStatusOverdue),
		rental(1, "AB123CD", 4, utils.MustDate(2025, 3, 10), utils.MustDate(2025, 3, 12), domain.RentalStatusReserved),
		rental(2, "AB123CD", 4, utils.MustDate(2025, 2, 1), utils.MustDate(2025, 2, 3), domain.RentalStatusFinalized),
		rental(4, "ZZ999ZZ", 5, utils.MustDate(2025, 3, 8), utils.MustDate(2025, 3, 14), domain.RentalStatusActive),
	}
}

func cardIDs(cards []RentalCard) []int64 {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.Rental.ID
	}
	return ids
}

func TestRentalList_RefreshStaff(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t, newSession(t, 9, domain.RoleEmployee))
	f.rentals.On("ListAll", ctx).Return(sampleRentals(), nil)
	f.vehicles.On("ListAll", ctx).Return(testVehicles(), nil)
	f.clients.On("ListAll", ctx).Return(testClients(), nil)

	require.NoError(t, f.list.Refresh(ctx))

	cards, err := f.list.Cards(ListFilter{})
	require.NoError(t, err)
	// backend order is preserved
	assert.Equal(t, []int64{3, 1, 2, 4}, cardIDs(cards))

	reserved := cards[1]
	assert.Equal(t, "Fiat Cronos (AB123CD)", reserved.VehicleLabel)
	assert.Equal(t, "María Gómez", reserved.ClientName)
	require.NotNil(t, reserved.VehicleStatus)
	assert.Equal(t, "Libre", reserved.VehicleStatus.Label)
	assert.Equal(t, domain.StatusPresentation{Label: "Reservado", Severity: domain.SeverityInfo}, reserved.Presentation)
	assert.Equal(t, []domain.RentalAction{domain.ActionStart, domain.ActionCancel}, reserved.Actions)
	assert.Equal(t, "50000", reserved.Total.String())
	require.NotNil(t, reserved.DaysRemaining)
	assert.Equal(t, 2, *reserved.DaysRemaining)

	overdue := cards[0]
	assert.Equal(t, []domain.RentalAction{domain.ActionComplete}, overdue.Actions)
	assert.Equal(t, -5, *overdue.DaysRemaining)

	finalized := cards[2]
	assert.Empty(t, finalized.Actions)
	assert.Nil(t, finalized.DaysRemaining)
}

func TestRentalList_AdminSeesDelete(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t, newSession(t, 1, domain.RoleAdmin))
	f.rentals.On("ListAll", ctx).Return(sampleRentals(), nil)
	f.vehicles.On("ListAll", ctx).Return(testVehicles(), nil)
	f.clients.On("ListAll", ctx).Return(testClients(), nil)
	require.NoError(t, f.list.Refresh(ctx))

	cards, err := f.list.Cards(ListFilter{Status: "FINALIZED"})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, []domain.RentalAction{domain.ActionDelete}, cards[0].Actions)
}

func TestRentalList_SelfServiceScoping(t *testing.T) {
	ctx := context.Background()
	client := newSession(t, 4, domain.RoleClient)
	f := newListFixture(t, client)
	// the backend returns someone else's rental too; it must not show up
	f.rentals.On("ListAll", ctx).Return(sampleRentals(), nil)
	f.vehicles.On("ListAll", ctx).Return(testVehicles(), nil)

	require.NoError(t, f.list.Refresh(ctx))
	f.clients.AssertNotCalled(t, "ListAll", mock.Anything)

	cards, err := f.list.Cards(ListFilter{Query: "ZZ999ZZ"})
	require.NoError(t, err)
	assert.Empty(t, cards)

	cards, err = f.list.Cards(ListFilter{Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, cardIDs(cards))
	assert.Equal(t, "Test User", cards[0].ClientName)
	// a client may cancel a reservation but not start it
	assert.Equal(t, []domain.RentalAction{domain.ActionCancel}, cards[0].Actions)
}

func TestRentalList_CardsFilter(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t, newSession(t, 9, domain.RoleEmployee))
	f.rentals.On("ListAll", ctx).Return(sampleRentals(), nil)
	f.vehicles.On("ListAll", ctx).Return(testVehicles(), nil)
	f.clients.On("ListAll", ctx).Return(testClients(), nil)
	require.NoError(t, f.list.Refresh(ctx))

	cases := []struct {
		name   string
		filter ListFilter
		want   []int64
	}{
		{"no filter", ListFilter{}, []int64{3, 1, 2, 4}},
		{"plate", ListFilter{Query: "ab123"}, []int64{1, 2}},
		{"model", ListFilter{Query: "peugeot 208"}, []int64{3, 4}},
		{"id", ListFilter{Query: "4"}, []int64{4}},
		{"client name without accents", ListFilter{Query: "gomez"}, []int64{1, 2}},
		{"client name with accents", ListFilter{Query: "PÉREZ"}, []int64{3, 4}},
		{"status", ListFilter{Status: "active"}, []int64{4}},
		{"status and text", ListFilter{Query: "maría", Status: "RESERVED"}, []int64{1}},
		{"no match", ListFilter{Query: "tesla"}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := f.list.Cards(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, cardIDs(cards))
		})
	}

	_, err := f.list.Cards(ListFilter{Status: "LOST"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRentalList_FailedRefreshKeepsCards(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t, newSession(t, 9, domain.RoleEmployee))
	f.rentals.On("ListAll", ctx).Return(sampleRentals(), nil).Once()
	f.vehicles.On("ListAll", ctx).Return(testVehicles(), nil)
	f.clients.On("ListAll", ctx).Return(testClients(), nil)
	require.NoError(t, f.list.Refresh(ctx))

	f.rentals.On("ListAll", ctx).Return(nil, errors.New("502 bad gateway")).Once()
	err := f.list.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrTransport)

	cards, err := f.list.Cards(ListFilter{})
	require.NoError(t, err)
	assert.Len(t, cards, 4)
}

func TestRentalList_StaleRefreshDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newListFixture(t, newSession(t, 9, domain.RoleEmployee))
	f.vehicles.On("ListAll", ctx).Return(testVehicles(), nil)
	f.clients.On("ListAll", ctx).Return(testClients(), nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	stale := []domain.Rental{rental(1, "AB123CD", 4, testToday, testToday.AddDays(2), domain.RentalStatusReserved)}
	fresh := []domain.Rental{rental(1, "AB123CD", 4, testToday, testToday.AddDays(2), domain.RentalStatusActive)}

	f.rentals.On("ListAll", ctx).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(stale, nil).Once()
	f.rentals.On("ListAll", ctx).Return(fresh, nil).Once()

	done := make(chan error)
	go func() { done <- f.list.Refresh(ctx) }()
	<-entered

	require.NoError(t, f.list.Refresh(ctx))
	close(release)
	require.NoError(t, <-done)

	cards, err := f.list.Cards(ListFilter{})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, domain.RentalStatusActive, cards[0].Rental.Status)
}

func TestRentalList_Perform(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, session *domain.Session) *listFixture {
		f := newListFixture(t, session)
		f.rentals.On("ListAll", ctx).Return(sampleRentals(), nil)
		f.vehicles.On("ListAll", ctx).Return(testVehicles(), nil)
		f.clients.On("ListAll", ctx).Return(testClients(), nil)
		require.NoError(t, f.list.Refresh(ctx))
		return f
	}

	t.Run("Start calls the backend and re-fetches", func(t *testing.T) {
		f := setup(t, newSession(t, 9, domain.RoleEmployee))
		f.rentals.On("Start", ctx, int64(1)).Return(nil).Once()

		require.NoError(t, f.list.Perform(ctx, 1, domain.ActionStart))
		f.rentals.AssertCalled(t, "Start", ctx, int64(1))
		f.rentals.AssertNumberOfCalls(t, "ListAll", 2)
	})

	t.Run("Predicate refuses without a network call", func(t *testing.T) {
		f := setup(t, newSession(t, 9, domain.RoleEmployee))
		err := f.list.Perform(ctx, 2, domain.ActionComplete)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.rentals.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		f.rentals.AssertNumberOfCalls(t, "ListAll", 1)
	})

	t.Run("Gate refuses without a network call", func(t *testing.T) {
		f := setup(t, newSession(t, 9, domain.RoleEmployee))
		err := f.list.Perform(ctx, 2, domain.ActionDelete)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		f.rentals.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Admin deletes regardless of state", func(t *testing.T) {
		f := setup(t, newSession(t, 1, domain.RoleAdmin))
		f.rentals.On("Delete", ctx, int64(2)).Return(nil).Once()
		require.NoError(t, f.list.Perform(ctx, 2, domain.ActionDelete))
		f.rentals.AssertNumberOfCalls(t, "ListAll", 2)
	})

	t.Run("Backend rejection re-fetches and surfaces the error", func(t *testing.T) {
		f := setup(t, newSession(t, 9, domain.RoleEmployee))
		f.rentals.On("Complete", ctx, int64(4)).Return(domain.NewInvalidTransitionError("La renta ya fue finalizada")).Once()

		err := f.list.Perform(ctx, 4, domain.ActionComplete)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, "La renta ya fue finalizada", domain.MessageOf(err))
		f.rentals.AssertNumberOfCalls(t, "ListAll", 2)
	})

	t.Run("Transport failure is surfaced", func(t *testing.T) {
		f := setup(t, newSession(t, 9, domain.RoleEmployee))
		f.rentals.On("Cancel", ctx, int64(1)).Return(errors.New("connection reset")).Once()

		err := f.list.Perform(ctx, 1, domain.ActionCancel)
		assert.ErrorIs(t, err, domain.ErrTransport)
	})

	t.Run("Reload failure after an accepted action keeps the cards", func(t *testing.T) {
		f := newListFixture(t, newSession(t, 9, domain.RoleEmployee))
		f.rentals.On("ListAll", ctx).Return(sampleRentals(), nil).Once()
		f.rentals.On("ListAll", ctx).Return(nil, errors.New("timeout")).Once()
		f.vehicles.On("ListAll", ctx).Return(testVehicles(), nil)
		f.clients.On("ListAll", ctx).Return(testClients(), nil)
		require.NoError(t, f.list.Refresh(ctx))
		f.rentals.On("Start", ctx, int64(1)).Return(nil).Once()

		require.NoError(t, f.list.Perform(ctx, 1, domain.ActionStart))
		f.rentals.AssertNumberOfCalls(t, "ListAll", 2)

		cards, err := f.list.Cards(ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 1, 2, 4}, cardIDs(cards))
		assert.Equal(t, domain.RentalStatusReserved, cards[1].Rental.Status)
	})

	t.Run("Unknown rental", func(t *testing.T) {
		f := setup(t, newSession(t, 9, domain.RoleEmployee))
		assert.ErrorIs(t, f.list.Perform(ctx, 404, domain.ActionStart), domain.ErrNotFound)
	})
}

func TestNewRentalList_EndedSession(t *testing.T) {
	s := newSession(t, 4, domain.RoleClient)
	s.End()
	_, err := NewRentalList(s, new(MockRentalRepo), new(MockVehicleRepo), new(MockClientRepo), testClock())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
