package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/state/cachegate"
	"municipal-portal/internal/state/status"
	"municipal-portal/internal/state/store"
)

type fixture struct {
	d     *Dispatcher
	store *store.Store[entity.Service]
}

func newFixture() fixture {
	return fixture{
		d: New("services", cachegate.New(nil), nil),
		store: store.New(
			store.ByCategory[entity.Service](entity.ServiceSalud),
			store.ByCategory[entity.Service](entity.ServiceCultura),
		),
	}
}

func svc(id string, c entity.Category) entity.Service {
	return entity.Service{ID: id, Title: id, Category: c}
}

func TestRun_FetchAppliesAndStamps(t *testing.T) {
	f := newFixture()
	op := Operation{Name: "getServicesAsync", Kind: Fetch, Keys: []string{"services", "servicesByCategory.salud"}}

	got, err := Run(context.Background(), f.d, op,
		func(context.Context) ([]entity.Service, error) {
			return []entity.Service{svc("1", entity.ServiceSalud)}, nil
		},
		f.store.SetAll)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, f.store.Len())
	assert.Len(t, f.store.Partition("salud"), 1)

	for _, k := range op.Keys {
		_, ok := f.d.Gate.LastFetched(k)
		assert.True(t, ok, "key %s should be stamped", k)
	}
	s, _ := f.d.Status.Get("getServicesAsync")
	assert.Equal(t, status.Fulfilled, s.Phase)
}

func TestRun_FailureLeavesStoreUntouched(t *testing.T) {
	f := newFixture()
	f.store.SetAll([]entity.Service{svc("1", entity.ServiceSalud)})
	f.d.Gate.Stamp("services")
	before := f.store.All()

	backendErr := errors.New("connection refused")
	op := Operation{Name: "createServiceAsync", Kind: Mutation, FailureMessage: "Error al crear servicio"}
	_, err := Run(context.Background(), f.d, op,
		func(context.Context) (entity.Service, error) { return entity.Service{}, backendErr },
		f.store.Insert)

	var rej *RejectedError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "Error al crear servicio", rej.Message)
	assert.Equal(t, status.Op("createServiceAsync"), rej.Op)
	assert.ErrorIs(t, err, backendErr)

	assert.Equal(t, before, f.store.All())
	assert.Len(t, f.store.Partition("salud"), 1)
	_, stamped := f.d.Gate.LastFetched("services")
	assert.True(t, stamped, "failed mutation must not invalidate the cache")

	s, _ := f.d.Status.Get("createServiceAsync")
	assert.Equal(t, status.Status{Phase: status.Rejected, Message: "Error al crear servicio"}, s)
}

func TestRun_MutationResetsFetchRecord(t *testing.T) {
	f := newFixture()
	f.d.Gate.Stamp("services", "servicesByCategory.salud", "servicesByCategory.cultura")

	op := Operation{Name: "createServiceAsync", Kind: Mutation, SuccessMessage: "Servicio creado correctamente"}
	_, err := Run(context.Background(), f.d, op,
		func(context.Context) (entity.Service, error) { return svc("n", entity.ServiceCultura), nil },
		f.store.Insert)

	require.NoError(t, err)
	assert.Empty(t, f.d.Gate.Record())
	assert.Len(t, f.store.Partition("cultura"), 1)
	s, _ := f.d.Status.Get("createServiceAsync")
	assert.Equal(t, "Servicio creado correctamente", s.Message)
}

func TestRun_StaleCompletionDiscarded(t *testing.T) {
	f := newFixture()
	op := Operation{Name: "getServicesAsync", Kind: Fetch, Keys: []string{"services"}}

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	slowDone := make(chan error, 1)

	go func() {
		_, err := Run(context.Background(), f.d, op,
			func(context.Context) ([]entity.Service, error) {
				close(slowStarted)
				<-releaseSlow
				return []entity.Service{svc("old", entity.ServiceSalud)}, nil
			},
			f.store.SetAll)
		slowDone <- err
	}()
	<-slowStarted

	fresh, err := Run(context.Background(), f.d, op,
		func(context.Context) ([]entity.Service, error) {
			return []entity.Service{svc("new", entity.ServiceCultura)}, nil
		},
		f.store.SetAll)
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	close(releaseSlow)
	select {
	case err := <-slowDone:
		require.NoError(t, err, "stale completion still answers its caller")
	case <-time.After(2 * time.Second):
		t.Fatal("slow operation did not finish")
	}

	all := f.store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "new", all[0].ID)
	assert.Empty(t, f.store.Partition("salud"))
	s, _ := f.d.Status.Get("getServicesAsync")
	assert.Equal(t, status.Fulfilled, s.Phase)
}

func TestRun_OverlappingMutationsAllApply(t *testing.T) {
	f := newFixture()
	f.store.SetAll([]entity.Service{
		svc("1", entity.ServiceSalud),
		svc("2", entity.ServiceSalud),
		svc("3", entity.ServiceCultura),
	})
	op := Operation{Name: "deleteServiceAsync", Kind: Mutation, SuccessMessage: "Servicio eliminado correctamente"}
	remove := func(id string) { f.store.Remove(id) }

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		_, err := Run(context.Background(), f.d, op,
			func(context.Context) (string, error) {
				close(firstStarted)
				<-releaseFirst
				return "1", nil
			}, remove)
		firstDone <- err
	}()
	<-firstStarted

	_, err := Run(context.Background(), f.d, op,
		func(context.Context) (string, error) { return "2", nil }, remove)
	require.NoError(t, err)

	// A reader refreshes between the two completions.
	f.d.Gate.Stamp("services")

	close(releaseFirst)
	select {
	case err := <-firstDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first delete did not finish")
	}

	all := f.store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "3", all[0].ID)
	assert.Empty(t, f.d.Gate.Record(), "every committed mutation clears the fetch record")
	assert.Equal(t, uint64(2), f.d.Epoch())

	s, _ := f.d.Status.Get("deleteServiceAsync")
	assert.Equal(t, status.Fulfilled, s.Phase)
}

func TestRun_FetchOverlappingMutationIsDiscarded(t *testing.T) {
	f := newFixture()
	f.store.SetAll([]entity.Service{svc("1", entity.ServiceSalud)})
	fetchOp := Operation{Name: "getServicesAsync", Kind: Fetch, Keys: []string{"services"}}
	updateOp := Operation{Name: "updateServiceAsync", Kind: Mutation}

	fetchStarted := make(chan struct{})
	releaseFetch := make(chan struct{})
	fetchDone := make(chan error, 1)
	go func() {
		_, err := Run(context.Background(), f.d, fetchOp,
			func(context.Context) ([]entity.Service, error) {
				close(fetchStarted)
				<-releaseFetch
				return []entity.Service{svc("1", entity.ServiceSalud)}, nil
			}, f.store.SetAll)
		fetchDone <- err
	}()
	<-fetchStarted

	_, err := Run(context.Background(), f.d, updateOp,
		func(context.Context) (entity.Service, error) { return svc("1", entity.ServiceCultura), nil },
		func(s entity.Service) { f.store.Update(s) })
	require.NoError(t, err)

	close(releaseFetch)
	select {
	case err := <-fetchDone:
		require.NoError(t, err, "the caller still gets its snapshot")
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not finish")
	}

	assert.Empty(t, f.store.Partition("salud"))
	assert.Len(t, f.store.Partition("cultura"), 1)
	_, stamped := f.d.Gate.LastFetched("services")
	assert.False(t, stamped, "a snapshot older than a write must not be marked fresh")

	s, _ := f.d.Status.Get("getServicesAsync")
	assert.Equal(t, status.Fulfilled, s.Phase, "the fetch status still settles")
}

func TestRun_StaleFailureDoesNotOverwriteStatus(t *testing.T) {
	f := newFixture()
	op := Operation{Name: "getServicesAsync", Kind: Fetch, FailureMessage: "Error al obtener servicios"}

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Run(context.Background(), f.d, op,
			func(context.Context) ([]entity.Service, error) {
				close(started)
				<-release
				return nil, errors.New("timeout")
			}, f.store.SetAll)
	}()
	<-started

	_, err := Run(context.Background(), f.d, op,
		func(context.Context) ([]entity.Service, error) { return nil, nil }, f.store.SetAll)
	require.NoError(t, err)
	close(release)
	<-done

	s, _ := f.d.Status.Get("getServicesAsync")
	assert.Equal(t, status.Fulfilled, s.Phase)
}

func TestRun_PanicBecomesRejection(t *testing.T) {
	f := newFixture()
	op := Operation{Name: "deleteServiceAsync", Kind: Mutation, FailureMessage: "Error al eliminar servicio"}
	_, err := Run(context.Background(), f.d, op,
		func(context.Context) (string, error) { panic("nil map") },
		func(string) { t.Fatal("apply must not run") })

	var rej *RejectedError
	require.True(t, errors.As(err, &rej))
	assert.Contains(t, rej.Err.Error(), "panic: nil map")
	s, _ := f.d.Status.Get("deleteServiceAsync")
	assert.Equal(t, status.Rejected, s.Phase)
}

func TestRun_Messages(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		err  error
		want string
	}{
		{
			name: "not found",
			op:   Operation{NotFoundMessage: "Servicio no encontrado", FailureMessage: "Error al obtener servicio"},
			err:  fmt.Errorf("get service: %w", entity.ErrNotFound),
			want: "Servicio no encontrado",
		},
		{
			name: "validation detail is shown",
			op:   Operation{FailureMessage: "Error al crear servicio"},
			err:  &entity.ValidationError{Field: "title", Message: "cannot be blank"},
			want: "validation error on field 'title': cannot be blank",
		},
		{
			name: "unauthorized",
			op:   Operation{FailureMessage: "x"},
			err:  entity.ErrUnauthorized,
			want: "No autorizado",
		},
		{
			name: "internal error hidden behind fallback",
			op:   Operation{FailureMessage: "Error al obtener servicios"},
			err:  errors.New("pq: relation does not exist"),
			want: "Error al obtener servicios",
		},
		{
			name: "no fallback shows raw text",
			op:   Operation{},
			err:  errors.New("Invalid login credentials"),
			want: "Invalid login credentials",
		},
		{
			name: "override",
			op:   Operation{Message: func(error) string { return "Email o contraseña incorrectos." }},
			err:  errors.New("invalid_credentials"),
			want: "Email o contraseña incorrectos.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.op.Name = "op"
			_, err := Run(context.Background(), f.d, tt.op,
				func(context.Context) (int, error) { return 0, tt.err }, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestWrite_Serializes(t *testing.T) {
	f := newFixture()
	counter := 0
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			f.d.Write(func() { counter++ })
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	assert.Equal(t, 10, counter)
}
