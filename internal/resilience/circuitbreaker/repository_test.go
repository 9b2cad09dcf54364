package circuitbreaker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
	"municipal-portal/internal/resilience/circuitbreaker"
)

type stubContacts struct {
	calls int
	err   error
}

func (s *stubContacts) List(context.Context, repository.ListQuery) (repository.ListResult[entity.Contact], error) {
	s.calls++
	if s.err != nil {
		return repository.ListResult[entity.Contact]{}, s.err
	}
	return repository.ListResult[entity.Contact]{Items: []entity.Contact{{ID: "c1"}}, Total: 1, TotalPages: 1}, nil
}

func (s *stubContacts) Get(_ context.Context, id string) (*entity.Contact, error) {
	s.calls++
	return &entity.Contact{ID: id}, s.err
}

func (s *stubContacts) GetBySlug(context.Context, string) (*entity.Contact, error) {
	s.calls++
	return nil, entity.ErrInvalidInput
}

func (s *stubContacts) ListByCategory(context.Context, entity.Category) ([]entity.Contact, error) {
	s.calls++
	return nil, s.err
}

func (s *stubContacts) Create(_ context.Context, c entity.Contact) (entity.Contact, error) {
	s.calls++
	c.ID = "new"
	return c, s.err
}

func (s *stubContacts) Update(_ context.Context, id string, c entity.Contact) (entity.Contact, error) {
	s.calls++
	c.ID = id
	return c, s.err
}

func (s *stubContacts) Delete(_ context.Context, id string) (string, error) {
	s.calls++
	return id, s.err
}

func TestWrapContent_PassesThrough(t *testing.T) {
	stub := &stubContacts{}
	repo := circuitbreaker.WrapContent[entity.Contact](circuitbreaker.New(circuitbreaker.DefaultConfig("contacts-pass")), stub)
	ctx := context.Background()

	res, err := repo.List(ctx, repository.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	created, err := repo.Create(ctx, entity.Contact{Department: "Defensa Civil"})
	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)

	id, err := repo.Delete(ctx, "c9")
	require.NoError(t, err)
	assert.Equal(t, "c9", id)

	_, err = repo.GetBySlug(ctx, "x")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Equal(t, 4, stub.calls)
}

func TestWrapContent_OpenCircuitShortCircuits(t *testing.T) {
	stub := &stubContacts{err: errors.New("dial tcp: connection refused")}
	cfg := circuitbreaker.BackendConfig("contacts-open")
	repo := circuitbreaker.WrapContent[entity.Contact](circuitbreaker.New(cfg), stub)

	for i := 0; i < int(cfg.MinRequests); i++ {
		_, err := repo.List(context.Background(), repository.ListQuery{})
		require.Error(t, err)
	}

	_, err := repo.Get(context.Background(), "c1")
	assert.ErrorIs(t, err, circuitbreaker.ErrUnavailable)
	assert.Equal(t, int(cfg.MinRequests), stub.calls)
}

type stubSettings struct{ info entity.MunicipalityInfo }

func (s *stubSettings) Get(context.Context) (*entity.MunicipalityInfo, error) {
	return &s.info, nil
}

func (s *stubSettings) Update(_ context.Context, info entity.MunicipalityInfo) (entity.MunicipalityInfo, error) {
	s.info = info
	return info, nil
}

func TestWrapSettings(t *testing.T) {
	repo := circuitbreaker.WrapSettings(circuitbreaker.New(circuitbreaker.DefaultConfig("settings")), &stubSettings{})

	_, err := repo.Update(context.Background(), entity.MunicipalityInfo{Mision: "Servir"})
	require.NoError(t, err)

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Servir", got.Mision)
}
