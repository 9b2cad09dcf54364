package store

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipal-portal/internal/domain/entity"
)

var serviceCats = entity.Values(entity.ServiceCategories)

func newServiceStore() *Store[entity.Service] {
	parts := make([]Partition[entity.Service], 0, len(serviceCats))
	for _, c := range serviceCats {
		parts = append(parts, ByCategory[entity.Service](c))
	}
	return New(parts...)
}

func svc(id string, c entity.Category) entity.Service {
	return entity.Service{ID: id, Title: "Servicio " + id, Category: c}
}

func ids(items []entity.Service) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// assertPartitionsConsistent compares every partition with a filter of the collection.
func assertPartitionsConsistent(t *testing.T, s *Store[entity.Service]) {
	t.Helper()
	all := s.All()
	for _, c := range serviceCats {
		var want []string
		for _, it := range all {
			if it.Category == c {
				want = append(want, it.ID)
			}
		}
		got := ids(s.Partition(string(c)))
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("partition %s mismatch (-want +got):\n%s", c, diff)
		}
	}
}

func TestStore_SetAllPartitions(t *testing.T) {
	s := newServiceStore()
	s.SetAll([]entity.Service{
		svc("1", entity.ServiceSalud),
		svc("2", entity.ServiceCultura),
		svc("3", entity.ServiceSalud),
	})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"1", "3"}, ids(s.Partition("salud")))
	assert.Equal(t, []string{"2"}, ids(s.Partition("cultura")))
	assert.Empty(t, s.Partition("tramites"))
	assertPartitionsConsistent(t, s)
}

func TestStore_UpdateMovesPartition(t *testing.T) {
	s := newServiceStore()
	s.Insert(svc("e", entity.ServiceSalud))
	require.Equal(t, []string{"e"}, ids(s.Partition("salud")))

	moved := svc("e", entity.ServiceDeporte)
	require.True(t, s.Update(moved))

	assert.Empty(t, s.Partition("salud"))
	assert.Equal(t, []string{"e"}, ids(s.Partition("deporte")))
	got, _ := s.Get("e")
	assert.Equal(t, entity.ServiceDeporte, got.Category)
	assertPartitionsConsistent(t, s)
}

func TestStore_UpdateKeepsCollectionOrder(t *testing.T) {
	s := newServiceStore()
	s.SetAll([]entity.Service{
		svc("1", entity.ServiceSalud),
		svc("2", entity.ServiceCultura),
		svc("3", entity.ServiceSalud),
	})
	s.Update(svc("2", entity.ServiceSalud))
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Partition("salud")))
	assertPartitionsConsistent(t, s)
}

func TestStore_UpdateUnknown(t *testing.T) {
	s := newServiceStore()
	assert.False(t, s.Update(svc("nope", entity.ServiceSalud)))
	assert.Zero(t, s.Len())
}

func TestStore_RemoveClearsCurrent(t *testing.T) {
	s := newServiceStore()
	x := svc("x", entity.ServiceTramites)
	s.Insert(x)
	s.SetCurrent(&x)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "x", cur.ID)

	assert.True(t, s.Remove("x"))
	_, ok = s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Partition("tramites"))
	assert.False(t, s.Remove("x"))
}

func TestStore_RemoveOtherKeepsCurrent(t *testing.T) {
	s := newServiceStore()
	a, b := svc("a", entity.ServiceSalud), svc("b", entity.ServiceSalud)
	s.SetAll([]entity.Service{a, b})
	s.SetCurrent(&a)
	s.Remove("b")
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.ID)
}

func TestStore_UpdateReplacesCurrent(t *testing.T) {
	s := newServiceStore()
	a := svc("a", entity.ServiceSalud)
	s.Insert(a)
	s.SetCurrent(&a)

	a.Title = "Renombrado"
	s.Update(a)
	cur, _ := s.Current()
	assert.Equal(t, "Renombrado", cur.Title)

	s.ClearCurrent()
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestStore_SetPartitionLeavesCollection(t *testing.T) {
	s := newServiceStore()
	s.SetAll([]entity.Service{svc("1", entity.ServiceSalud)})
	s.SetPartition("cultura", []entity.Service{svc("9", entity.ServiceCultura)})

	assert.Equal(t, []string{"1"}, ids(s.All()))
	assert.Equal(t, []string{"9"}, ids(s.Partition("cultura")))
	got, ok := s.Get("9")
	require.True(t, ok)
	assert.Equal(t, "Servicio 9", got.Title)

	s.SetPartition("unknown", []entity.Service{svc("7", entity.ServiceSalud)})
	_, ok = s.Get("7")
	assert.False(t, ok)

	// replacing the partition drops rows nothing references anymore
	s.SetPartition("cultura", nil)
	_, ok = s.Get("9")
	assert.False(t, ok)
}

func TestStore_InsertAfterPartialFetchDoesNotDuplicate(t *testing.T) {
	s := newServiceStore()
	s.SetPartition("salud", []entity.Service{svc("1", entity.ServiceSalud)})
	s.Insert(svc("1", entity.ServiceSalud))
	assert.Equal(t, []string{"1"}, ids(s.Partition("salud")))
	assert.Equal(t, []string{"1"}, ids(s.All()))
}

func TestStore_Singleton(t *testing.T) {
	parts := []Partition[entity.Authority]{
		SingletonByCategory[entity.Authority](entity.AuthorityIntendente),
		ByCategory[entity.Authority](entity.AuthorityGabinete),
	}
	s := New(parts...)

	mayor := entity.Authority{ID: "m1", FullName: "Ana", Category: entity.AuthorityIntendente}
	s.SetAll([]entity.Authority{
		mayor,
		{ID: "g1", Category: entity.AuthorityGabinete},
		{ID: "m2", FullName: "Duplicado", Category: entity.AuthorityIntendente},
	})
	got, ok := s.Singleton("intendente")
	require.True(t, ok)
	assert.Equal(t, "m1", got.ID, "first match wins on SetAll")

	next := entity.Authority{ID: "m3", FullName: "Beto", Category: entity.AuthorityIntendente}
	s.Insert(next)
	got, _ = s.Singleton("intendente")
	assert.Equal(t, "m3", got.ID, "insert replaces the slot")

	s.Remove("m3")
	_, ok = s.Singleton("intendente")
	assert.False(t, ok)

	s.SetPartition("intendente", []entity.Authority{mayor, next})
	got, _ = s.Singleton("intendente")
	assert.Equal(t, "m1", got.ID)

	s.SetPartition("intendente", nil)
	_, ok = s.Singleton("intendente")
	assert.False(t, ok)

	_, listed := s.Partitions()["intendente"]
	assert.False(t, listed, "singletons are not listed with regular partitions")
}

func TestStore_Reset(t *testing.T) {
	s := newServiceStore()
	x := svc("x", entity.ServiceSalud)
	s.Insert(x)
	s.SetCurrent(&x)
	s.Reset()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Partition("salud"))
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, []string{"salud", "cultura", "deporte", "tramites", "educacion"}, s.Keys())
}

func TestStore_RandomMutationsKeepPartitionsConsistent(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			s := newServiceStore()
			randomCat := func() entity.Category { return serviceCats[rng.Intn(len(serviceCats))] }

			initial := make([]entity.Service, 0, 10)
			for i := 0; i < 10; i++ {
				initial = append(initial, svc(fmt.Sprintf("s%d", i), randomCat()))
			}
			s.SetAll(initial)

			next := 10
			for step := 0; step < 200; step++ {
				switch rng.Intn(3) {
				case 0:
					s.Insert(svc(fmt.Sprintf("s%d", next), randomCat()))
					next++
				case 1:
					s.Update(svc(fmt.Sprintf("s%d", rng.Intn(next)), randomCat()))
				case 2:
					s.Remove(fmt.Sprintf("s%d", rng.Intn(next)))
				}
				assertPartitionsConsistent(t, s)
			}
		})
	}
}
