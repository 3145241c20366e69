package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
)

func newTestService() *Service {
	items := catalog.Seed()
	items[2].Available = false // nissan-leaf
	return NewService(catalog.NewMemoryStore(items))
}

func TestAddMergesExistingLine(t *testing.T) {
	svc := newTestService()

	first, err := svc.Add("u1", "tesla-model-3", 1)
	require.NoError(t, err)
	second, err := svc.Add("u1", "tesla-model-3", 2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.Equal(t, 1, svc.Count("u1"))
	assert.Equal(t, "135000", svc.Total("u1").String())
}

func TestAddRejectsInvalidInput(t *testing.T) {
	svc := newTestService()

	_, err := svc.Add("u1", "missing", 1)
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = svc.Add("u1", "nissan-leaf", 1)
	assert.ErrorIs(t, err, ErrVehicleUnavailable)

	_, err = svc.Add("u1", "tesla-model-3", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Add("", "tesla-model-3", 1)
	assert.ErrorIs(t, err, ErrUserRequired)

	assert.Empty(t, svc.Items("u1"))
}

func TestUpdateAndRemove(t *testing.T) {
	svc := newTestService()
	model3, _ := svc.Add("u1", "tesla-model-3", 1)
	modelY, _ := svc.Add("u1", "tesla-model-y", 1)

	updated, removed, err := svc.Update("u1", model3.ID, 4)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, "235000", svc.Total("u1").String())

	_, removed, err = svc.Update("u1", modelY.ID, 0)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, svc.Count("u1"))

	_, _, err = svc.Update("u1", modelY.ID, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, svc.Remove("u1", model3.ID))
	assert.ErrorIs(t, svc.Remove("u1", model3.ID), ErrItemNotFound)
	assert.True(t, svc.Total("u1").IsZero())
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	svc := newTestService()
	item, _ := svc.Add("u1", "tesla-model-3", 1)

	assert.ErrorIs(t, svc.Remove("u2", item.ID), ErrItemNotFound)
	svc.Clear("u2")
	assert.Equal(t, 1, svc.Count("u1"))

	svc.Clear("u1")
	assert.Zero(t, svc.Count("u1"))
}

func TestDrainEmptiesCart(t *testing.T) {
	svc := newTestService()
	_, _ = svc.Add("u1", "nissan-leaf", 1)
	_, _ = svc.Add("u1", "chevrolet-bolt-ev", 2)

	items, sum := svc.Drain("u1")
	require.Len(t, items, 1)
	assert.Equal(t, "70000", sum.String())
	assert.Zero(t, svc.Count("u1"))
}

func TestConcurrentAdds(t *testing.T) {
	svc := newTestService()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Add("u1", "ford-mustang-mach-e", 1)
		}()
	}
	wg.Wait()

	items := svc.Items("u1")
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
}
