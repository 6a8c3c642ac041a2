// services/sequence_service_test.go
package services

import (
	"sync"
	"testing"

	"fieldpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequenceContiguous(t *testing.T) {
	db := newTestDB(t)

	for want := int64(1); want <= 5; want++ {
		got, err := NextSequence(db, SeqService)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Categories advance independently of each other.
	got, err := NextSequence(db, SeqRepair)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNextSequenceUnprovisionedCategory(t *testing.T) {
	db := newTestDB(t)

	_, err := NextSequence(db, "warranty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not provisioned")
}

func TestNextSequenceConcurrentCallersGetDistinctValues(t *testing.T) {
	db := newTestDB(t)

	const callers = 20
	values := make(chan int64, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := NextSequence(db, SeqInvoice)
			if err != nil {
				t.Error(err)
				return
			}
			values <- value
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool, callers)
	for v := range values {
		assert.False(t, seen[v], "value %d handed out twice", v)
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(callers))
		seen[v] = true
	}
	assert.Len(t, seen, callers)
}

func TestProvisionSequencesKeepsExistingValues(t *testing.T) {
	db := newTestDB(t)

	_, err := NextSequence(db, SeqService)
	require.NoError(t, err)

	// Re-running provisioning (e.g. on restart) must not reset counters.
	require.NoError(t, ProvisionSequences(db))

	got, err := NextSequence(db, SeqService)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestSequenceCategoryFor(t *testing.T) {
	tests := []struct {
		workOrderType models.WorkOrderType
		want          string
	}{
		{models.TypeInstallation, SeqInstallation},
		{models.TypeService, SeqService},
		{models.TypeRepair, SeqRepair},
	}
	for _, tt := range tests {
		got, err := SequenceCategoryFor(tt.workOrderType)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := SequenceCategoryFor("warranty")
	assert.ErrorIs(t, err, ErrValidation)
}
