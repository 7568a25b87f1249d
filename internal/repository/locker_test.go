package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLocker_SerializesSameKey(t *testing.T) {
	l := NewKeyedLocker()
	key := OrderKey(uuid.New())

	var inside int32
	var maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), key)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, l.locks)
}

func TestKeyedLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewKeyedLocker()
	release, err := l.Acquire(context.Background(), OrderKey(uuid.New()))
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	other, err := l.Acquire(ctx, OrderKey(uuid.New()), VendorKey(uuid.New()))
	require.NoError(t, err)
	other()
}

func TestKeyedLocker_TimeoutReleasesPartialKeys(t *testing.T) {
	l := NewKeyedLocker()
	orderKey := OrderKey(uuid.New())
	vendorKey := VendorKey(uuid.New())

	holdVendor, err := l.Acquire(context.Background(), vendorKey)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, vendorKey, orderKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// the order key taken before the timeout must be free again
	ctx2, cancel2 := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel2()
	release, err := l.Acquire(ctx2, orderKey)
	require.NoError(t, err)
	release()
	holdVendor()
}

func TestKeyedLocker_ReleaseIsIdempotent(t *testing.T) {
	l := NewKeyedLocker()
	key := VendorKey(uuid.New())
	release, err := l.Acquire(context.Background(), key, key)
	require.NoError(t, err)
	release()
	release()

	again, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)
	again()
}

func TestUniqueSorted_OrdersBeforeVendors(t *testing.T) {
	id := uuid.New()
	keys := uniqueSorted([]string{VendorKey(id), OrderKey(id), VendorKey(id)})
	assert.Equal(t, []string{OrderKey(id), VendorKey(id)}, keys)
}
