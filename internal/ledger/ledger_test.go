package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   int
		amount  int
		wantErr error
		want    int
	}{
		{name: "normal", start: 1000, amount: 10, want: 990},
		{name: "exact balance", start: 100, amount: 100, want: 0},
		{name: "over balance", start: 100, amount: 101, wantErr: ErrInsufficientFunds, want: 100},
		{name: "empty", start: 0, amount: 1, wantErr: ErrInsufficientFunds, want: 0},
		{name: "zero", start: 100, amount: 0, wantErr: ErrInvalidAmount, want: 100},
		{name: "negative", start: 100, amount: -5, wantErr: ErrInvalidAmount, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.start)
			err := l.Deduct(tt.amount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, l.Balance())
		})
	}
}

func TestAdd(t *testing.T) {
	t.Parallel()

	l := New(0)
	assert.Equal(t, 50, l.Add(50))
	assert.Equal(t, 50, l.Add(0))
	assert.Equal(t, 50, l.Add(-10))
	assert.Equal(t, 70, l.Add(20))
}

func TestNewClampsNegative(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, New(-5).Balance())
}

func TestConcurrentDeductNeverGoesNegative(t *testing.T) {
	t.Parallel()

	l := New(100)
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Deduct(7) == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 14, ok)
	assert.Equal(t, 2, l.Balance())
}
