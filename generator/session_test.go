package generator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionRecent(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 12} {
		t.Run(fmt.Sprintf("%d generations", n), func(t *testing.T) {
			s := NewSession("sid")
			for i := 0; i < n; i++ {
				s.Append(Result{ID: fmt.Sprint(i)})
			}

			got := s.Recent(5)
			want := n
			if want > 5 {
				want = 5
			}
			assert.Len(t, got, want)
			for i, r := range got {
				assert.Equal(t, fmt.Sprint(n-1-i), r.ID, "newest first")
			}
			assert.Equal(t, n, s.Len())
		})
	}
}

func TestSessionRecentIsACopy(t *testing.T) {
	s := NewSession("sid")
	s.Append(Result{ID: "a"})
	got := s.Recent(5)
	got[0].ID = "mutated"

	r, ok := s.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "a", r.ID)

	_, ok = s.Find("missing")
	assert.False(t, ok)
	assert.Empty(t, s.Recent(-1))
}

func TestSessionIdleSince(t *testing.T) {
	s := NewSession("sid")
	assert.False(t, s.IdleSince(time.Now().Add(-time.Hour)))
	assert.True(t, s.IdleSince(time.Now().Add(time.Hour)))
}
