package detector

import (
	"reflect"
	"testing"
	"time"
)

func TestTrailingCounts(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(min, sec int) time.Time {
		return base.Add(time.Duration(min)*time.Minute + time.Duration(sec)*time.Second)
	}

	tests := []struct {
		name   string
		ts     []time.Time
		window time.Duration
		want   []int
	}{
		{
			name:   "empty",
			ts:     nil,
			window: 5 * time.Minute,
			want:   []int{},
		},
		{
			name:   "single entry counts itself",
			ts:     []time.Time{at(0, 0)},
			window: 5 * time.Minute,
			want:   []int{1},
		},
		{
			name:   "spread beyond window",
			ts:     []time.Time{at(0, 0), at(10, 0), at(20, 0)},
			window: 5 * time.Minute,
			want:   []int{1, 1, 1},
		},
		{
			name:   "burst accumulates",
			ts:     []time.Time{at(0, 0), at(1, 0), at(2, 0), at(3, 0)},
			window: 5 * time.Minute,
			want:   []int{1, 2, 3, 4},
		},
		{
			name: "left edge exclusive",
			// Exactly window minutes apart: the older entry sits on the
			// open left edge and is not counted.
			ts:     []time.Time{at(0, 0), at(5, 0)},
			window: 5 * time.Minute,
			want:   []int{1, 1},
		},
		{
			name:   "just inside window",
			ts:     []time.Time{at(0, 0), at(4, 59)},
			window: 5 * time.Minute,
			want:   []int{1, 2},
		},
		{
			name: "ties all counted at shared end",
			ts:   []time.Time{at(0, 0), at(0, 0), at(0, 0)},
			// Every window ending at the shared timestamp holds all three.
			window: 5 * time.Minute,
			want:   []int{3, 3, 3},
		},
		{
			name:   "sliding window drops old entries",
			ts:     []time.Time{at(0, 0), at(1, 0), at(6, 0)},
			window: 5 * time.Minute,
			want:   []int{1, 2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trailingCounts(tt.ts, tt.window)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("trailingCounts() = %v, want %v", got, tt.want)
			}
		})
	}
}
