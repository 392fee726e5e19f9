package wire

import (
	"testing"

	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		alarms []models.Alarm
		want   string
	}{
		{
			name: "one-shot and weekdays",
			alarms: []models.Alarm{
				{Enabled: true, Hour: 8, Minute: 0, Days: []int{}},
				{Enabled: true, Hour: 20, Minute: 30, Days: []int{1, 2, 3, 4, 5}},
			},
			want: "08:00|*;20:30|1,2,3,4,5",
		},
		{
			name:   "nil collection",
			alarms: nil,
			want:   "",
		},
		{
			name:   "empty collection",
			alarms: []models.Alarm{},
			want:   "",
		},
		{
			name: "all disabled",
			alarms: []models.Alarm{
				{Enabled: false, Hour: 6, Minute: 0},
				{Enabled: false, Hour: 7, Minute: 15, Days: []int{0}},
			},
			want: "",
		},
		{
			name: "disabled entries skipped without stray separators",
			alarms: []models.Alarm{
				{Enabled: false, Hour: 1, Minute: 0},
				{Enabled: true, Hour: 9, Minute: 5, Days: []int{6, 0}},
				{Enabled: false, Hour: 2, Minute: 0},
				{Enabled: true, Hour: 23, Minute: 59},
			},
			want: "09:05|0,6;23:59|*",
		},
		{
			name: "collection order kept, not display order",
			alarms: []models.Alarm{
				{Enabled: true, Hour: 22, Minute: 0, Days: []int{3}},
				{Enabled: true, Hour: 6, Minute: 0, Days: []int{3}},
			},
			want: "22:00|3;06:00|3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.alarms))
		})
	}
}

func TestEncode_DoesNotReorderInput(t *testing.T) {
	a := []models.Alarm{{Enabled: true, Hour: 1, Days: []int{5, 1}}}
	_ = Encode(a)
	assert.Equal(t, []int{5, 1}, a[0].Days)
}
