// Package wire encodes the enabled alarm subset into the schedule payload
// the device consumes:
//
//	HH:MM|d1,d2,...;HH:MM|*;...
//
// Days are ascending weekday indices (0=Sunday); "*" stands for an empty
// day set. An empty enabled set encodes to "".
package wire

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
)

const (
	entrySep = ";"
	fieldSep = "|"
	daySep   = ","
	anyDay   = "*"
)

// Encode serializes the enabled alarms in collection order.
func Encode(alarms []models.Alarm) string {
	var b strings.Builder
	n := 0
	for _, a := range alarms {
		if !a.Enabled {
			continue
		}
		if n > 0 {
			b.WriteString(entrySep)
		}
		n++
		b.WriteString(models.FormatTime(a.Hour, a.Minute))
		b.WriteString(fieldSep)
		b.WriteString(encodeDays(a.Days))
	}
	return b.String()
}

func encodeDays(days []int) string {
	if len(days) == 0 {
		return anyDay
	}
	sorted := slices.Clone(days)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, d := range sorted {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, daySep)
}
