/*
 * Copyright © 2019 One Concern
 *
 */

package units

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{in: 0, want: "0B"},
		{in: 1, want: "1B"},
		{in: 1023, want: "1023B"},
		{in: 1024, want: "1.00KiB"},
		{in: 1536, want: "1.50KiB"},
		{in: 1024*1024 - 1, want: "1024.00KiB"},
		{in: 1024 * 1024, want: "1.00MiB"},
		{in: 3 * 1024 * 1024 * 1024 / 2, want: "1.50GiB"},
		{in: 1024 * 1024 * 1024 * 1024, want: "1.00TiB"},
		{in: 1024 * 1024 * 1024 * 1024 * 1024, want: "1.00PiB"},
		// beyond PiB the unit saturates
		{in: 2048 * 1024 * 1024 * 1024 * 1024 * 1024, want: "2048.00PiB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatBytes(tt.in)
			assert.Len(t, got, FieldWidth)
			assert.Equal(t, tt.want, strings.TrimRight(got, " "))
			assert.False(t, strings.HasPrefix(got, " "))
		})
	}
}
