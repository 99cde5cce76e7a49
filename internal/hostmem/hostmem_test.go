package hostmem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignedAlloc(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		alignment int
		wantErr   bool
	}{
		{"ok_page", 64 * 1024, 64 * 1024, false},
		{"ok_small_align", 4096, 16, false},
		{"zero_size", 0, 16, true},
		{"negative_size", -1, 16, true},
		{"align_not_pow2", 4096, 24, true},
		{"align_zero", 4096, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem, pad, err := AlignedAlloc(tt.size, tt.alignment)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(mem)-pad, tt.size)

			addr := uintptr(unsafe.Pointer(&mem[pad]))
			assert.Zero(t, addr%uintptr(tt.alignment), "address %#x not aligned to %d", addr, tt.alignment)
		})
	}
}
