package oauth2

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	for _, length := range []int{16, 32, 64} {
		t.Run(fmt.Sprintf("length_%d", length), func(t *testing.T) {
			str, err := GenerateRandomString(length)
			require.NoError(t, err)
			assert.Len(t, str, length*2)

			raw, err := hex.DecodeString(str)
			require.NoError(t, err)
			assert.Len(t, raw, length)
		})
	}
}

func TestGenerateRandomString_Unique(t *testing.T) {
	generated := make(map[string]bool)
	for i := 0; i < 100; i++ {
		str, err := GenerateRandomString(stateBytes)
		require.NoError(t, err)
		assert.False(t, generated[str], "Generated strings should be unique")
		generated[str] = true
	}
}
