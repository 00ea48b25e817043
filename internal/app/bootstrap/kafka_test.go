package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitKafka_Disabled(t *testing.T) {
	producer, err := InitKafka(nil)
	require.NoError(t, err)
	assert.Nil(t, producer)
}
