package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorPassword(t *testing.T) {
	var o Operator
	require.NoError(t, o.SetPassword("s3cret-pass"))
	assert.NotEqual(t, "s3cret-pass", o.PasswordHash)
	assert.True(t, o.CheckPassword("s3cret-pass"))
	assert.False(t, o.CheckPassword("s3cret-pasS"))
	assert.False(t, (&Operator{}).CheckPassword(""))
}
