package utils_test

import (
	"testing"

	"github.com/jrsteele09/notoli/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	require.Equal(t, "", utils.Value[string](nil))
	require.Equal(t, "desk", utils.Value(utils.Ptr("desk")))
	require.Equal(t, int64(0), utils.Value[int64](nil))
}

func TestPtrIf(t *testing.T) {
	require.Nil(t, utils.PtrIf("ignored", false))

	p := utils.PtrIf("", true)
	require.NotNil(t, p)
	require.Equal(t, "", *p)
}
