package utils_test

import (
	"testing"

	"github.com/jrsteele09/podsave-web/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	var missing *int64
	require.Zero(t, utils.Value(missing))

	stage := "registered"
	require.Equal(t, "registered", utils.Value(&stage))
}

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "tok", utils.FirstNonEmpty("", "tok", "other"))
	require.Equal(t, "a", utils.FirstNonEmpty("a", "b"))
	require.Empty(t, utils.FirstNonEmpty("", ""))
	require.Empty(t, utils.FirstNonEmpty())
}
