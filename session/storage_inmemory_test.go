package session_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/podsave-web/session"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := session.NewInMemoryStorage()

	t.Run("namespace is required", func(t *testing.T) {
		_, err := s.Read(ctx, "")
		require.Error(t, err)
		require.Error(t, s.Write(ctx, "", map[string]string{"a": "b"}))
		require.Error(t, s.Delete(ctx, ""))
	})

	t.Run("set and unset in one write", func(t *testing.T) {
		require.NoError(t, s.Write(ctx, "ns", map[string]string{"a": "1", "b": "2"}))
		require.NoError(t, s.Write(ctx, "ns", map[string]string{"c": "3"}, "a"))

		fields, err := s.Read(ctx, "ns")
		require.NoError(t, err)
		require.Equal(t, map[string]string{"b": "2", "c": "3"}, fields)
	})

	t.Run("read returns a copy", func(t *testing.T) {
		fields, err := s.Read(ctx, "ns")
		require.NoError(t, err)
		fields["b"] = "changed"

		again, err := s.Read(ctx, "ns")
		require.NoError(t, err)
		require.Equal(t, "2", again["b"])
	})

	t.Run("removing every field drops the record", func(t *testing.T) {
		require.NoError(t, s.Write(ctx, "ns", nil, "b", "c"))
		require.Equal(t, 0, s.Len())
	})

	t.Run("delete of missing record is not an error", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "missing"))
	})
}
