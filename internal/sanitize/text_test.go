package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextStripsTags(t *testing.T) {
	require.Equal(t, "Alice", Text("<b>Alice</b>"))
	require.Equal(t, "", Text("<script>alert(1)</script>"))
	require.Equal(t, "door-1", Text("door-1"))
}
