package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceSnapshotName(t *testing.T) {
	src := Source{Label: "prim1", Address: "quasar1kj8q8g2pmhnagmfepp9jh9g2mda7gzd0m5zdq0s08ulvac8ck4dq9ykfps"}
	require.Equal(t, "fps_trapped_errors.json", src.SnapshotName())
	require.Equal(t, "ab_trapped_errors.json", Source{Address: "ab"}.SnapshotName())
}
