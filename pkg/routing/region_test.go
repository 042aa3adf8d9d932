package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ResistanceIsUseless/reflow/pkg/ids"
)

func TestBuildPath_RootFirst(t *testing.T) {
	root := &Region{}
	mid := &Region{}
	mid.SetParent(root)
	leaf := &Region{}
	leaf.SetParent(mid)

	path := BuildPath(leaf)
	require.NotNil(t, path)
	assert.Same(t, root, path.Region)
	assert.Same(t, mid, path.Rest.Region)
	assert.Same(t, leaf, path.Rest.Rest.Region)
	assert.Nil(t, path.Rest.Rest.Rest)
}

func TestBuildPath_Nil(t *testing.T) {
	assert.Nil(t, BuildPath(nil))
}

func TestNodeID_Matches(t *testing.T) {
	r := &Region{}
	n := MakeNodeID(ids.Make("button"), r)

	assert.True(t, n.Matches(ids.Make("button")))
	assert.False(t, n.Matches(ids.Make("other")))
	assert.Same(t, r, n.Region)
}
