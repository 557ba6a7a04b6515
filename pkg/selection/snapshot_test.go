package selection_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goeditable/pkg/dom"
	"github.com/yaklabco/goeditable/pkg/selection"
)

func TestSnapshotValid(t *testing.T) {
	tests := []struct {
		name string
		snap *selection.Snapshot
		want bool
	}{
		{"nil", nil, false},
		{"zero value", &selection.Snapshot{}, true},
		{"caret", &selection.Snapshot{Start: 4, End: 4, Collapsed: true}, true},
		{"span", &selection.Snapshot{Start: 3, End: 9}, true},
		{"negative start", &selection.Snapshot{Start: -1, End: 0}, false},
		{"end before start", &selection.Snapshot{Start: 5, End: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Valid())
		})
	}
}

func TestSnapshotLen(t *testing.T) {
	assert.Zero(t, (*selection.Snapshot)(nil).Len())
	assert.Zero(t, (&selection.Snapshot{Start: 7, End: 7}).Len())
	assert.Equal(t, 6, (&selection.Snapshot{Start: 3, End: 9}).Len())
}

func TestSnapshotJSON_HintsNeverSerialize(t *testing.T) {
	root := parseRoot(t, `Hello World`)
	text := textNodes(root)[0]

	snap := &selection.Snapshot{
		Start: 3, End: 9,
		StartContainer: text,
		EndContainer:   text,
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":3,"end":9,"collapsed":false}`, string(data))

	var back selection.Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 3, back.Start)
	assert.Equal(t, 9, back.End)
	assert.False(t, back.Collapsed)
	assert.Nil(t, back.StartContainer)
	assert.Nil(t, back.EndContainer)
}

func TestSnapshotJSON_RoundTripRestores(t *testing.T) {
	// The wire form alone must carry enough to restore: serialize on one
	// side, deserialize on the other, import into a rebuilt tree.
	codec := selection.NewCodec()
	root := parseRoot(t, `<p>Hello </p><b>World</b>`)
	st := dom.NewSelectionState()
	selectSpan(t, root, st, 3, 9)

	data, err := json.Marshal(codec.Export(root, st))
	require.NoError(t, err)

	rebuilt := parseRoot(t, `<p>Hello </p><b>World</b>`)
	var wire selection.Snapshot
	require.NoError(t, json.Unmarshal(data, &wire))

	fresh := dom.NewSelectionState()
	require.True(t, codec.Import(rebuilt, fresh, &wire))
	assert.Equal(t, "lo Wor", fresh.String())
}
