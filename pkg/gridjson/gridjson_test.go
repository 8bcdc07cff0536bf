package gridjson_test

import (
	"strings"
	"testing"

	"percolation_tool/internal/testutils"
	"percolation_tool/pkg/gridjson"
	"percolation_tool/pkg/percolation"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const art = `
	.#.
	..#
	#.#
`

func TestSnapshot(t *testing.T) {
	rows, cols, sites := testutils.ParseGrid(t, art)
	p := testutils.NewFromArt(t, art)
	require.Equal(t, 3, rows)
	require.Equal(t, 3, cols)

	raw, err := gridjson.Snapshot(p, sites)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(raw))

	assert.Equal(t, int64(3), gjson.GetBytes(raw, "rows").Int())
	assert.Equal(t, int64(3), gjson.GetBytes(raw, "cols").Int())
	assert.Equal(t, int64(5), gjson.GetBytes(raw, "open_sites").Int())
	assert.True(t, gjson.GetBytes(raw, "percolates").Bool())
	assert.Equal(t, "~~#", gjson.GetBytes(raw, "cells.1").String())
	assert.Equal(t, int64(5), gjson.GetBytes(raw, "trace.#").Int())
	assert.Equal(t, "[3,2]", gjson.GetBytes(raw, "trace.4").Raw)

	one, err := gridjson.Format(raw, gridjson.JSONFormatOne)
	require.NoError(t, err)
	assert.Equal(t,
		`{"rows":3,"cols":3,"open_sites":5,"percolates":true,"cells":["~#~","~~#","#~#"],"trace":[[1,1],[1,3],[2,1],[2,2],[3,2]]}`,
		string(one))
}

func TestSnapshotEmptyTrace(t *testing.T) {
	p, err := percolation.New(2, 2)
	require.NoError(t, err)

	raw, err := gridjson.Snapshot(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", gjson.GetBytes(raw, "trace").Raw)
	assert.False(t, gjson.GetBytes(raw, "percolates").Bool())
	assert.Equal(t, `["##","##"]`, gjson.GetBytes(raw, "cells").Raw)
}

func TestSnapshotRoundTrip(t *testing.T) {
	_, _, sites := testutils.ParseGrid(t, art)
	p := testutils.NewFromArt(t, art)

	raw, err := gridjson.Snapshot(p, sites)
	require.NoError(t, err)
	tr, err := gridjson.LoadTrace(raw)
	require.NoError(t, err)

	want := gridjson.Trace{Rows: 3, Cols: 3, Sites: sites}
	if diff := cmp.Diff(want, tr); diff != "" {
		t.Errorf("Mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTraceObjects(t *testing.T) {
	raw := []byte(`{
		"rows": 4, "cols": 2,
		"trace": [{"row": 1, "col": 2}, [4, 1], {"col": 1, "row": 3}]
	}`)
	tr, err := gridjson.LoadTrace(raw)
	require.NoError(t, err)
	assert.Equal(t, 4, tr.Rows)
	assert.Equal(t, 2, tr.Cols)
	assert.Equal(t, []percolation.Site{{Row: 1, Col: 2}, {Row: 4, Col: 1}, {Row: 3, Col: 1}}, tr.Sites)
}

func TestLoadTraceWithoutTrace(t *testing.T) {
	tr, err := gridjson.LoadTrace([]byte(`{"rows":2,"cols":5}`))
	require.NoError(t, err)
	assert.Empty(t, tr.Sites)

	tr, err = gridjson.LoadTrace([]byte(`{"rows":2,"cols":5,"trace":null}`))
	require.NoError(t, err)
	assert.Empty(t, tr.Sites)
}

func TestLoadTraceErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		msg     string
	}{
		{"not json", `{"rows":`, gridjson.ErrInvalidJSON, ""},
		{"missing rows", `{"cols":2}`, gridjson.ErrBadField, `"rows"`},
		{"string cols", `{"rows":2,"cols":"2"}`, gridjson.ErrBadField, `"cols"`},
		{"float rows", `{"rows":2.5,"cols":2}`, gridjson.ErrBadField, `"rows"`},
		{"trace object", `{"rows":2,"cols":2,"trace":{}}`, gridjson.ErrBadField, "trace"},
		{"short pair", `{"rows":2,"cols":2,"trace":[[1]]}`, gridjson.ErrBadField, "trace[0]"},
		{"missing col", `{"rows":2,"cols":2,"trace":[[1,1],{"row":1}]}`, gridjson.ErrBadField, "trace[1].col"},
		{"scalar item", `{"rows":2,"cols":2,"trace":[7]}`, gridjson.ErrBadField, "trace[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gridjson.LoadTrace([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestFormat(t *testing.T) {
	raw := []byte(`{"a":1,"b":[1,2]}`)

	mul, err := gridjson.Format(raw, gridjson.JSONFormatMul)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(mul), "{\n    \"a\": 1"), string(mul))

	one, err := gridjson.Format(mul, gridjson.JSONFormatOne)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(one))

	_, err = gridjson.Format([]byte(`{`), gridjson.JSONFormatOne)
	assert.ErrorIs(t, err, gridjson.ErrInvalidJSON)

	_, err = gridjson.Format(raw, gridjson.JSONFormat("tabs"))
	assert.Error(t, err)
}

func TestJSONFormatFlag(t *testing.T) {
	f := gridjson.JSONFormatMul
	require.NoError(t, f.Set("one"))
	assert.Equal(t, "one", f.String())
	assert.Equal(t, "jsonformat", f.Type())
	assert.Error(t, f.Set("two"))
	assert.Equal(t, gridjson.JSONFormatOne, f)
	assert.Equal(t, []string{"mul", "one"}, f.Values())
}
