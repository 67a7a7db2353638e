// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/zdrctl/zdrctl/internal/attrs"
)

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"path": "/tank/home/zebra.txt", "ordinal": 3.0, "kind": "added"},
		{"path": "/tank/home/alpha.txt", "ordinal": 1.0, "kind": "removed"},
		{"path": "/tank/home/beta.txt", "ordinal": 2.0, "kind": "modified"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by path",
			spec:      "path",
			wantOrder: []string{"/tank/home/alpha.txt", "/tank/home/beta.txt", "/tank/home/zebra.txt"},
		},
		{
			name:      "descending by path",
			spec:      "-path",
			wantOrder: []string{"/tank/home/zebra.txt", "/tank/home/beta.txt", "/tank/home/alpha.txt"},
		},
		{
			name:      "ascending by ordinal",
			spec:      "ordinal",
			wantOrder: []string{"/tank/home/alpha.txt", "/tank/home/beta.txt", "/tank/home/zebra.txt"},
		},
		{
			name:      "descending by ordinal",
			spec:      "-ordinal",
			wantOrder: []string{"/tank/home/zebra.txt", "/tank/home/beta.txt", "/tank/home/alpha.txt"},
		},
		{
			name:      "case sensitive",
			spec:      "!path",
			wantOrder: []string{"/tank/home/alpha.txt", "/tank/home/beta.txt", "/tank/home/zebra.txt"},
		},
		{
			name:      "multiple fields",
			spec:      "kind,path",
			wantOrder: []string{"/tank/home/zebra.txt", "/tank/home/beta.txt", "/tank/home/alpha.txt"},
		},
		{
			name:      "empty spec",
			spec:      "",
			wantOrder: []string{"/tank/home/zebra.txt", "/tank/home/alpha.txt", "/tank/home/beta.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedPath := range tt.wantOrder {
				assert.Equal(t, expectedPath, data[i]["path"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{
			name:  "string",
			value: "hello",
			want:  "hello",
		},
		{
			name:  "int",
			value: 42,
			want:  "42",
		},
		{
			name:  "float64",
			value: 42.5,
			want:  "42",
		},
		{
			name:  "float64 with decimal",
			value: 42.7,
			want:  "43",
		},
		{
			name:  "bool true",
			value: true,
			want:  "true",
		},
		{
			name:  "bool false is zero value",
			value: false,
			want:  "",
		},
		{
			name:  "nil default",
			value: nil,
			want:  "",
		},
		{
			name:     "nil custom",
			value:    nil,
			emptyVal: "-",
			want:     "-",
		},
		{
			name:  "slice",
			value: []string{"a", "b"},
			want:  `["a","b"]`,
		},
		{
			name:  "zero value int",
			value: 0,
			want:  "",
		},
		{
			name:     "zero value with custom empty",
			value:    0,
			emptyVal: "N/A",
			want:     "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetColors(t *testing.T) {
	// This test verifies that getColors returns color.Color values.
	header, even, odd := getColors("colors")

	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

// runSpit renders raw through SliceDiceSpit under a minimal command carrying
// the common output flags.
func runSpit(t *testing.T, args []string, raw string, al attrs.AttrList) string {
	t.Helper()

	var buf bytes.Buffer
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "local"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
			&cli.IntFlag{Name: "padding", Value: 2},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			SliceDiceSpit(*bytes.NewBufferString(raw), al, cmd, &buf, nil)
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return buf.String()
}

const spitRaw = `[
	{"kind":"added","path":"/tank/home/new.txt","dir":false},
	{"kind":"removed","path":"/tank/home/old.txt","dir":false}
]`

func spitAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set("kind"))
	require.NoError(t, al.Set("path"))
	return al
}

func TestSliceDiceSpit_Raw(t *testing.T) {
	got := runSpit(t, []string{"--output", "raw"}, spitRaw, spitAttrs(t))

	assert.Equal(t, spitRaw, got)
}

func TestSliceDiceSpit_JSON(t *testing.T) {
	got := runSpit(t, []string{"--output", "json", "--sort", "path"}, spitRaw, spitAttrs(t))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got), &rows))
	require.Len(t, rows, 2)

	// Sliced down to the requested attributes, sorted by path.
	assert.Equal(t, "/tank/home/new.txt", rows[0]["path"])
	assert.Equal(t, "added", rows[0]["kind"])
	assert.NotContains(t, rows[0], "dir")
}

func TestSliceDiceSpit_TableWithTitles(t *testing.T) {
	got := runSpit(t, []string{"--titles"}, spitRaw, spitAttrs(t))

	assert.Contains(t, got, "kind")
	assert.Contains(t, got, "path")
	assert.Contains(t, got, "/tank/home/new.txt")
}

func TestSliceDiceSpit_PostProcess(t *testing.T) {
	var buf bytes.Buffer
	called := false
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "local"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
			&cli.IntFlag{Name: "padding", Value: 2},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			al := spitAttrs(t)
			SliceDiceSpit(*bytes.NewBufferString(spitRaw), al, cmd, &buf,
				func(dataset []map[string]interface{}) error {
					called = true
					assert.Len(t, dataset, 2)
					return nil
				})
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
	assert.True(t, called)
}
