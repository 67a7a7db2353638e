// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/zdrctl/zdrctl/internal/meta"
	"github.com/zdrctl/zdrctl/internal/snaputil"
	"github.com/zdrctl/zdrctl/internal/zfs"
)

// fakeRunner serves a canned snapshot listing.
type fakeRunner struct {
	lines []string
}

func (f fakeRunner) ListSnapshots(context.Context, string) ([]string, error) {
	return f.lines, nil
}

func (f fakeRunner) Diff(context.Context, string, string, func(string) error) error {
	return nil
}

func (f fakeRunner) Mountpoint(context.Context, string) (string, error) {
	return "/tank/home", nil
}

func (f fakeRunner) Properties(context.Context, string) (map[string]string, error) {
	return map[string]string{"mountpoint": "/tank/home"}, nil
}

func TestOutputValidator(t *testing.T) {
	for _, valid := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(valid), valid)
	}

	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestKeywordsValidator(t *testing.T) {
	assert.NoError(t, KeywordsValidator([]string{}))
	assert.NoError(t, KeywordsValidator([]string{"zas_w"}))
	assert.NoError(t, KeywordsValidator([]string{"zas_w", "zas_m"}))
	assert.Error(t, KeywordsValidator([]string{"a", "b", "c"}))
}

func TestGetMeta(t *testing.T) {
	m := meta.Meta{Args: []string{"zdrctl", "dq"}}
	cmd := &cli.Command{Metadata: map[string]any{"meta": m}}

	assert.Equal(t, m, GetMeta(cmd))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(nil))
}

func TestLabelMatches(t *testing.T) {
	assert.True(t, labelMatches("zas_w-1", nil))
	assert.True(t, labelMatches("zas_w-1", []string{"zas_w"}))
	assert.True(t, labelMatches("zas_w-1", []string{"zas_m", "zas_w"}))
	assert.False(t, labelMatches("zas_w-1", []string{"zas_m"}))
	assert.False(t, labelMatches("zas_w-1", []string{"ZAS_W"}))
}

// runSelectPair drives SelectPair through a real command so flag values
// resolve the normal way.
func runSelectPair(t *testing.T, runner zfs.Runner, args ...string) (snaputil.Pair, error) {
	t.Helper()

	var pair snaputil.Pair
	var selectErr error
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			snapkeyFlag,
			&cli.BoolFlag{Name: "pick"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pair, selectErr = SelectPair(ctx, cmd, runner, "tank/home")
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return pair, selectErr
}

func TestSelectPair_MostRecent(t *testing.T) {
	runner := fakeRunner{lines: []string{
		"tank/home@zas_w-1\t1756400000",
		"tank/home@zas_w-2\t1756450000",
		"tank/home@zas_w-3\t1756500000",
	}}

	pair, err := runSelectPair(t, runner)

	require.NoError(t, err)
	assert.Equal(t, "zas_w-2", pair.Older.Label)
	assert.Equal(t, "zas_w-3", pair.Newer.Label)
}

func TestSelectPair_Keywords(t *testing.T) {
	runner := fakeRunner{lines: []string{
		"tank/home@zas_m-1\t1756400000",
		"tank/home@zas_w-1\t1756450000",
		"tank/home@zas_m-2\t1756500000",
		"tank/home@zas_w-2\t1756550000",
	}}

	pair, err := runSelectPair(t, runner, "-s", "zas_w", "-s", "zas_m")

	require.NoError(t, err)
	assert.Equal(t, "zas_m-2", pair.Older.Label)
	assert.Equal(t, "zas_w-2", pair.Newer.Label)
}

func TestSelectPair_InsufficientSnapshots(t *testing.T) {
	runner := fakeRunner{lines: []string{"tank/home@zas_w-1\t1756400000"}}

	_, err := runSelectPair(t, runner)

	var insufficient *snaputil.InsufficientSnapshotsError
	require.ErrorAs(t, err, &insufficient)
}

func TestBuildAttrs(t *testing.T) {
	var got string
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "attrs"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			al := BuildAttrs(cmd, "kind", "path")
			got = al.String()
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--attrs", "raw"}))
	assert.Contains(t, got, "kind")
	assert.Contains(t, got, "path")
	assert.Contains(t, got, "raw")
}
