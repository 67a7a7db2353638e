// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/zdrctl/zdrctl/internal/attrs"
	"github.com/zdrctl/zdrctl/internal/config"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// Ordinals and change counts are the only numbers we carry, so
		// integer formatting is always what the reader wants.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// sliceDataset projects each row of the marshaled JSON array down to the
// requested attributes, keyed by their output names.
func sliceDataset(raw string, al attrs.AttrList) []map[string]interface{} {
	parsed := gjson.Parse(raw)

	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var dataset []map[string]interface{}
	for _, candidate := range parsed.Array() {
		row := make(map[string]interface{}, len(al))
		for i := range al {
			row[al[i].OutputKey] = candidate.Get(al[i].Key).Value()
		}
		dataset = append(dataset, row)
	}
	return dataset
}

// applyTransforms runs each attribute's transform spec over every row.
func applyTransforms(dataset []map[string]interface{}, al attrs.AttrList) {
	for _, row := range dataset {
		for _, attr := range al {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}
}

// SliceDiceSpit orchestrates slicing, transforming, sorting and rendering of
// a dataset according to command flags and attribute specifications. The
// dataset is a marshaled JSON array of flat objects, typically diff records,
// snapshot rows or property rows. The optional postProcess callback allows
// commands to apply custom transformations to the sliced dataset before
// tabular rendering.
func SliceDiceSpit(raw bytes.Buffer,
	al attrs.AttrList,
	cmd *cli.Command,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) {

	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	output := cmd.String("output")
	if output == "raw" {
		_, _ = w.Write(raw.Bytes())
		return
	}

	dataset := sliceDataset(raw.String(), al)

	// Force a time transformation for all attributes when --local is set;
	// non-timestamp values pass through the transform unchanged.
	if cmd.Bool("local") {
		for a := range al {
			al[a].TransformSpec += "t"
		}
	}

	applyTransforms(dataset, al)
	SortDataset(dataset, cmd.String("sort"))

	switch output {
	case "json":
		doc, err := json.Marshal(dataset)
		if err != nil {
			log.Errorf("SliceDiceSpit json marshal: %v", err)
		}
		_, _ = w.Write(doc)
	case "yaml":
		doc, err := yaml.Marshal(dataset)
		if err != nil {
			log.Errorf("SliceDiceSpit yaml marshal: %v", err)
		}
		_, _ = w.Write(doc)
	default:
		if postProcess != nil {
			if err := postProcess(dataset); err != nil {
				log.Errorf("PostProcess: %v", err)
			}
		}
		TableWriter(dataset, al, cmd, w)
	}
}

// tableStyles returns the header and alternating row styles, colored only
// when --color is set and stdout really is a terminal. Color escapes inside
// a redirected report file would corrupt it.
func tableStyles(cmd *cli.Command) (header, even, odd lipgloss.Style) {
	header = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
	even, odd = cell, cell

	if cmd.Bool("color") && term.IsTerminal(int(os.Stdout.Fd())) {
		headerColor, evenColor, oddColor := getColors("colors")
		header = header.Foreground(headerColor)
		even = even.Foreground(evenColor)
		odd = odd.Foreground(oddColor)
	}
	return
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(
	resultSet []map[string]interface{},
	al attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	if len(resultSet) == 0 {
		return
	}

	headerStyle, evenRowStyle, oddRowStyle := tableStyles(cmd)

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range al {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	if cmd.Metadata["header"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["header"].(string)))
	}

	pad := cmd.Int("padding")
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if cmd.Bool("titles") {
		var headers []string
		for _, attr := range al {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if cmd.Metadata["footer"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["footer"].(string)))
	}
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that output
// stays readable across terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// An explicit color from the config wins; the user knows their theme.
	// Otherwise pick a reasonable default for the detected background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
