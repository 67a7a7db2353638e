// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zdrctl/zdrctl/internal/log"
)

// Attr represents each of the keys to be included in the output. These are
// identified by the JSON attribute key of the marshaled dataset rows.
type Attr struct {
	// The JSON key to extract from the result JSON object.
	Key string `yaml:"key" json:"Key"`
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool `yaml:"include" json:"Include"`
	// The key to use in the output. This is also used as the column title when
	// output=text.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attribute's transform spec to a value and returns the
// transformed result. Only string values are transformed.
func (a *Attr) Transform(value interface{}) interface{} {
	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	result = transformTime(a.TransformSpec, result)
	result = transformCase(a.TransformSpec, result)
	result = transformLength(a.TransformSpec, result)

	return result
}

// transformTime converts an RFC3339 UTC value to local time ("t") or a
// humanized "time ago" form ("T"). Unparseable values pass through.
func transformTime(spec, value string) string {
	if !strings.ContainsAny(spec, "tT") {
		return value
	}

	tz, _ := time.Now().In(time.Local).Zone()
	if tz == "" {
		return value
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return value
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}

	local := t.In(loc)
	if strings.Contains(spec, "T") {
		return humanize.Time(local)
	}
	return local.Format("2006-01-02T15:04:05MST")
}

// transformCase applies whichever case transformation appears LAST in the
// spec. A global case transformation is prepended to each attr's spec, so
// the attr's own carries more weight. IOW... --attrs '*::U,label::l'
// renders the label column lower case.
func transformCase(spec, value string) string {
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")

	switch {
	case lastL > lastU:
		return strings.ToLower(value)
	case lastU > lastL:
		return strings.ToUpper(value)
	default:
		return value
	}
}

var lengthSpecRE = regexp.MustCompile(`-?\d+`)

// transformLength truncates to the last numeric length in the spec, so a
// specific length overrides a prepended global one. A negative length
// keeps both ends of the value with ".." in the middle, which suits long
// file paths where the leading volume and trailing file name matter most.
func transformLength(spec, value string) string {
	match := lengthSpecRE.FindAllString(spec, -1)
	if len(match) == 0 {
		return value
	}

	l, _ := strconv.Atoi(match[len(match)-1])
	abs := int(math.Abs(float64(l)))
	if len(value) <= abs {
		return value
	}

	if l < 0 {
		lr := abs/2 - 1
		return value[0:lr] + ".." + value[len(value)-lr:]
	}
	return value[:l]
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// parseAttrSpec parses one ":"-delimited attribute spec. The first field is
// the JSON key to extract, with a "!" prefix meaning exclude from output and
// "*" carrying a global transform. The optional second field is the output
// key (defaults to the JSON key) and the optional third is the transform
// spec.
func parseAttrSpec(spec string) Attr {
	fields := strings.Split(spec, ":")

	attr := Attr{Include: true}

	attr.Key = strings.TrimSpace(fields[0])
	if strings.HasPrefix(attr.Key, "!") {
		attr.Include = false
		attr.Key = attr.Key[1:]
	}
	if attr.Key == "*" {
		attr.Include = false
	}

	attr.OutputKey = attr.Key
	if len(fields) > 1 && fields[1] != "" {
		attr.OutputKey = strings.TrimSpace(fields[1])
	}

	if len(fields) > 2 {
		attr.TransformSpec = strings.TrimSpace(fields[2])
	}

	log.Tracef("spec parsed: key=%s, output=%s, transform=%s, include=%v",
		attr.Key, attr.OutputKey, attr.TransformSpec, attr.Include)
	return attr
}

// merge folds attr into the list. When the key already exists, usually
// because it is a command default the user is overriding, the existing entry
// is updated in place so column order stays stable.
func (a *AttrList) merge(attr Attr) {
	for i := range *a {
		if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
			(*a)[i].Include = attr.Include
			(*a)[i].OutputKey = attr.OutputKey
			(*a)[i].TransformSpec = attr.TransformSpec
			log.Tracef("existing updated: i=%d", i)
			return
		}
	}
	*a = append(*a, attr)
}

// Set parses each comma-separated spec from --attrs and folds it into the
// AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		log.Debugf("early return: value=%s", value)
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		a.merge(parseAttrSpec(spec))
	}

	return nil
}

// SetGlobalTransformSpec prepends the "*" entry's transform spec onto every
// attr in the list. Prepending rather than appending lets each attr's own
// spec win, since the later transform takes precedence.
func (a *AttrList) SetGlobalTransformSpec() error {
	var spec string
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}

	if spec == "" {
		log.Debugf("no global spec")
		return nil
	}
	log.Debugf("global spec: spec=%s", spec)

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}

	return nil
}

// String returns a string representation of the AttrList. This matches the
// format of the original --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}

	resultStr := strings.Join(result, ",")
	log.Debugf("string built: result=%s", resultStr)
	return resultStr
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
