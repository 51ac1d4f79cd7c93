package driver

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf16"

	"gopkg.in/yaml.v3"

	"github.com/YagoCrispim/pascal-interpreter/pkg/runtime"
)

// TextHeader precedes the JSON table in the text report.
const TextHeader = "var_name: var_value"

// WriteSnapshot prints the final variable table in the requested format.
// Every format keeps first-assignment order.
func WriteSnapshot(w io.Writer, snap runtime.Snapshot, format OutputFormat) error {
	var buf bytes.Buffer
	switch format {
	case FormatJSON, "":
		writeSnapshotJSON(&buf, snap)
	case FormatText:
		buf.WriteString(TextHeader)
		buf.WriteByte('\n')
		writeSnapshotJSON(&buf, snap)
	case FormatYAML:
		if err := writeSnapshotYAML(&buf, snap); err != nil {
			return err
		}
	default:
		return fmt.Errorf("output: unsupported format %q", format)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// writeSnapshotJSON writes a two-space indented object. Non-finite reals use
// the NaN/Infinity spellings and names are ASCII-escaped.
func writeSnapshotJSON(buf *bytes.Buffer, snap runtime.Snapshot) {
	if len(snap) == 0 {
		buf.WriteString("{}\n")
		return
	}
	buf.WriteString("{\n")
	for i, b := range snap {
		buf.WriteString("  ")
		writeJSONString(buf, b.Name)
		buf.WriteString(": ")
		buf.WriteString(jsonNumber(b.Value))
		if i < len(snap)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
}

func jsonNumber(v runtime.Value) string {
	if rv, ok := v.(runtime.RealValue); ok {
		switch {
		case math.IsNaN(rv.Val):
			return "NaN"
		case math.IsInf(rv.Val, 1):
			return "Infinity"
		case math.IsInf(rv.Val, -1):
			return "-Infinity"
		}
	}
	return runtime.FormatValue(v)
}

func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		case r < 0x20 || r > 0x7e:
			if r > 0xffff {
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(buf, "\\u%04x\\u%04x", hi, lo)
			} else {
				fmt.Fprintf(buf, "\\u%04x", r)
			}
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

func writeSnapshotYAML(buf *bytes.Buffer, snap runtime.Snapshot) error {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(snap) == 0 {
		doc.Style = yaml.FlowStyle
	}
	for _, b := range snap {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: b.Name}
		doc.Content = append(doc.Content, key, yamlScalar(b.Value))
	}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("output: encode yaml: %w", err)
	}
	return enc.Close()
}

func yamlScalar(v runtime.Value) *yaml.Node {
	switch val := v.(type) {
	case runtime.IntegerValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: val.Val.String()}
	case runtime.RealValue:
		text := runtime.FormatReal(val.Val)
		switch {
		case math.IsNaN(val.Val):
			text = ".nan"
		case math.IsInf(val.Val, 1):
			text = ".inf"
		case math.IsInf(val.Val, -1):
			text = "-.inf"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: text}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: strconv.Quote(runtime.FormatValue(v))}
	}
}
