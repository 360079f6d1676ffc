package formats

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/weavelang/weave/internal/runtime"
)

// readXML decodes an XML document into nested runtime.Object values with
// encoding/xml's streaming token reader. Attributes are exposed under an
// "@" prefix, text content under "#text", and repeated child element
// names are collapsed into a list, matching the usual JSON-ification
// convention for XML documents.
func readXML(input []byte, _ map[string]string) (runtime.Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(input))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("empty XML document")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return decodeXMLElement(dec, start)
		}
	}
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement) (runtime.Value, error) {
	root := runtime.NewObject()
	for _, attr := range start.Attr {
		root.Set("@"+attr.Name.Local, runtime.Str(attr.Value))
	}
	children := runtime.NewObject()
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			appendXMLChild(children, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if trimmed := strings.TrimSpace(text.String()); trimmed != "" {
				if children.Len() == 0 && root.Len() == 0 {
					return runtime.Str(trimmed), nil
				}
				root.Set("#text", runtime.Str(trimmed))
			}
			for _, k := range children.Keys() {
				v, _ := children.Get(k)
				root.Set(k, v)
			}
			return root, nil
		}
	}
}

// appendXMLChild collapses repeated sibling element names into a list,
// the usual convention for XML-to-JSON-shaped conversion.
func appendXMLChild(into *runtime.Object, name string, value runtime.Value) {
	if existing, ok := into.Get(name); ok {
		if list, isList := existing.(runtime.List); isList {
			into.Set(name, append(list, value))
			return
		}
		into.Set(name, runtime.List{existing, value})
		return
	}
	into.Set(name, value)
}

// writeXML renders a runtime.Value back to an XML document with
// encoding/xml's token-based xml.Encoder, wrapping the value in a "root"
// element (there is no script-level concept of an XML root tag name in
// this dialect).
func writeXML(v runtime.Value, _ map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := encodeXMLValue(enc, "root", v); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXMLValue(enc *xml.Encoder, name string, v runtime.Value) error {
	switch x := v.(type) {
	case *runtime.Object:
		start := xml.StartElement{Name: xml.Name{Local: name}}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			if strings.HasPrefix(k, "@") {
				continue
			}
			if list, ok := val.(runtime.List); ok {
				for _, item := range list {
					if err := encodeXMLValue(enc, k, item); err != nil {
						return err
					}
				}
				continue
			}
			if err := encodeXMLValue(enc, k, val); err != nil {
				return err
			}
		}
		return enc.EncodeToken(xml.EndElement{Name: start.Name})
	case runtime.List:
		for _, item := range x {
			if err := encodeXMLValue(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	case runtime.Null:
		return enc.EncodeElement("", xml.StartElement{Name: xml.Name{Local: name}})
	default:
		return enc.EncodeElement(x.String(), xml.StartElement{Name: xml.Name{Local: name}})
	}
}
