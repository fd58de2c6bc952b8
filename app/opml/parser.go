package opml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Parser scans OPML documents for outline elements. Element and
// attribute names are compared upper-folded, so OUTLINE, outline and
// Outline are equivalent, as are xmlUrl and XMLURL.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses raw OPML data into a Document. One record is produced per
// outline element in document order; nested outlines are captured as
// independent flat records. Character data and non-outline elements are
// ignored. Malformed XML fails with a *ParseError carrying the line
// number of the offending token.
func (p *Parser) Run(data []byte, attrs AttributeMap) (*Document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var records []Record
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapDecodeError(err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if strings.ToUpper(start.Name.Local) != "OUTLINE" {
			continue
		}

		record := make(Record)
		for _, attr := range start.Attr {
			internal, mapped := attrs[CanonicalAttributeName(attr.Name.Local)]
			if !mapped {
				continue
			}
			record[internal] = attr.Value
		}
		records = append(records, record)
	}

	return &Document{records: records}, nil
}

func wrapDecodeError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Line: int64(syntaxErr.Line), Msg: syntaxErr.Msg}
	}
	return &ParseError{Msg: err.Error()}
}
