// Package contentcheck validates room bodies against the grammar named
// by their content type.
package contentcheck

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"
)

// Valid reports whether content parses under the given grammar tag.
// Unrecognized tags (including "none") accept everything.
func Valid(validateAs, content string) bool {
	switch validateAs {
	case "json":
		return json.Valid([]byte(content))
	case "xml":
		return validXML(content)
	}
	return true
}

func validXML(content string) bool {
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return true
		}
		if err != nil {
			return false
		}
	}
}
