package solr

import (
	"bytes"
	"encoding/json"
	"encoding/xml"

	"github.com/kailas-cloud/solrdex/internal/db"
)

type xmlNamed struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlList struct {
	Name  string     `xml:"name,attr"`
	Strs  []xmlNamed `xml:"str"`
	Lists []xmlList  `xml:"lst"`
}

func (l xmlList) list(name string) (xmlList, bool) {
	for _, c := range l.Lists {
		if c.Name == name {
			return c, true
		}
	}
	return xmlList{}, false
}

func (l xmlList) str(name string) (string, bool) {
	for _, s := range l.Strs {
		if s.Name == name {
			return s.Value, true
		}
	}
	return "", false
}

type xmlResponse struct {
	XMLName xml.Name `xml:"response"`
	xmlList
}

type jsonErrorDoc struct {
	ResponseHeader struct {
		Params map[string]any `json:"params"`
	} `json:"responseHeader"`
	Error *struct {
		Msg string `json:"msg"`
	} `json:"error"`
}

// DecodeError extracts the error message and echoed query from a Solr error
// payload. Both must be present for the document to count as known.
func DecodeError(body []byte) (db.ErrorDocument, bool) {
	body = bytes.TrimSpace(body)
	switch {
	case bytes.HasPrefix(body, []byte("<")):
		return decodeXMLError(body)
	case bytes.HasPrefix(body, []byte("{")):
		return decodeJSONError(body)
	default:
		return db.ErrorDocument{}, false
	}
}

// DecodeError implements db.ErrorDecoder.
func (s *Store) DecodeError(body []byte) (db.ErrorDocument, bool) {
	return DecodeError(body)
}

// decodeXMLError reads /response/lst[@name='error']/str[@name='msg'] and
// /response/lst[@name='responseHeader']/lst[@name='params']/str[@name='q'].
func decodeXMLError(body []byte) (db.ErrorDocument, bool) {
	var doc xmlResponse
	if err := xml.Unmarshal(body, &doc); err != nil {
		return db.ErrorDocument{}, false
	}
	errList, ok := doc.list("error")
	if !ok {
		return db.ErrorDocument{}, false
	}
	msg, ok := errList.str("msg")
	if !ok {
		return db.ErrorDocument{}, false
	}
	header, ok := doc.list("responseHeader")
	if !ok {
		return db.ErrorDocument{}, false
	}
	params, ok := header.list("params")
	if !ok {
		return db.ErrorDocument{}, false
	}
	q, ok := params.str("q")
	if !ok {
		return db.ErrorDocument{}, false
	}
	return db.ErrorDocument{Message: msg, Query: q}, true
}

func decodeJSONError(body []byte) (db.ErrorDocument, bool) {
	var doc jsonErrorDoc
	if err := json.Unmarshal(body, &doc); err != nil || doc.Error == nil || doc.Error.Msg == "" {
		return db.ErrorDocument{}, false
	}
	q, ok := doc.ResponseHeader.Params["q"].(string)
	if !ok {
		return db.ErrorDocument{}, false
	}
	return db.ErrorDocument{Message: doc.Error.Msg, Query: q}, true
}
