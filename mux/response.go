package mux

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"net/http"
)

// ResponsePlain writes s as text/plain with the given status code.
func ResponsePlain(w http.ResponseWriter, code int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(s))
}

// ResponseJSON encodes v as JSON and writes it to the response with the given
// status code. If encoding fails, an HTTP 500 Internal Server Error is
// written instead.
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

// ResponseXML encodes v as XML and writes it to the response with the given
// status code. If encoding fails, an HTTP 500 Internal Server Error is
// written instead.
func ResponseXML(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

// Respond writes v in the format negotiated for the current route:
// XML when the route selected an XML type, plain text for text/plain and
// JSON otherwise.
func Respond(w http.ResponseWriter, r *http.Request, code int, v any) {
	switch NegotiatedContentType(r) {
	case "application/xml", "text/xml":
		ResponseXML(w, code, v)
	case "text/plain":
		if s, ok := v.(string); ok {
			ResponsePlain(w, code, s)
			return
		}
		ResponseJSON(w, code, v)
	default:
		ResponseJSON(w, code, v)
	}
}
