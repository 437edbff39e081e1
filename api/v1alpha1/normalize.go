package v1alpha1

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Some status endpoints return the payload directly, others wrap it as
// a JSON-encoded string inside a "body" field (API-gateway proxy
// style). DecodeEnvelope returns the inner document in either case.
// Malformed input is returned unchanged; the caller's unmarshal
// reports the real error.
func DecodeEnvelope(raw []byte) []byte {
	var env struct {
		Body any `json:"body"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if s, ok := env.Body.(string); ok && s != "" {
		return []byte(s)
	}
	return raw
}

// flexNumber tolerates a numeric field arriving as a JSON number or as
// a quoted number.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexNumber(v)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var uuidPrefix = regexp.MustCompile(`^[0-9a-fA-F-]{36}-`)

// DisplayTitle cleans a storage-derived name into a presentable
// project title: the job-id prefix and file extension are dropped,
// dashes become spaces and words are capitalized.
func DisplayTitle(s string) string {
	if s == "" {
		return "Untitled Project"
	}
	s = uuidPrefix.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = strings.ReplaceAll(s, "-", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return "Untitled Project"
	}
	return strings.Join(words, " ")
}
