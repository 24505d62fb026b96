package store

import (
	"encoding/json"
	"strings"
)

func replaceOnce(s, old, replacement string) string {
	return strings.Replace(s, old, replacement, 1)
}

func dropField(s *TransactionStoreSuite, record, field string) string {
	var raw map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal([]byte(record), &raw))
	delete(raw, field)
	out, err := json.Marshal(raw)
	s.Require().NoError(err)
	return string(out)
}
