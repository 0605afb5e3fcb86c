package report

import "encoding/json"

// countAdvisories returns the length of a raw advisory list, or zero when
// it is not a JSON array.
func countAdvisories(raw json.RawMessage) int {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}

// Advisory holds the commonly displayed fields of a GitHub advisory.
type Advisory struct {
	GHSAID   string `json:"ghsa_id"`
	CVEID    string `json:"cve_id"`
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
	URL      string `json:"html_url"`
}

// DecodeAdvisories extracts the displayable fields from a raw advisory
// list. Unknown shapes yield nil.
func DecodeAdvisories(raw json.RawMessage) []Advisory {
	var out []Advisory
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
