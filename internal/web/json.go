package web

import (
	"encoding/json"

	"github.com/sweeney/control-deck/internal/status"
)

func formatJSON(snap status.Snapshot) []byte {
	var sj status.StatusJSON
	if err := json.Unmarshal(status.FormatStatusEvent(snap, "", ""), &sj); err != nil {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		return data
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
