package server

import (
	"net/http"

	"github.com/raysh454/configlens/internal/loader"
	"github.com/raysh454/configlens/internal/logging"
)

// wsRowEvent is one aligned row pushed over the compare websocket.
type wsRowEvent struct {
	Event      string `json:"event"`
	Index      int    `json:"index"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	SourceType string `json:"source_type"`
	TargetType string `json:"target_type"`
}

// wsSummaryEvent closes the stream with the aggregate result.
type wsSummaryEvent struct {
	Event            string `json:"event"`
	RowCount         int    `json:"row_count"`
	HasDiff          bool   `json:"has_diff"`
	RunID            string `json:"run_id,omitempty"`
	NormalizeWarning string `json:"normalize_warning,omitempty"`
}

// handleCompareWS upgrades the connection, reads one CompareRequest, then
// streams aligned rows one frame at a time followed by a summary frame.
// Large configs render progressively on the client this way.
func (s *Server) handleCompareWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var body CompareRequest
	if err := conn.ReadJSON(&body); err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid JSON"})
		return
	}

	p, err := parsePlatform(body.Platform)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	res, err := s.orchestrator.CompareLines(r.Context(),
		loader.Split(body.Source), loader.Split(body.Target),
		compareOptions(body, p))
	if err != nil {
		s.logger.Warn("comparing configs", logging.Field{Key: "error", Value: err.Error()})
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	for i, row := range res.Structural.Rows {
		ev := wsRowEvent{
			Event:      "row",
			Index:      i,
			Source:     row.Source,
			Target:     row.Target,
			SourceType: string(res.Structural.SourceTypes[i]),
			TargetType: string(res.Structural.TargetTypes[i]),
		}
		if err := conn.WriteJSON(ev); err != nil {
			// Client disconnected
			return
		}
	}

	_ = conn.WriteJSON(wsSummaryEvent{
		Event:            "summary",
		RowCount:         len(res.Structural.Rows),
		HasDiff:          res.HasDiff,
		RunID:            res.RunID,
		NormalizeWarning: res.NormalizeWarning,
	})
}
