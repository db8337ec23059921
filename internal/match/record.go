package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/pokerpit/pokerpit/internal/engine"
)

// HandRecord is the persisted outcome of one completed hand.
type HandRecord struct {
	HandID      int
	CompletedAt time.Time
	Winners     []int // main-pot winners, seat after the button first
	Pot         int
	Summary     string
	History     string
}

func newRecord(h *engine.Hand, res *engine.Result, at time.Time) *HandRecord {
	return &HandRecord{
		HandID:      h.ID,
		CompletedAt: at.UTC(),
		Winners:     res.Winners,
		Pot:         h.Pot(),
		Summary:     summaryLine(h, res),
		History:     engine.FormatHistory(h, res),
	}
}

func summaryLine(h *engine.Hand, res *engine.Result) string {
	if len(res.Winners) == 1 {
		return fmt.Sprintf("Hand #%d: seat %d won %d", h.ID, res.Winners[0], h.Pot())
	}
	labels := make([]string, len(res.Winners))
	for i, seat := range res.Winners {
		labels[i] = fmt.Sprintf("%d", seat)
	}
	return fmt.Sprintf("Hand #%d: seats %s split %d", h.ID, strings.Join(labels, ", "), h.Pot())
}
