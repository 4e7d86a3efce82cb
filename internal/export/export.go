package export

import (
	"encoding/json"

	"github.com/lucsky/cuid"
	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/signal"
)

// Run writes every dataset topic from the snapshot to the destination,
// one JSON-encoded row per message. Returns the run id stamped into the
// logs so exports can be correlated with downstream consumers.
func Run(snap *signal.Snapshot, dest Destination) (string, error) {
	runID := cuid.New()

	total := 0
	perTopic := make(map[string][]interface{}, len(Topics))
	for _, topic := range Topics {
		rows, err := RecordsFor(topic, snap)
		if err != nil {
			return runID, err
		}
		perTopic[topic] = rows
		total += len(rows)
	}

	zap.L().Info("starting export",
		zap.String("run_id", runID),
		zap.String("data_source", snap.DataSource),
		zap.Int("rows", total),
	)

	bar := progressbar.Default(int64(total), "exporting")
	for _, topic := range Topics {
		for _, row := range perTopic[topic] {
			msg, err := json.Marshal(row)
			if err != nil {
				return runID, eris.Wrapf(err, "marshal row for %s", topic)
			}
			if err := dest.WriteMessage(topic, msg); err != nil {
				return runID, eris.Wrapf(err, "write row for %s", topic)
			}
			_ = bar.Add(1)
		}
		zap.L().Info("topic exported",
			zap.String("run_id", runID),
			zap.String("topic", topic),
			zap.Int("rows", len(perTopic[topic])),
		)
	}
	_ = bar.Finish()

	return runID, nil
}
