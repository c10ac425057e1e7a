// Package kafka publishes freshly built region tables as row-level JSON
// records. The export is optional and feature-flagged; the compressed file
// cache remains the system of record.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/accident-data-etl/internal/config"
	"github.com/couchcryptid/accident-data-etl/internal/domain"
	"github.com/couchcryptid/accident-data-etl/internal/observability"
)

// exportBatchSize bounds one WriteMessages call; region tables run to tens
// of thousands of rows.
const exportBatchSize = 500

// Writer produces region table rows to the sink topic. It implements
// pipeline.RowExporter.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// ExportTable publishes every row of the table keyed by region, in batches.
func (w *Writer) ExportTable(ctx context.Context, region string, table *domain.Table) error {
	rows := table.Rows()
	msgs := make([]kafkago.Message, 0, exportBatchSize)

	for i := 0; i < rows; i++ {
		msg, err := rowMessage(region, table, i)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)

		if len(msgs) == exportBatchSize || i == rows-1 {
			if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
				return fmt.Errorf("write rows for %s: %w", region, err)
			}
			w.metrics.RowsExported.Add(float64(len(msgs)))
			msgs = msgs[:0]
		}
	}

	w.logger.Info("region exported", "region", region, "rows", rows)
	return nil
}

// Close flushes and closes the underlying producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// rowMessage serializes one table row as a column-name → value JSON object.
func rowMessage(region string, table *domain.Table, row int) (kafkago.Message, error) {
	record := make(map[string]any, len(table.Columns))
	for i := range table.Columns {
		record[table.Names[i]] = table.Columns[i].Value(row)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize row %d: %w", row, err)
	}
	return kafkago.Message{
		Key:   []byte(region),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}
