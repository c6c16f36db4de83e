package mysql

import (
	"context"
	"fmt"

	"github.com/smferguson/debezium/lib/kafkalib"
	"github.com/smferguson/debezium/sources/mysql/snapshot"
)

// KafkaSink adapts the snapshot core's Sink interface onto the Kafka writer: change events are
// keyed and topic-routed by table, schema changes by database.
type KafkaSink struct {
	writer *kafkalib.Writer
}

func NewKafkaSink(writer *kafkalib.Writer) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (s *KafkaSink) Enqueue(ctx context.Context, event any) error {
	msg, err := toKafkaMessage(event)
	if err != nil {
		return err
	}
	return s.writer.Publish(ctx, []kafkalib.Message{msg})
}

func toKafkaMessage(event any) (kafkalib.Message, error) {
	switch e := event.(type) {
	case *snapshot.ChangeEvent:
		return kafkalib.Message{
			TopicSuffix:  e.TableID.String(),
			PartitionKey: e.Key,
			Payload:      e,
		}, nil
	case *snapshot.SchemaChange:
		return kafkalib.Message{
			TopicSuffix:  fmt.Sprintf("%s.schema-changes", e.Database),
			PartitionKey: map[string]any{"database": e.Database},
			Payload:      e,
		}, nil
	default:
		return kafkalib.Message{}, fmt.Errorf("unsupported event type %T", event)
	}
}
