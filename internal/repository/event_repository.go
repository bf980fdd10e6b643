package repository

import (
	"context"
	"database/sql"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	pkgkafka "AstroChart/pkg/kafka"
)

// KafkaPublisher implements Publisher on the Kafka producer.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish keys messages by event type so consumers can partition on it.
func (p *KafkaPublisher) Publish(ctx context.Context, e *models.ChartEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.Type), e)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// ClickHouseResultStore implements ResultStore on a ClickHouse table. One
// row per comparison, scores only.
type ClickHouseResultStore struct {
	db    *sql.DB
	table string
}

func NewClickHouseResultStore(db *sql.DB, table string) repository.ResultStore {
	return &ClickHouseResultStore{db: db, table: table}
}

func (s *ClickHouseResultStore) Store(ctx context.Context, r *models.CompareRecord) error {
	q := "INSERT INTO " + s.table +
		" (ts, total_score, romantic, emotional, mental, sexual, stability, aspect_count)" +
		" VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	ts := r.TS
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, q,
		ts,
		r.TotalScore,
		r.Blocks["romantic"],
		r.Blocks["emotional"],
		r.Blocks["mental"],
		r.Blocks["sexual"],
		r.Blocks["stability"],
		uint32(r.AspectCount),
	)
	return err
}

func (s *ClickHouseResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseResultStore) Close() error {
	return nil // pool is owned by pkg/clickhouse
}
