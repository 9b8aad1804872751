package pipeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/MasterOfBinary/gochunk/bulk"
	"github.com/MasterOfBinary/gochunk/chunk"
	"github.com/MasterOfBinary/gochunk/pipeline"
	"github.com/MasterOfBinary/gochunk/sink"
	"github.com/MasterOfBinary/gochunk/source"
)

// docs stands in for a *mongo.Cursor over a restaurants collection.
type docs struct {
	raw []string
	cur string
}

func (d *docs) Next(context.Context) bool {
	if len(d.raw) == 0 {
		return false
	}
	d.cur, d.raw = d.raw[0], d.raw[1:]
	return true
}

func (d *docs) Decode(v interface{}) error  { return json.Unmarshal([]byte(d.cur), v) }
func (d *docs) Err() error                  { return nil }
func (d *docs) Close(context.Context) error { return nil }

// topic stands in for a *kafka.Writer.
type topic struct{}

func (topic) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	values := make([]string, len(msgs))
	for i, m := range msgs {
		values[i] = string(m.Value)
	}
	fmt.Println(strings.Join(values, " "))
	return nil
}

func (topic) Close() error { return nil }

type Restaurant struct {
	Name string `json:"name"`
}

// Copies a collection into a Kafka topic, two documents per write.
func Example() {
	ctx := context.Background()

	src, _ := source.NewCursor[Restaurant](&docs{raw: []string{
		`{"name":"Morris Park Bake Shop"}`,
		`{"name":"Wendy's"}`,
		`{"name":"Riviera Caterer"}`,
	}})
	w, _ := sink.NewWriter[Restaurant](bulk.NewKafka[Restaurant](topic{}), sink.WriterConfig{})

	report, err := pipeline.Run[Restaurant](ctx, src, w, chunk.Config{ChunkSize: 2})
	if err != nil {
		fmt.Println("migration failed:", err)
		return
	}
	fmt.Printf("%d records in %d batches\n", report.Records, report.Batches)

	// Output:
	// {"name":"Morris Park Bake Shop"} {"name":"Wendy's"}
	// {"name":"Riviera Caterer"}
	// 3 records in 2 batches
}
