// Package bulk provides sink.BulkWriter implementations that publish batches to
// message brokers.
//
// Writers take an already connected client and never dial, retry or
// reconnect. Connection lifecycle stays with the caller; Close releases only
// what was handed in.
//
// Usage with RabbitMQ:
//
//	ch, _ := conn.Channel()
//	bw := bulk.NewAMQP[Doc](ch, bulk.AMQPConfig{RoutingKey: "docs"})
//	w, _ := sink.NewWriter[Doc](bw, sink.WriterConfig{Concurrency: 4})
//	c, _ := chunk.New[Doc](300, w)
package bulk
