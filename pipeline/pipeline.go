// Package pipeline drives records from a source.Source through a chunk.Stage.
//
// Pump is the producer loop: it reads the source, honors backpressure by
// calling Wait whenever an Accept returns Continue == false, forwards the
// first source error with Fail and calls Complete once the source is
// exhausted. Run builds a chunk.Chunker in front of a sink and pumps into it:
//
//	cur, _ := coll.Find(ctx, bson.D{})
//	src, _ := source.NewCursor[Doc](cur)
//	w, _ := sink.NewWriter[Doc](bulkWriter, sink.WriterConfig{})
//	report, err := pipeline.Run[Doc](ctx, src, w, chunk.Config{ChunkSize: 300})
package pipeline
