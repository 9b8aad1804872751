// Package chunk contains the chunking transform. The main type is Chunker,
// which can be created using New. It sits between a producer of records and a
// downstream Stage that consumes batches, and groups every ChunkSize records
// into one batch:
//
//	producer --Accept--> Chunker[T] --Accept([]T)--> Stage[[]T]
//
// Batch boundaries are decided by count alone. For N records and a chunk size
// of K, exactly ceil(N/K) batches are emitted; all of them hold K records
// except possibly the last, which is flushed by Complete. Records keep their
// arrival order and each one appears in exactly one batch.
//
// Every operation returns a Result whose Outcome says what happened:
//
//	Buffered  the record was held, nothing was emitted
//	Emitted   a full batch was forwarded downstream
//	Flushed   Complete forwarded a final, possibly short, batch
//	Ended     Complete found nothing buffered
//	Failed    an error was forwarded downstream (or raised by it)
//	Rejected  the call returned an error and had no effect
//
// Flow control runs the other way. Result.Continue reports whether the
// producer may send the next record right away; when it is false the producer
// should call Wait before the next Accept:
//
//	res, err := c.Accept(ctx, rec)
//	if err != nil {
//		return err
//	}
//	if !res.Continue {
//		if err := c.Wait(ctx); err != nil {
//			return err
//		}
//	}
//
// Fail forwards the producer's error downstream unchanged. Records buffered at
// that moment are discarded, never flushed; Result.Discarded reports how many.
//
// A Chunker is driven by a single producer and is not safe for concurrent use.
package chunk
