package bulk

import "encoding/json"

// Encoder turns a value into a message body.
type Encoder[T any] func(v T) ([]byte, error)

// JSON encodes v with encoding/json. It is the default Encoder.
func JSON[T any](v T) ([]byte, error) {
	return json.Marshal(v)
}
