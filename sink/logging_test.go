package sink_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/gochunk/chunk"
	. "github.com/MasterOfBinary/gochunk/sink"
)

func TestLogging(t *testing.T) {
	ctx := context.Background()

	t.Run("logs calls and delegates", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

		inner := NewCollect[int]()
		l := WrapWithLogging[[]int](inner, logger, "collector")

		res, err := l.Accept(ctx, []int{1, 2})
		require.NoError(t, err)
		assert.Equal(t, 2, res.BatchSize)
		assert.True(t, l.Ready())
		require.NoError(t, l.Wait(ctx))

		_, err = l.Complete(ctx)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, `"stage":"collector"`)
		assert.Contains(t, out, `"op":"accept"`)
		assert.Contains(t, out, `"op":"complete"`)
		assert.Contains(t, out, `"outcome":"ended"`)
		assert.Contains(t, out, `"message":"wait returned"`)
		assert.Equal(t, [][]int{{1, 2}}, inner.Batches())
	})

	t.Run("logs failures", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		l := WrapWithLogging[[]int](NewCollect[int](), logger, "")
		_, err := l.Fail(ctx, errors.New("cursor died"))
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, `"level":"error"`)
		assert.Contains(t, out, `"cause":"cursor died"`)
		assert.Contains(t, out, `"stage":"*sink.Collect[int]"`)
	})

	t.Run("zero logger is silent", func(t *testing.T) {
		l := &Logging[[]int]{Next: NewCollect[int]()}
		_, err := l.Accept(ctx, []int{1})
		assert.NoError(t, err)
	})

	t.Run("wraps a chunker", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

		out := NewCollect[int]()
		c, err := chunk.New[int](2, out)
		require.NoError(t, err)
		l := WrapWithLogging[int](c, logger, "chunker")

		for i := 0; i < 3; i++ {
			_, err := l.Accept(ctx, i)
			require.NoError(t, err)
		}
		res, err := l.Complete(ctx)
		require.NoError(t, err)
		assert.Equal(t, chunk.Flushed, res.Outcome)

		assert.NotContains(t, buf.String(), `"op":"accept"`)
		assert.Contains(t, buf.String(), `"outcome":"flushed"`)
		assert.Equal(t, [][]int{{0, 1}, {2}}, out.Batches())
	})
}
