package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: ProductCreated, ProductID: 1}))
	assert.NoError(t, p.Close())
}

func TestNewKafka_Config(t *testing.T) {
	p := NewKafka([]string{"localhost:9092", "localhost:9093"}, "product_events")
	defer p.Close()

	assert.Equal(t, "product_events", p.w.Topic)
	assert.NotNil(t, p.w.Addr)
}
