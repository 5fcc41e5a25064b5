package mq

import (
	"testing"

	"progressgarant/models"
)

func TestEmitterDeliversToSubscribers(t *testing.T) {
	bus := NewEmitter()

	var got []models.Index
	unsub := bus.Subscribe("topic-a", func(ev models.Index) {
		got = append(got, ev)
	})

	bus.Emit("topic-a", models.Index{EntityType: "product", Method: "POST", EntityId: "1"})
	bus.Emit("topic-b", models.Index{EntityType: "other", Method: "POST", EntityId: "2"})

	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
	if got[0].EntityId != "1" || got[0].Method != "POST" {
		t.Fatalf("unexpected payload %+v", got[0])
	}

	unsub()
	bus.Emit("topic-a", models.Index{EntityId: "3"})
	if len(got) != 1 {
		t.Fatal("listener still invoked after unsubscribe")
	}
	// double unsubscribe is harmless
	unsub()
}

func TestEmitterMultipleListeners(t *testing.T) {
	bus := NewEmitter()

	count := 0
	bus.Subscribe("t", func(models.Index) { count++ })
	bus.Subscribe("t", func(models.Index) { count++ })

	bus.Emit("t", models.Index{})
	if count != 2 {
		t.Fatalf("expected both listeners to fire, got %d", count)
	}
}

func TestEmitNoListeners(t *testing.T) {
	bus := NewEmitter()
	bus.Emit("empty", models.Index{}) // must not panic
}
