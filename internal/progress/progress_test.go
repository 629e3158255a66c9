package progress

import "testing"

func TestSubscribeReceivesPublishedEvent(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe("id-1")
	defer unsubscribe()

	h.Publish("id-1", Event{Stage: "scoring", Message: "querying hosting API"})

	select {
	case ev := <-ch:
		if ev.Stage != "scoring" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestPublishToUnknownIDIsNoop(t *testing.T) {
	h := NewHub()
	h.Publish("nobody-listening", Event{Stage: "done"})
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe("id-2")
	unsubscribe()

	h.Publish("id-2", Event{Stage: "done"})

	if _, ok := <-ch; ok {
		t.Fatal("expected channel closed after unsubscribe")
	}
}
