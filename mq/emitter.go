package mq

import (
	"context"
	"encoding/json"
	"log"

	"wanderwise/models"
	"wanderwise/rdx"
)

const eventChannel = "itinerary-events"

// Emit publishes a lifecycle event (generated, saved, save-failed) to Redis.
// Publishing is best-effort; a failed emit is logged and dropped.
func Emit(ctx context.Context, eventName string, content models.Index) {
	content.Method = eventName

	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, eventChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s event to Redis: %v", eventName, err)
	}
}

// StartEventLogger subscribes to lifecycle events and writes them to the
// process log. It is the observability hook for fire-and-forget writes:
// persistence failures surface here rather than in the request path.
func StartEventLogger() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventChannel)
	ch := sub.Channel()

	log.Println("[EventLogger] Listening for itinerary events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventLogger] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[EventLogger] event=%s entity=%s/%s item=%s", event.Method, event.EntityType, event.EntityId, event.ItemId)
	}
}
