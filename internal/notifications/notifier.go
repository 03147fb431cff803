package notifications

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes freshly written notifications to per-user Redis
// channels so connected frontends can refresh without polling. A nil
// Notifier (or one without a Redis client) publishes nothing.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel is the pub/sub channel carrying a user's notifications.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}

// PublishUser pushes payload onto the user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}
