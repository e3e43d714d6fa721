package feedback

import (
	"context"
	"fmt"

	"feedbackboard/internal/providers/redis"
)

func publicListKey(boardID string, t Type, sort Sort) string {
	typ := string(t)
	if typ == "" {
		typ = "all"
	}
	return fmt.Sprintf("feedback:board:%s:type:%s:sort:%s", boardID, typ, sort)
}

// InvalidateBoardCache drops every cached public list of the board. Any
// mutation that can change what ListPublic returns must call it.
func InvalidateBoardCache(ctx context.Context, redisP *redis.RedisProvider, boardID string) {
	if redisP == nil {
		return
	}
	redisP.DeletePattern(ctx, fmt.Sprintf("feedback:board:%s:*", boardID))
}
