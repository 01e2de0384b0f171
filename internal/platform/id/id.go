package id

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New 生成带前缀的唯一 ID：prefix + "_" + ULID（统一小写）；prefix 为空时只返回 ULID。
// ULID 自带毫秒时间戳且按字典序递增，日志里直接按 ID 排序即为时间顺序。
func New(prefix string) string {
	mu.Lock()
	v := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	mu.Unlock()
	s := strings.ToLower(v.String())
	if prefix == "" {
		return s
	}
	return prefix + "_" + s
}
