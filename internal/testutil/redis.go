package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPingTimeout = 2 * time.Second
	redisLockTTL     = 30 * time.Minute
	redisLockPrefix  = "reportd:testutil:db_lock:"
)

// redisCandidates are probed in order when REDIS_ADDR is unset.
var redisCandidates = []string{"redis:6379", "localhost:6379", "localhost:56379"}

// SetupTestRedis returns a client on a freshly flushed logical DB reserved for
// this test. The reservation and client are released on cleanup.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := findRedis(t)
	if !ok {
		if requireRedis() {
			t.Fatal("redis not available for testing")
		}
		t.Skip("redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: reserveRedisDB(t, addr)})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush test redis at %s: %v", addr, err)
	}
	return client
}

func findRedis(t TestingTB) (string, bool) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr, pingRedis(t, addr)
	}
	for _, addr := range redisCandidates {
		if pingRedis(t, addr) {
			return addr, true
		}
	}
	return "", false
}

func pingRedis(t TestingTB, addr string) bool {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("redis not available at %s: %v", addr, err)
		return false
	}
	return true
}

// reserveRedisDB picks a logical DB so parallel packages do not flush each
// other. TEST_REDIS_DB wins; otherwise DBs 1..15 are claimed with SETNX keys
// held in DB 0, falling back to DB 1.
func reserveRedisDB(t TestingTB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer meta.Close()

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for db := 1; db <= 15; db++ {
		key := redisLockPrefix + strconv.Itoa(db)
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		ok, err := meta.SetNX(ctx, key, owner, redisLockTTL).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() { releaseRedisDB(t, addr, key) })
		return db
	}

	t.Logf("all redis test DBs reserved, sharing DB 1")
	return 1
}

func releaseRedisDB(t TestingTB, addr, key string) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := c.Del(ctx, key).Err(); err != nil {
		t.Logf("warning: release redis db lock %s: %v", key, err)
	}
}
