package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketTTL(t *testing.T) {
	// 3 tokens at 0.05/s drains in 60s; TTL doubles that.
	assert.Equal(t, 120*time.Second, bucketTTL(0.05, 3))
	// Tiny buckets still get at least a second.
	assert.Equal(t, time.Second, bucketTTL(100, 1))
}

func TestCastHelpers(t *testing.T) {
	assert.EqualValues(t, 1, castToInt(int64(1)))
	assert.EqualValues(t, 2, castToInt(float64(2.9)))
	assert.EqualValues(t, 0, castToInt("nope"))

	assert.EqualValues(t, 1.5, castToFloat("1.5"))
	assert.EqualValues(t, 3, castToFloat(int64(3)))
	assert.EqualValues(t, 0, castToFloat("not-a-number"))
}

func TestAllowRejectsBadArguments(t *testing.T) {
	tb := NewTokenBucket(nil)
	_, err := tb.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)

	var nilBucket *TokenBucket
	_, err = nilBucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
}
