package counter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const paymentOutcomesKey = "payment:counters:outcomes"

// PaymentOutcomes counts finished payment attempts per outcome in a Redis hash.
// Outcomes are charge statuses as reported by the provider, plus "error" for
// attempts that never produced a charge.
type PaymentOutcomes struct {
	client *redis.Client
	key    string
}

func NewPaymentOutcomes(client *redis.Client) *PaymentOutcomes {
	return &PaymentOutcomes{client: client, key: paymentOutcomesKey}
}

// RecordOutcome increments the counter for outcome. Failures are logged and
// swallowed; counting must never fail a payment.
func (p *PaymentOutcomes) RecordOutcome(ctx context.Context, outcome string) {
	field := normalizeOutcome(outcome)
	if err := p.client.HIncrBy(ctx, p.key, field, 1).Err(); err != nil {
		log.Warnf("[Counter] failed to record payment outcome %q: %v", field, err)
	}
}

// Snapshot returns the current counters without resetting them.
func (p *PaymentOutcomes) Snapshot(ctx context.Context) (map[string]int64, error) {
	data, err := p.client.HGetAll(ctx, p.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read payment outcomes: %w", err)
	}
	return parseCounts(data), nil
}

// Drain returns the counters and resets them. The hash is renamed away first
// so increments arriving during the read land in a fresh hash.
func (p *PaymentOutcomes) Drain(ctx context.Context) (map[string]int64, error) {
	tmpKey := fmt.Sprintf("%s:tmp:%d", p.key, time.Now().UnixNano())
	if err := p.client.Rename(ctx, p.key, tmpKey).Err(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return map[string]int64{}, nil
		}
		return nil, fmt.Errorf("drain payment outcomes: %w", err)
	}
	defer p.client.Del(ctx, tmpKey)

	data, err := p.client.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return nil, fmt.Errorf("drain payment outcomes: %w", err)
	}
	return parseCounts(data), nil
}

func parseCounts(data map[string]string) map[string]int64 {
	counts := make(map[string]int64, len(data))
	for field, raw := range data {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warnf("[Counter] skipping non-numeric counter %s=%q", field, raw)
			continue
		}
		counts[field] = n
	}
	return counts
}

func normalizeOutcome(outcome string) string {
	o := strings.ToLower(strings.TrimSpace(outcome))
	if o == "" {
		return "unknown"
	}
	return o
}
