package embedder

import (
	"context"
	"fmt"
	"time"
)

const maxRetries = 3

// batchedProvider is the shared Provider implementation for every Kind: it
// owns the rate limiter and retry policy and delegates the actual wire call
// to a requester, per spec.md §4.5.
type batchedProvider struct {
	req       requester
	limiter   *rateLimiter
	batchSize int
	sleep     func(time.Duration)
}

func newBatchedProvider(req requester, lim limits) *batchedProvider {
	return &batchedProvider{
		req:       req,
		limiter:   newRateLimiter(lim.rpm),
		batchSize: lim.batchSize,
		sleep:     time.Sleep,
	}
}

func (p *batchedProvider) Dimensions() int { return p.req.dimensions() }

func (p *batchedProvider) Close() error { return p.req.close() }

// Embed embeds a single string.
func (p *batchedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch splits texts into provider-sized batches and embeds each in
// order, waiting for the rate limit between calls and retrying transient
// failures, per spec.md §4.5. The returned slice corresponds index-by-index
// to texts.
func (p *batchedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		batch, err := p.requestWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

// requestWithRetry makes one batch request, retrying up to maxRetries times
// on retryable errors per spec.md §4.5's backoff schedule.
func (p *batchedProvider) requestWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		result, err := p.req.requestBatch(ctx, texts)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt >= maxRetries {
			return nil, lastErr
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		p.sleep(retryDelay(err, attempt))
	}
}

// retryDelay implements spec.md §4.5: a 429 waits 20s/40s/80s by attempt
// index; any other retryable error waits 1000*(attempt+1) ms.
func retryDelay(err error, attempt int) time.Duration {
	if IsRateLimited(err) {
		schedule := [...]time.Duration{20 * time.Second, 40 * time.Second, 80 * time.Second}
		if attempt < len(schedule) {
			return schedule[attempt]
		}
		return schedule[len(schedule)-1]
	}
	return time.Duration(1000*(attempt+1)) * time.Millisecond
}

// TestConnection embeds the literal string "test connection" per spec.md
// §4.5.
func (p *batchedProvider) TestConnection(ctx context.Context) ConnectionResult {
	start := time.Now()
	_, err := p.Embed(ctx, "test connection")
	if err != nil {
		return ConnectionResult{Success: false, Error: err.Error()}
	}
	return ConnectionResult{Success: true, LatencyMS: time.Since(start).Milliseconds()}
}
