package embedder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequester is a requester test double recording every call it receives
// and replaying scripted responses/errors in order.
type fakeRequester struct {
	calls     [][]string
	responses [][][]float32
	errs      []error
	dims      int
}

func (f *fakeRequester) dimensions() int { return f.dims }
func (f *fakeRequester) close() error    { return nil }

func (f *fakeRequester) requestBatch(_ context.Context, texts []string) ([][]float32, error) {
	i := len(f.calls)
	f.calls = append(f.calls, append([]string{}, texts...))
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	out := make([][]float32, len(texts))
	for j := range texts {
		out[j] = []float32{float32(j)}
	}
	return out, nil
}

func TestEmbedBatchPreservesOrderAcrossBatchBoundaries(t *testing.T) {
	fr := &fakeRequester{dims: 1}
	p := newBatchedProvider(fr, limits{rpm: 1_000_000, batchSize: 2})

	out, err := p.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, out, 5)
	require.Len(t, fr.calls, 3)
	assert.Equal(t, []string{"a", "b"}, fr.calls[0])
	assert.Equal(t, []string{"c", "d"}, fr.calls[1])
	assert.Equal(t, []string{"e"}, fr.calls[2])
}

func TestEmbedBatchRecordsRateLimiterLastCall(t *testing.T) {
	fr := &fakeRequester{dims: 1}
	p := newBatchedProvider(fr, limits{rpm: 60, batchSize: 1}) // 1000ms interval

	var slept []time.Duration
	p.limiter.sleep = func(d time.Duration) { slept = append(slept, d) }
	fakeNow := time.Now()
	p.limiter.now = func() time.Time { return fakeNow }

	_, err := p.EmbedBatch(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, fakeNow, p.limiter.lastCall)
}

func TestRequestWithRetryRetriesRateLimitedThenSucceeds(t *testing.T) {
	fr := &fakeRequester{
		dims: 1,
		errs: []error{&RetryableError{StatusCode: 429, Err: errors.New("429 too many requests")}, nil},
	}
	p := newBatchedProvider(fr, limits{rpm: 1_000_000, batchSize: 10})
	var delays []time.Duration
	p.sleep = func(d time.Duration) { delays = append(delays, d) }

	out, err := p.EmbedBatch(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	require.Len(t, delays, 1)
	assert.Equal(t, 20*time.Second, delays[0])
}

func TestRequestWithRetryGivesUpAfterMaxRetries(t *testing.T) {
	always429 := &RetryableError{StatusCode: 429, Err: errors.New("429")}
	fr := &fakeRequester{dims: 1, errs: []error{always429, always429, always429, always429}}
	p := newBatchedProvider(fr, limits{rpm: 1_000_000, batchSize: 10})
	p.sleep = func(time.Duration) {}

	_, err := p.EmbedBatch(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Len(t, fr.calls, 4) // 1 initial + 3 retries
}

func TestRequestWithRetryDoesNotRetryNonRetryableErrors(t *testing.T) {
	fr := &fakeRequester{dims: 1, errs: []error{errors.New("400 bad request")}}
	p := newBatchedProvider(fr, limits{rpm: 1_000_000, batchSize: 10})
	p.sleep = func(time.Duration) { t.Fatal("must not sleep for a non-retryable error") }

	_, err := p.EmbedBatch(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Len(t, fr.calls, 1)
}

func TestTestConnectionEmbedsLiteralString(t *testing.T) {
	fr := &fakeRequester{dims: 1}
	p := newBatchedProvider(fr, limits{rpm: 1_000_000, batchSize: 10})

	result := p.TestConnection(context.Background())
	assert.True(t, result.Success)
	require.Len(t, fr.calls, 1)
	assert.Equal(t, []string{"test connection"}, fr.calls[0])
}

func TestResolveModelSubstitutesOnMismatch(t *testing.T) {
	resolved, substituted := resolveModel(KindOpenAI, "not-a-valid-model")
	assert.True(t, substituted)
	assert.Equal(t, defaultModels[KindOpenAI], resolved)

	resolved, substituted = resolveModel(KindOpenAI, "text-embedding-3-large")
	assert.False(t, substituted)
	assert.Equal(t, "text-embedding-3-large", resolved)
}

func TestResolveModelCustomIsVerbatim(t *testing.T) {
	resolved, substituted := resolveModel(KindCustom, "anything-goes")
	assert.False(t, substituted)
	assert.Equal(t, "anything-goes", resolved)
}

func TestNewRejectsCustomWithoutBaseURL(t *testing.T) {
	_, err := New(Config{Provider: KindCustom}, nil)
	require.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "not-a-provider"}, nil)
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewBuildsEveryKnownProvider(t *testing.T) {
	for kind := range providerLimits {
		cfg := Config{Provider: kind}
		if kind == KindCustom {
			cfg.BaseURL = "https://example.test/embed"
		}
		p, err := New(cfg, nil)
		require.NoError(t, err, kind)
		assert.NotZero(t, p.Dimensions(), kind)
	}
}
