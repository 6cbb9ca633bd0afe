package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"time"

	embedruntime "github.com/adnify/retrieval/internal/embed"
)

// defaultLocalEmbedPort is the port the cortex-embed companion process
// listens on, matching cmd/cortex-embed/main.go.
const defaultLocalEmbedPort = 8121

// localRequester implements the local_transformer provider by ensuring the
// cortex-embed binary is installed and running, then talking to it over
// HTTP, continuing the teacher's internal/embed/local.go pattern (an
// embedded-Python sidecar process rather than an in-process CGo model).
type localRequester struct {
	mu          sync.Mutex
	client      *http.Client
	port        int
	cmd         *exec.Cmd
	initialized bool
	dims        int
}

func newLocalRequester(dims int) *localRequester {
	return &localRequester{
		client: &http.Client{Timeout: 30 * time.Second},
		port:   defaultLocalEmbedPort,
		dims:   dims,
	}
}

func (l *localRequester) dimensions() int { return l.dims }

func (l *localRequester) close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cmd != nil && l.cmd.Process != nil {
		_ = l.cmd.Process.Kill()
	}
	return nil
}

func (l *localRequester) ensureRunning(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized || l.isHealthy() {
		l.initialized = true
		return nil
	}

	binaryPath, err := embedruntime.EnsureBinaryInstalled(nil)
	if err != nil {
		return fmt.Errorf("ensure cortex-embed binary installed: %w", err)
	}

	cmd := exec.CommandContext(context.Background(), binaryPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start cortex-embed: %w", err)
	}
	l.cmd = cmd

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if l.isHealthy() {
			l.initialized = true
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("cortex-embed did not become healthy within 60s")
}

func (l *localRequester) isHealthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, l.healthURL(), nil)
	resp, err := l.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (l *localRequester) healthURL() string { return fmt.Sprintf("http://127.0.0.1:%d/", l.port) }
func (l *localRequester) embedURL() string  { return fmt.Sprintf("http://127.0.0.1:%d/embed", l.port) }

type localEmbedRequest struct {
	Texts []string `json:"texts"`
	Mode  string   `json:"mode"`
}
type localEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (l *localRequester) requestBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := l.ensureRunning(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(localEmbedRequest{Texts: texts, Mode: "passage"})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.embedURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		wrapped := fmt.Errorf("cortex-embed: status %d: %s", resp.StatusCode, string(body))
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			return nil, &RetryableError{StatusCode: resp.StatusCode, Err: wrapped}
		}
		return nil, wrapped
	}

	var r localEmbedResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	return r.Embeddings, nil
}
