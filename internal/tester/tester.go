package tester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/moamenhredeen/relcheck/internal/models"
	"golang.org/x/time/rate"
)

const (
	// maxErrorText is the number of runes of an error or body kept in a result
	maxErrorText = 200
	maxBodyBytes = 4 << 20
)

// RequestFunc builds the request of one check. It is invoked by the tester
// with the context the request should carry.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Config holds tester configuration
type Config struct {
	Timeout   time.Duration // per-request timeout, 0 means 30s
	RateLimit float64       // max requests per second, 0 means unlimited
	Client    *http.Client  // optional, overrides Timeout
}

// Tester executes guarded HTTP checks
type Tester struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewTester creates a new tester instance
func NewTester(config Config) *Tester {
	client := config.Client
	if client == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &Tester{
		client:  client,
		limiter: limiter,
	}
}

// Execute runs one check. It never returns an error: every failure is
// reported in the returned result. expected defaults to 200.
func (t *Tester) Execute(ctx context.Context, description string, fn RequestFunc, expected ...int) (result models.CheckResult) {
	if len(expected) == 0 {
		expected = []int{http.StatusOK}
	}
	result = models.CheckResult{
		Description: description,
		Expected:    expected,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Passed = false
			result.Kind = models.KindTransport
			result.Error = truncate(fmt.Sprintf("unexpected panic: %v", r))
		}
	}()

	req, err := fn(ctx)
	if err != nil {
		return t.fail(result, models.KindTransport, fmt.Sprintf("failed to build request: %v", err))
	}
	result.Method = req.Method
	result.URL = req.URL.String()
	result.Curl = curlCommand(req)

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return t.fail(result, models.KindTransport, fmt.Sprintf("rate limiter: %v", err))
		}
	}

	startTime := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		result.Duration = time.Since(startTime)
		return t.fail(result, models.KindTransport, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	result.Duration = time.Since(startTime)
	result.StatusCode = resp.StatusCode
	result.Body = body
	if err != nil {
		return t.fail(result, models.KindTransport, fmt.Sprintf("failed to read response body: %v", err))
	}

	if !slices.Contains(expected, resp.StatusCode) {
		return t.fail(result, models.KindStatus, string(body))
	}

	result.Passed = true
	return result
}

func (t *Tester) fail(result models.CheckResult, kind models.ErrorKind, text string) models.CheckResult {
	result.Passed = false
	result.Kind = kind
	result.Error = truncate(strings.TrimSpace(text))
	return result
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxErrorText {
		return s
	}
	return string(r[:maxErrorText])
}

// curlCommand renders req as a shell-quoted curl invocation
func curlCommand(req *http.Request) string {
	parts := []string{"curl", "-X", req.Method}
	for _, name := range []string{"Content-Type", "Accept"} {
		if v := req.Header.Get(name); v != "" {
			parts = append(parts, "-H", name+": "+v)
		}
	}
	if req.GetBody != nil {
		if rc, err := req.GetBody(); err == nil {
			data, _ := io.ReadAll(rc)
			rc.Close()
			if len(data) > 0 {
				parts = append(parts, "-d", string(data))
			}
		}
	}
	parts = append(parts, req.URL.String())

	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = shellescape.Quote(p)
	}
	return strings.Join(quoted, " ")
}
