package llm

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dhabedank/promptsmith/internal/core"
)

// Retry policy for analyze/enhance calls: the initial attempt plus two
// automatic retries with a fixed delay, after which the failure is handed
// back for manual retry.
const (
	retryAttempts = 3
	retryDelay    = 2 * time.Second
)

// AnalyzeWithRetry runs Analyze with the bounded retry policy.
func AnalyzeWithRetry(ctx context.Context, a Adapter, req core.AnalyzeRequest) (*core.AnalysisResult, error) {
	var result *core.AnalysisResult
	err := retry.Do(
		func() error {
			res, err := a.Analyze(ctx, req)
			if err != nil {
				return err
			}
			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EnhanceWithRetry runs Enhance with the bounded retry policy.
func EnhanceWithRetry(ctx context.Context, a Adapter, req core.EnhanceRequest) (*core.EnhanceResult, error) {
	var result *core.EnhanceResult
	err := retry.Do(
		func() error {
			res, err := a.Enhance(ctx, req)
			if err != nil {
				return err
			}
			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
