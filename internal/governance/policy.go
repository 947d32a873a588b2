package governance

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Effect defines the result of a policy evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Request contains the context of a submitted query to be evaluated.
type Request struct {
	Query string
}

// Result contains the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// PolicyEngine evaluates incoming queries against a set of admission rules.
type PolicyEngine interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
}

// DefaultPolicyEngine is a basic implementation of PolicyEngine.
type DefaultPolicyEngine struct {
	MaxQueryLen int
	DeniedRegex []*regexp.Regexp
}

func NewDefaultPolicyEngine() *DefaultPolicyEngine {
	return &DefaultPolicyEngine{
		MaxQueryLen: 2000,
		DeniedRegex: make([]*regexp.Regexp, 0),
	}
}

func (e *DefaultPolicyEngine) DenyPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	e.DeniedRegex = append(e.DeniedRegex, re)
	return nil
}

func (e *DefaultPolicyEngine) Evaluate(ctx context.Context, req Request) (Result, error) {
	query := strings.TrimSpace(req.Query)

	if query == "" {
		return Result{
			Effect: EffectDeny,
			Reason: "Query is empty",
		}, nil
	}

	if e.MaxQueryLen > 0 && len(query) > e.MaxQueryLen {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("Query exceeds maximum length of %d characters", e.MaxQueryLen),
		}, nil
	}

	for _, re := range e.DeniedRegex {
		if re.MatchString(query) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("Query matches restricted pattern: %s", re.String()),
			}, nil
		}
	}

	return Result{
		Effect: EffectAllow,
		Reason: "Approved by default policy",
	}, nil
}
