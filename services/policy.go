package services

import (
	"context"
	"fmt"
	"os"

	appContext "github.com/alphabatem/common/context"
	"github.com/open-policy-agent/opa/rego"
	log "github.com/sirupsen/logrus"
)

const (
	POLICY_SVC = "policy_svc"

	PolicyAllow = "allow"
	PolicyBlock = "block"
)

// DefaultSessionPolicy admits every session start. Deployments override it
// with SESSION_POLICY_FILE.
const DefaultSessionPolicy = `
package session_policy

default decision = "allow"
`

// SessionPolicyInput is the document a session policy is evaluated against.
type SessionPolicyInput struct {
	UserID            string `json:"user_id"`
	Mode              string `json:"mode"`
	Scenario          string `json:"scenario"`
	TotalSeconds      int    `json:"total_seconds"`
	RemainingSeconds  int    `json:"remaining_seconds"`
	DailyLimitSeconds int    `json:"daily_limit_seconds"`
}

// SessionPolicy decides whether a session may start.
type SessionPolicy interface {
	Evaluate(ctx context.Context, input SessionPolicyInput) (string, error)
}

// PolicyEngine evaluates a prepared rego query.
type PolicyEngine struct {
	query rego.PreparedEvalQuery
}

func NewPolicyEngine(ctx context.Context, policy string) (*PolicyEngine, error) {
	r := rego.New(
		rego.Query("data.session_policy.decision"),
		rego.Module("session_policy.rego", policy),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &PolicyEngine{query: query}, nil
}

// Evaluate returns the policy decision. An undefined decision allows.
func (e *PolicyEngine) Evaluate(ctx context.Context, input SessionPolicyInput) (string, error) {
	doc := map[string]interface{}{
		"user_id":             input.UserID,
		"mode":                input.Mode,
		"scenario":            input.Scenario,
		"total_seconds":       input.TotalSeconds,
		"remaining_seconds":   input.RemainingSeconds,
		"daily_limit_seconds": input.DailyLimitSeconds,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(doc))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return PolicyAllow, nil
	}

	decision, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("policy decision is %T, want string", results[0].Expressions[0].Value)
	}
	return decision, nil
}

// PolicyService loads the session policy at boot.
type PolicyService struct {
	appContext.DefaultService

	engine *PolicyEngine
}

func (svc PolicyService) Id() string {
	return POLICY_SVC
}

func (svc *PolicyService) Configure(ctx *appContext.Context) error {
	policy := DefaultSessionPolicy
	source := "default"

	if path := getEnv("SESSION_POLICY_FILE", ""); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read session policy: %w", err)
		}
		policy = string(content)
		source = path
	}

	engine, err := NewPolicyEngine(context.Background(), policy)
	if err != nil {
		return err
	}
	svc.engine = engine

	log.WithField("source", source).Info("Session policy loaded")
	return svc.DefaultService.Configure(ctx)
}

func (svc *PolicyService) Start() error {
	return nil
}

func (svc *PolicyService) Engine() *PolicyEngine {
	return svc.engine
}
