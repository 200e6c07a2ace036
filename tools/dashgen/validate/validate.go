// Package validate checks generated dashboards and rules against the set
// of metric names the service actually exports, catching renamed or
// misspelled metrics before the artifacts ship.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/alert-digest/tools/dashgen/rules"
)

// Result collects validation errors and warnings.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation produced no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Merge appends another result's errors and warnings.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every PromQL expression in a built dashboard: each
// must parse, and each metric it selects must be a known metric name.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var result Result

	// The foundation SDK buries targets in panel-type-specific structs,
	// so walk the serialized form and collect every expr field instead.
	data, err := json.Marshal(dash)
	if err != nil {
		result.errorf("marshaling dashboard: %v", err)
		return result
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		result.errorf("re-parsing dashboard JSON: %v", err)
		return result
	}

	exprs := collectExprs(tree)
	if len(exprs) == 0 {
		result.warnf("dashboard contains no PromQL expressions")
	}
	for _, expr := range exprs {
		checkExpr(&result, "dashboard", expr, known)
	}
	return result
}

// Rules validates every expression in a PrometheusRule CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var result Result
	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			checkExpr(&result, fmt.Sprintf("rule %s/%s", group.Name, name), rule.Expr, known)
		}
	}
	return result
}

func checkExpr(result *Result, where, expr string, known map[string]bool) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		result.errorf("%s: parsing %q: %v", where, expr, err)
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok {
			return nil
		}
		if vs.Name == "" {
			result.warnf("%s: selector %s has no metric name", where, vs)
			return nil
		}
		if !known[vs.Name] {
			result.errorf("%s: unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

func collectExprs(tree any) []string {
	var exprs []string
	switch v := tree.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "expr" {
				if s, ok := val.(string); ok && s != "" {
					exprs = append(exprs, s)
					continue
				}
			}
			exprs = append(exprs, collectExprs(val)...)
		}
	case []any:
		for _, item := range v {
			exprs = append(exprs, collectExprs(item)...)
		}
	}
	return exprs
}
