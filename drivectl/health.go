/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package drivectl

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/eclesh/welford"
)

const (
	// HealthDefaultHistory is a default number of cycle samples to keep
	HealthDefaultHistory = 100
	// HealthDefaultJitter is a default formula to score cycle time jitter, in ns
	HealthDefaultJitter = "stddev(cycletime, 100)"
	// HealthDefaultVelocityError is a default formula to score velocity tracking, in counts
	HealthDefaultVelocityError = "abs(mean(velerror, 100))"
)

// Math stores the health expressions in two forms: string and parsed
type Math struct {
	Jitter        string // cycle time jitter score, ns
	jitterExpr    *govaluate.EvaluableExpression
	VelocityError string // velocity tracking error score, counts
	velErrExpr    *govaluate.EvaluableExpression
}

// Prepare will prepare all math expressions
func (m *Math) Prepare() error {
	var err error
	m.jitterExpr, err = prepareExpression(m.Jitter)
	if err != nil {
		return fmt.Errorf("evaluating Jitter: %w", err)
	}
	m.velErrExpr, err = prepareExpression(m.VelocityError)
	if err != nil {
		return fmt.Errorf("evaluating VelocityError: %w", err)
	}
	return nil
}

// JitterValue evaluates the jitter formula over the given cycle samples
func (m *Math) JitterValue(samples []*cycleSample) (float64, error) {
	return evaluate(m.jitterExpr, samples)
}

// VelocityErrorValue evaluates the velocity error formula over the given cycle samples
func (m *Math) VelocityErrorValue(samples []*cycleSample) (float64, error) {
	return evaluate(m.velErrExpr, samples)
}

func evaluate(expr *govaluate.EvaluableExpression, samples []*cycleSample) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("no samples")
	}
	res, err := expr.Evaluate(mapOfInterface(prepareMathParameters(samples)))
	if err != nil {
		return 0, err
	}
	return res.(float64), nil
}

func mean(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Mean()
}

func variance(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Variance()
}

func stddev(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Stddev()
}

var supportedVariables = []string{
	"cycletime",
	"wkc",
	"velerror",
}

func isSupportedVar(varName string) bool {
	for _, v := range supportedVariables {
		if v == varName {
			return true
		}
	}
	return false
}

// all the functions we support in expressions
var functions = map[string]govaluate.ExpressionFunction{
	"abs": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("abs: wrong number of arguments: want 1, got %d", len(args))
		}
		val := args[0].(float64)
		return math.Abs(val), nil
	},
	"mean": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("mean: wrong number of arguments: want 2, got %d", len(args))
		}
		vals := args[0].([]float64)
		nSamples := int(args[1].(float64))
		if len(vals) < nSamples {
			return mean(vals), nil
		}
		return mean(vals[:nSamples]), nil
	},
	"variance": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("variance: wrong number of arguments: want 2, got %d", len(args))
		}
		vals := args[0].([]float64)
		nSamples := int(args[1].(float64))
		if len(vals) < nSamples {
			return variance(vals), nil
		}
		return variance(vals[:nSamples]), nil
	},
	"stddev": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("stddev: wrong number of arguments: want 2, got %d", len(args))
		}
		vals := args[0].([]float64)
		nSamples := int(args[1].(float64))
		if len(vals) < nSamples {
			return stddev(vals), nil
		}
		return stddev(vals[:nSamples]), nil
	},
}

func prepareExpression(exprStr string) (*govaluate.EvaluableExpression, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(exprStr, functions)
	if err != nil {
		return nil, err
	}
	for _, v := range expr.Vars() {
		if !isSupportedVar(v) {
			return nil, fmt.Errorf("unsupported variable %q", v)
		}
	}
	return expr, nil
}

func prepareMathParameters(lastN []*cycleSample) map[string][]float64 {
	size := len(lastN)
	cycleTimes := make([]float64, size)
	wkcs := make([]float64, size)
	velErrors := make([]float64, size)
	for i := 0; i < size; i++ {
		cycleTimes[i] = float64(lastN[i].elapsed.Nanoseconds())
		wkcs[i] = float64(lastN[i].wkc)
		velErrors[i] = float64(lastN[i].demandVelocity - lastN[i].actualVelocity)
	}
	return map[string][]float64{
		"cycletime": cycleTimes,
		"wkc":       wkcs,
		"velerror":  velErrors,
	}
}

func mapOfInterface(m map[string][]float64) map[string]interface{} {
	mm := make(map[string]interface{}, len(m))
	for k, v := range m {
		mm[k] = v
	}
	return mm
}
