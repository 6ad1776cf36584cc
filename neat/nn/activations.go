package nn

import (
	"fmt"
	"math"
)

// ActivationType defines the type for activation functions.
type ActivationType func(x float64) float64

// ActivationFunctions maps function names to the actual activation functions.
// This allows configuration to specify activations by name.
var ActivationFunctions = map[string]ActivationType{
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"absolute": Absolute,
	"abs":      Absolute, // Alias for absolute
	"sine":     Sine,
	"hat":      Hat,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationType, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// Sigmoid is the steepened logistic function 1 / (1 + exp(-4.9x)).
func Sigmoid(x float64) float64 {
	const k = 4.9
	return 1.0 / (1.0 + math.Exp(-k*x))
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// Clamped clamps the output between -1 and 1.
func Clamped(x float64) float64 {
	return math.Max(-1.0, math.Min(x, 1.0))
}

// Gaussian activation function.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Absolute value activation function.
func Absolute(x float64) float64 {
	return math.Abs(x)
}

// Sine activation function.
func Sine(x float64) float64 {
	return math.Sin(x)
}

// Hat activation function (triangular pulse centered at 0).
func Hat(x float64) float64 {
	return math.Max(0.0, 1.0-math.Abs(x))
}
