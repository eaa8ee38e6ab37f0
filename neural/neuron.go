package neural

import "math/rand"

// neuron holds one bias and one weight per input, mirroring
// original_source/art-int/src/neuron.rs's Neuron.
type neuron struct {
	bias    float64
	weights []float64
}

func newNeuron(bias float64, weights []float64) neuron {
	if len(weights) == 0 {
		panic("neural: neuron with no weights")
	}
	return neuron{bias: bias, weights: weights}
}

func randomNeuron(rng *rand.Rand, inputs int) neuron {
	bias := rng.Float64()*2 - 1
	weights := make([]float64, inputs)
	for i := range weights {
		weights[i] = rng.Float64()*2 - 1
	}
	return newNeuron(bias, weights)
}

// neuronFromWeights consumes exactly 1+inputs values from the stream
// (bias first, then one weight per input), panicking if the stream runs
// dry — mirroring Neuron::from_weights's "got not enough weights".
func neuronFromWeights(inputs int, stream *weightStream) neuron {
	bias := stream.next()
	weights := make([]float64, inputs)
	for i := range weights {
		weights[i] = stream.next()
	}
	return newNeuron(bias, weights)
}

type weightStream struct {
	values []float64
	pos    int
}

func (s *weightStream) next() float64 {
	if s.pos >= len(s.values) {
		panic("neural: got not enough weights")
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

func (s *weightStream) exhausted() bool { return s.pos >= len(s.values) }
