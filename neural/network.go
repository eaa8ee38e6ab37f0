package neural

import "math/rand"

// DefaultTopology is the [8 -> 6 -> 4 -> K] layer width sequence of spec
// §4.1: 8 observation features, two ReLU hidden layers, and a final
// SoftMax layer with one output per legal phase (K = len(Phases)).
func DefaultTopology(phases int) []int {
	return []int{8, 6, 4, phases}
}

// Network is an ordered stack of Layers, mirroring
// original_source/art-int/src/lib.rs's Network. Layer i takes
// topology[i] inputs and produces topology[i+1] outputs; every layer but
// the last uses ReLU, and the last uses SoftMax so its outputs are
// comparable phase scores.
type Network struct {
	layers []Layer
}

func newNetwork(layers []Layer) *Network {
	return &Network{layers: layers}
}

// Random builds a Network with every weight and bias drawn uniformly
// from [-1, 1] using rng, matching Network::random.
func Random(rng *rand.Rand, topology []int) *Network {
	if len(topology) < 2 {
		panic("neural: topology needs at least an input and output layer")
	}
	layers := make([]Layer, 0, len(topology)-1)
	for i := 0; i+1 < len(topology); i++ {
		activation := ReLU
		if i == len(topology)-2 {
			activation = SoftMax
		}
		layers = append(layers, randomLayer(rng, topology[i], topology[i+1], activation))
	}
	return newNetwork(layers)
}

// LoadFromWeights rebuilds a Network from a flat weight stream produced
// by an earlier Flatten, consuming exactly the values the topology
// requires and panicking if too many or too few are supplied — matching
// Network::from_weights's strictness.
func LoadFromWeights(topology []int, weights []float64) *Network {
	if len(topology) < 2 {
		panic("neural: topology needs at least an input and output layer")
	}
	stream := &weightStream{values: weights}
	layers := make([]Layer, 0, len(topology)-1)
	for i := 0; i+1 < len(topology); i++ {
		activation := ReLU
		if i == len(topology)-2 {
			activation = SoftMax
		}
		layers = append(layers, layerFromWeights(topology[i], topology[i+1], stream, activation))
	}
	if !stream.exhausted() {
		panic("neural: got too many weights")
	}
	return newNetwork(layers)
}

// Propagate runs inputs through every layer in order and returns the
// final layer's output (the phase scores).
func (n *Network) Propagate(inputs []float64) []float64 {
	out := inputs
	for _, l := range n.layers {
		out = l.propagate(out)
	}
	return out
}

// Flatten returns every bias and weight in the network, bias-then-weights
// per neuron, in layer order — the exact inverse of LoadFromWeights, used
// both for persistence and as the crossover/mutation representation.
func (n *Network) Flatten() []float64 {
	var out []float64
	for _, l := range n.layers {
		for _, nn := range l.neurons {
			out = append(out, nn.bias)
			out = append(out, nn.weights...)
		}
	}
	return out
}

// Topology returns the layer width sequence that reproduces n's shape,
// for passing back into LoadFromWeights.
func (n *Network) Topology() []int {
	if len(n.layers) == 0 {
		return nil
	}
	topo := make([]int, 0, len(n.layers)+1)
	topo = append(topo, len(n.layers[0].neurons[0].weights))
	for _, l := range n.layers {
		topo = append(topo, len(l.neurons))
	}
	return topo
}

// Crossover performs uniform crossover against other: for every
// bias/weight position, the offspring independently inherits the value
// from n or from other with equal probability (spec §4.1 "Uniform
// crossover"), mirroring crossover_neurons/IndividualComponent::crossover.
// n and other must share the same topology.
func (n *Network) Crossover(other *Network, rng *rand.Rand) *Network {
	a := n.Flatten()
	b := other.Flatten()
	if len(a) != len(b) {
		panic("neural: crossover requires matching topologies")
	}
	child := make([]float64, len(a))
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return LoadFromWeights(n.Topology(), child)
}

// Mutate adds sign*coeff*u to every bias and weight in place, where sign
// is +-1 with equal probability and u is drawn uniformly from [0, 1) —
// the exact formula of IndividualComponent::mutate. The caller decides
// whether to mutate at all (spec §4.1: "the decision ... is not part of
// this function").
func (n *Network) Mutate(coeff float64, rng *rand.Rand) {
	for li := range n.layers {
		for ni := range n.layers[li].neurons {
			nn := &n.layers[li].neurons[ni]
			mutateScalar(&nn.bias, coeff, rng)
			for wi := range nn.weights {
				mutateScalar(&nn.weights[wi], coeff, rng)
			}
		}
	}
}

func mutateScalar(v *float64, coeff float64, rng *rand.Rand) {
	sign := 1.0
	if rng.Intn(2) == 0 {
		sign = -1.0
	}
	*v += sign * coeff * rng.Float64()
}
