package middleware

// Layer is a named middleware in a Pipeline.
type Layer struct {
	Name       string
	Middleware Middleware
}

// Pipeline is the ordered set of layers wrapped around every action call.
// The first layer added is the outermost.
type Pipeline struct {
	layers []Layer
}

// NewPipeline creates a pipeline from the given layers. Layers with a nil
// Middleware are dropped.
func NewPipeline(layers ...Layer) *Pipeline {
	p := &Pipeline{}
	for _, l := range layers {
		p.Append(l.Name, l.Middleware)
	}
	return p
}

// Append adds an innermost layer.
func (p *Pipeline) Append(name string, m Middleware) *Pipeline {
	if m != nil {
		p.layers = append(p.layers, Layer{Name: name, Middleware: m})
	}
	return p
}

// Names lists the layers from outermost to innermost.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.layers))
	for i, l := range p.layers {
		names[i] = l.Name
	}
	return names
}

// Handler wraps final with every layer.
func (p *Pipeline) Handler(final Handler) Handler {
	ms := make([]Middleware, len(p.layers))
	for i, l := range p.layers {
		ms[i] = l.Middleware
	}
	return Chain(ms...)(final)
}
