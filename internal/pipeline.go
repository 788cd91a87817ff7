package internal

// Stage is one named step of the request pipeline.
type Stage struct {
	Name       string
	Middleware Middleware
}

// Pipeline is an ordered list of stages. The first stage sees the request first.
// Routing always runs after the last stage.
type Pipeline []Stage

// Names returns stage names in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, 0, len(p))
	for _, s := range p {
		names = append(names, s.Name)
	}
	return names
}

// Then composes the pipeline around h.
func (p Pipeline) Then(h HandlerFunc) HandlerFunc {
	mw := make([]Middleware, 0, len(p))
	for _, s := range p {
		mw = append(mw, s.Middleware)
	}
	return Chain(h, mw...)
}

// When returns the stages only if cond holds.
//
//	pipeline = append(pipeline, sitekit.When(prod, hstsStage)...)
func When(cond bool, stages ...Stage) []Stage {
	if !cond {
		return nil
	}
	return stages
}
