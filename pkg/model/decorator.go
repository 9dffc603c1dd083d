package model

// Decorator adjusts a form declaration after the canonical field set has been
// built. Decorators may change labels and hints but not the field set.
type Decorator interface {
	Decorate(*Definition) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Definition) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(def *Definition) error {
	return fn(def)
}
