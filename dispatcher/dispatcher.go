package dispatcher

// Params holds route parameters keyed by name.
type Params map[string]string

// Dispatcher tracks which controller and action the application resolved
// for the current request. The application mutates it during handling;
// everything else only reads it.
type Dispatcher struct {
	controllerName string
	actionName     string
	params         Params
	forwarded      bool
}

func New() *Dispatcher {
	return &Dispatcher{
		params: Params{},
	}
}

func (d *Dispatcher) ControllerName() string {
	return d.controllerName
}

func (d *Dispatcher) SetControllerName(name string) {
	d.controllerName = name
}

func (d *Dispatcher) ActionName() string {
	return d.actionName
}

func (d *Dispatcher) SetActionName(name string) {
	d.actionName = name
}

func (d *Dispatcher) Params() Params {
	return d.params
}

func (d *Dispatcher) SetParams(p Params) {
	if p == nil {
		p = Params{}
	}
	d.params = p
}

// Prepare points the dispatcher at a freshly resolved route, clearing any
// forwarded state left over from a previous dispatch.
func (d *Dispatcher) Prepare(controller, action string, params Params) {
	d.controllerName = controller
	d.actionName = action
	d.SetParams(params)
	d.forwarded = false
}

// Forward repoints the dispatcher at another controller/action and marks the
// dispatch as forwarded. Params are kept as is.
func (d *Dispatcher) Forward(controller, action string) {
	d.controllerName = controller
	d.actionName = action
	d.forwarded = true
}

func (d *Dispatcher) WasForwarded() bool {
	return d.forwarded
}
