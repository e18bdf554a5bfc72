package window

// Trigger is a one-shot latch guarding window growth.
type Trigger struct {
	armed bool
}

// Armed reports whether the next Fire will succeed.
func (t *Trigger) Armed() bool {
	return t.armed
}

// Fire disarms the trigger and reports whether it was armed.
func (t *Trigger) Fire() bool {
	if !t.armed {
		return false
	}
	t.armed = false
	return true
}

func (t *Trigger) arm(on bool) {
	t.armed = on
}
