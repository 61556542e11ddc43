package lighting

// CheckForChange compares current against the value remembered in previous.
// On a difference it stores current and reports true; otherwise previous is
// left untouched. Call it once per observation per frame, a second call in
// the same frame sees no transition.
func CheckForChange[T comparable](current T, previous *T) bool {
	if current == *previous {
		return false
	}
	*previous = current
	return true
}
