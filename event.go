package fruitbasket

// ParseURLEvent returns the URL carried by a GetURL Apple event, or "" for
// any other event.
func ParseURLEvent(ev Event) string {
	if ev.Class != KInternetEventClass || ev.ID != KAEGetURL {
		return ""
	}
	return ev.DirectObject
}
