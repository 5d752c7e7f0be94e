package health

// CollectionLister reports registered collections and their open failures.
type CollectionLister interface {
	Names() []string
	Failures() map[string]error
}
