package core

// ValidationError reports bad or missing caller input. The API layer maps it
// to a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServiceError reports a generator or store failure. The API layer maps it to
// a 500 carrying the underlying message.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
