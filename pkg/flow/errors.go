package flow

import "fmt"

// QueryError is a failed balance lookup on one chain.
type QueryError struct {
	Chain string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s balance: %v", e.Chain, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
