package staging

import "fmt"

// ErrQuery implements "error", for the description see Error.
type ErrQuery struct {
	Query string
	Err   error
}

func (err ErrQuery) Error() string {
	return fmt.Sprintf("unable to execute staging query '%s': %v", err.Query, err.Err)
}

func (err ErrQuery) Unwrap() error {
	return err.Err
}

// ErrBeginTx implements "error", for the description see Error.
type ErrBeginTx struct {
	Err error
}

func (err ErrBeginTx) Error() string {
	return fmt.Sprintf("unable to start a staging transaction: %v", err.Err)
}

func (err ErrBeginTx) Unwrap() error {
	return err.Err
}

// ErrCommit implements "error", for the description see Error.
type ErrCommit struct {
	Err error
}

func (err ErrCommit) Error() string {
	return fmt.Sprintf("unable to commit the staging transaction: %v", err.Err)
}

func (err ErrCommit) Unwrap() error {
	return err.Err
}
