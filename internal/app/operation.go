package app

// Operation status values recorded in the operations table.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation tracks a CLI command that may mutate the database.
// Operations are created in memory with ID=0. Only DB-mutating commands
// persist them (giving them an auto-increment ID from the database).
type Operation struct {
	ID         int64
	Name       string
	Parameters string
	RequestID  string // client-chosen key for duplicate detection; may be empty
	Status     string
}

// NewOperation creates a new in-memory operation that will finish as a success
// unless Fail is called.
func NewOperation(name, parameters, requestID string) *Operation {
	return &Operation{
		Name:       name,
		Parameters: parameters,
		RequestID:  requestID,
		Status:     StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed if err is non-nil and returns err.
func (op *Operation) Fail(err error) error {
	if err != nil {
		op.Status = StatusError
	}
	return err
}
