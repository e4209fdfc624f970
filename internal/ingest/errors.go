package ingest

import "errors"

// Kind classifies a submission failure so the HTTP layer can pick a status
// without string-matching messages.
type Kind int

const (
	// KindInternal covers anything not explicitly classified.
	KindInternal Kind = iota
	// KindValidation is malformed or missing user input.
	KindValidation
	// KindDuplicate means the website or submitter was already submitted.
	KindDuplicate
	// KindConfiguration is a deployment error: required store config missing.
	KindConfiguration
	// KindStoreWrite means the remote store rejected the write-back.
	KindStoreWrite
	// KindWriteConflict is a stale-revision rejection: another writer
	// committed between our read and write. The caller may retry.
	KindWriteConflict
)

// Error is the typed failure returned by Ingestor.Submit.
// Message is safe to show to the caller; Err carries the diagnostic cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindInternal
}

func validationError(msg string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: cause}
}

func duplicateError() *Error {
	return &Error{
		Kind:    KindDuplicate,
		Message: "this website or contact email has already been submitted, please wait for the review result",
	}
}

func configurationError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}
