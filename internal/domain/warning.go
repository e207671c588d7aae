package domain

// Warning is an advisory condition raised during a write that does not block
// the write. Warnings are collected per request and attached to the successful
// response for caller visibility.
type Warning struct {
	Code    string
	Message string
}
